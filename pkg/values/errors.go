package values

import (
	"fmt"
	"strings"
)

// MissingKeyError reports a declared key with neither a default nor a supplied
// value.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("values: required key %q was not supplied and has no default", e.Key)
}

// InvalidChoiceError reports a supplied value outside a choice key's declared
// set.
type InvalidChoiceError struct {
	Key     string
	Value   string
	Choices []string
}

func (e *InvalidChoiceError) Error() string {
	return fmt.Sprintf("values: key %q: %q is not one of [%s]", e.Key, e.Value, strings.Join(e.Choices, ", "))
}

// InvalidValueError reports a supplied value that fails the key's declared
// validation pattern or has the wrong type.
type InvalidValueError struct {
	Key    string
	Value  any
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("values: key %q: invalid value %v: %s", e.Key, e.Value, e.Reason)
}

// KeyCollisionError reports a computed key registered under a name the schema
// already declares.
type KeyCollisionError struct {
	Key string
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("values: computed key %q collides with a declared key", e.Key)
}

// UnknownKeyError reports a lookup of a key neither declared nor computed.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("values: key %q is not declared", e.Key)
}
