package main

import (
	"github.com/goliatone/go-scaffold/internal/cli"
)

func main() {
	cli.Execute()
}
