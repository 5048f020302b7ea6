package main

import (
	"os"

	"github.com/ShabbirHasan1/monty/pkg/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
