package main

import (
	"os"

	"github.com/jmcdonald/giftkit/internal/cli"
)

// version is set via ldflags at build time: -ldflags "-X main.version=x.y.z"
var version = "dev"

func main() {
	c := cli.New(version)
	os.Exit(c.Execute(c.CurateCommand(), os.Args[1:]))
}
