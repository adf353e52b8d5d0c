package main

import (
	_ "embed"
	"strings"

	"github.com/tb0hdan/fmg-script-history/pkg/commands"
)

//go:embed VERSION
var Version string

func main() {
	commands.Execute(strings.TrimSpace(Version))
}
