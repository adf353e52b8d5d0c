package commands

import (
	"errors"

	"github.com/tb0hdan/fmg-script-history/pkg/extract"
	"github.com/tb0hdan/fmg-script-history/pkg/fmg"
	"github.com/tb0hdan/fmg-script-history/pkg/report"
)

// Exit codes per failure kind. Anything unclassified exits 1.
const (
	exitOK       = 0
	exitFailure  = 1
	exitAuth     = 2
	exitNetwork  = 3
	exitNotFound = 4
	exitWrite    = 5
	exitParse    = 6
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, fmg.ErrAuth):
		return exitAuth
	case errors.Is(err, fmg.ErrNetwork):
		return exitNetwork
	case errors.Is(err, extract.ErrNotFound):
		return exitNotFound
	case errors.Is(err, report.ErrWrite):
		return exitWrite
	case errors.Is(err, fmg.ErrParse):
		return exitParse
	default:
		return exitFailure
	}
}
