package config

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

var promptLabels = map[string]string{
	KeyHost:     "FortiManager IP/FQDN",
	KeyUser:     "FortiManager Username",
	KeyPassword: "FortiManager Password",
	KeyADOM:     "ADOM",
	KeyPlatform: "Desired platform (ex. FortiGate-VM64, FortiGate-60F, FortiGate-100F)",
	KeyScript:   "Script name",
}

// PromptSource interactively asks for values that every other source left
// empty. It stays silent when stdin is not a terminal, so unattended runs
// fail fast in validation instead of hanging on a prompt.
type PromptSource struct {
	labels map[string]string
	secret map[string]bool
	ask    func(label string, secret bool) string
}

func NewPromptSource() *PromptSource {
	return &PromptSource{
		labels: promptLabels,
		secret: map[string]bool{KeyPassword: true},
		ask:    askTerminal,
	}
}

func (s *PromptSource) Lookup(key string) string {
	label, ok := s.labels[key]
	if !ok {
		return ""
	}
	return s.ask(label, s.secret[key])
}

func askTerminal(label string, secret bool) string {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return ""
	}

	printer := pterm.DefaultInteractiveTextInput
	if secret {
		printer = *printer.WithMask("*")
	}
	value, err := printer.Show(label)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
