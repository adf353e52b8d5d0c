// Package config resolves collection parameters from an ordered chain of
// sources: explicit command line flags, environment variables, an optional
// config file and finally interactive prompts. The first source with a
// non-empty answer wins per key.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
)

// Flag and config file key names. The same names double as config file keys
// and, via the FMG_ prefix or a legacy binding, as environment variables.
const (
	KeyHost      = "fmg"
	KeyUser      = "user"
	KeyPassword  = "password"
	KeyADOM      = "adom"
	KeyPlatform  = "platform"
	KeyScript    = "script"
	KeyOutput    = "output"
	KeyHistoryDB = "history-db"
	KeyInsecure  = "insecure"
	KeyTimeout   = "timeout"
)

const (
	// DefaultTimeout bounds each HTTP request against the appliance.
	DefaultTimeout = 30 * time.Second
	// DefaultInsecure skips TLS verification. Appliance GUI APIs ship with
	// self-signed certificates, so verification is opt-in.
	DefaultInsecure = true
)

// Params is the resolved configuration for one collection run. It is built
// once by Resolve and passed explicitly through the pipeline.
type Params struct {
	Host      string `validate:"required,hostname_port|hostname|ip"`
	User      string `validate:"required"`
	Password  string `validate:"required"`
	ADOM      string `validate:"required"`
	Platform  string `validate:"required"`
	Script    string `validate:"required"`
	Output    string
	HistoryDB string
	Insecure  bool
	Timeout   time.Duration `validate:"min=1s"`
}

var validate = validator.New()

// Validate reports every missing or malformed parameter in one pass.
func (p *Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

// Resolve builds Params from the ordered sources. The six connection and
// query parameters fall through flags, environment, config file and prompt;
// auxiliary settings (output path, TLS, timeout, audit database) never
// prompt.
func Resolve(flags *pflag.FlagSet, configFile string) (*Params, error) {
	envSrc, err := NewEnvSource(configFile)
	if err != nil {
		return nil, err
	}

	flagSrc := NewFlagSource(flags)
	required := NewResolver(flagSrc, envSrc, NewPromptSource())
	optional := NewResolver(flagSrc, envSrc)

	params := &Params{
		Host:      required.Lookup(KeyHost),
		User:      required.Lookup(KeyUser),
		Password:  required.Lookup(KeyPassword),
		ADOM:      required.Lookup(KeyADOM),
		Platform:  required.Lookup(KeyPlatform),
		Script:    required.Lookup(KeyScript),
		Output:    optional.Lookup(KeyOutput),
		HistoryDB: optional.Lookup(KeyHistoryDB),
	}

	params.Insecure, err = lookupBool(flags, envSrc, KeyInsecure, DefaultInsecure)
	if err != nil {
		return nil, err
	}
	params.Timeout, err = lookupDuration(flags, envSrc, KeyTimeout, DefaultTimeout)
	if err != nil {
		return nil, err
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

func lookupBool(flags *pflag.FlagSet, env *EnvSource, key string, fallback bool) (bool, error) {
	if flags != nil && flags.Changed(key) {
		return flags.GetBool(key)
	}
	if raw := env.Lookup(key); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %q", key, raw)
		}
		return value, nil
	}
	return fallback, nil
}

func lookupDuration(flags *pflag.FlagSet, env *EnvSource, key string, fallback time.Duration) (time.Duration, error) {
	if flags != nil && flags.Changed(key) {
		return flags.GetDuration(key)
	}
	if raw := env.Lookup(key); raw != "" {
		value, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
		}
		return value, nil
	}
	return fallback, nil
}
