package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// A Source yields configuration values by key. An empty string means the
// source has no answer and the next one is consulted.
type Source interface {
	Lookup(key string) string
}

// Resolver walks an ordered list of sources and takes the first non-empty
// value per key.
type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

func (r *Resolver) Lookup(key string) string {
	for _, source := range r.sources {
		if value := source.Lookup(key); value != "" {
			return value
		}
	}
	return ""
}

// FlagSource reads command line flags that were explicitly set. Unchanged
// flags yield nothing, so flag defaults cannot shadow the later sources.
type FlagSource struct {
	flags *pflag.FlagSet
}

func NewFlagSource(flags *pflag.FlagSet) *FlagSource {
	return &FlagSource{flags: flags}
}

func (s *FlagSource) Lookup(key string) string {
	if s.flags == nil || !s.flags.Changed(key) {
		return ""
	}
	value, err := s.flags.GetString(key)
	if err != nil {
		return ""
	}
	return value
}

// legacyEnv maps config keys to the environment names the original shell
// deployments already export. They predate the FMG_ prefix scheme, so they
// are bound explicitly instead of derived.
var legacyEnv = map[string]string{
	KeyHost:     "FMG_IP",
	KeyUser:     "FMG_USER",
	KeyPassword: "FMG_PASS",
	KeyADOM:     "FMG_ADOM",
	KeyPlatform: "FMG_PLATFORM",
	KeyScript:   "FMG_SCRIPT",
}

// EnvSource reads environment variables and the optional config file
// through a shared viper instance. Environment wins over the file.
type EnvSource struct {
	v *viper.Viper
}

func NewEnvSource(configFile string) (*EnvSource, error) {
	v := viper.New()
	v.SetEnvPrefix("FMG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &EnvSource{v: v}, nil
}

func (s *EnvSource) Lookup(key string) string {
	return s.v.GetString(key)
}
