// Package config loads this module's runtime configuration from the
// environment, grounded on the teacher's src/app/env.go
// (envconfig.MustProcess over a struct, godotenv.Load for local .env
// files) with PAGECACHE replacing the teacher's GRAPHDB prefix and
// defaults supplied via envconfig's "default" tag rather than the
// teacher's post-hoc zero-value checks, since none of this module's
// fields are required.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// Config is this module's full set of environment-derived settings.
type Config struct {
	Environment string `split_words:"true" default:"dev"`

	PoolSize       int `split_words:"true" default:"64"`
	BucketCapacity int `split_words:"true" default:"4"`

	DataDir  string `split_words:"true" default:"./data"`
	DataFile string `split_words:"true" default:"pagecache.db"`
}

// Load reads a .env file if present (a missing file is not an error,
// matching godotenv's own os.IsNotExist handling below) and then
// overlays process environment variables prefixed PAGECACHE_, applying
// defaults for anything unset. path, if non-empty, names a specific .env
// file to load instead of the default "./.env" (wired to the CLI's
// --config flag).
func Load(path ...string) (Config, error) {
	var loadErr error
	if len(path) > 0 && path[0] != "" {
		loadErr = godotenv.Load(path[0])
	} else {
		loadErr = godotenv.Load()
	}
	if loadErr != nil && !os.IsNotExist(loadErr) {
		return Config{}, loadErr
	}

	var cfg Config
	if err := envconfig.Process("PAGECACHE", &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Environment != EnvDev && cfg.Environment != EnvProd {
		cfg.Environment = EnvDev
	}

	return cfg, nil
}
