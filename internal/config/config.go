package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr           string        `env:"ADDR" envDefault:":3000"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
	MatchInterval  time.Duration `env:"MATCH_INTERVAL" envDefault:"1s"`
	LogLevel       log.Level     `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads DUCKCHESS_* environment variables, falling back to the
// development defaults.
func Load() (Config, error) {
	return load(nil)
}

// load parses environ instead of the process environment when it is non-nil.
func load(environ map[string]string) (Config, error) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      "DUCKCHESS_",
		Environment: environ,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(log.Level(0)): func(v string) (interface{}, error) {
				return parseLevel(v)
			},
		},
	})
	if err != nil {
		return Config{}, err
	}

	origins := cfg.AllowedOrigins[:0]
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.AllowedOrigins = origins
	if cfg.MatchInterval <= 0 {
		return Config{}, fmt.Errorf("DUCKCHESS_MATCH_INTERVAL must be positive, got %s", cfg.MatchInterval)
	}
	return cfg, nil
}

func parseLevel(name string) (log.Level, error) {
	switch strings.ToLower(name) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}
