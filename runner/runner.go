package runner

import (
	"context"
	"flag"
	"fmt"

	env "github.com/caarlos0/env/v11"
)

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type envConfig struct {
	Port       int    `env:"PORT" envDefault:"3000"`
	DataFolder string `env:"DATA_FOLDER" envDefault:"data"`
	Dsn        string `env:"DATABASE_URL"`
	Debug      bool   `env:"DEBUG"`
}

type Config struct {
	Addr       string
	DataFolder string
	Dsn        string
	Debug      bool
}

// ParseConfig reads the environment first, then lets flags override.
// When Dsn is empty the service runs on the embedded sqlite store under
// DataFolder; otherwise it connects to postgres.
func ParseConfig() *Config {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	cfg := Config{
		Addr:       fmt.Sprintf(":%d", ec.Port),
		DataFolder: ec.DataFolder,
		Dsn:        ec.Dsn,
		Debug:      ec.Debug,
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "address to listen on [default: :$PORT or :3000]")
	flag.StringVar(&cfg.DataFolder, "data-folder", cfg.DataFolder, "folder for the embedded database file")
	flag.StringVar(&cfg.Dsn, "dsn", cfg.Dsn, "postgres connection string [embedded sqlite store when empty]")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	flag.Parse()

	return &cfg
}
