package config

import (
	"errors"
	"fmt"
	"os"

	"useragenter/realua/realua/agents"

	"github.com/kiber-io/properties"
)

type Config struct {
	DesktopPath string `properties:"Desktop.Path,default="`
	MobilePath  string `properties:"Mobile.Path,default="`
	ModeName    string `properties:"Mode,default=desktop"`
	Browser     string `properties:"Browser,default="`
	Seed        int64  `properties:"Seed,default=0"`
	Verbosity   int    `properties:"Verbosity,default=1"`
	Workers     int    `properties:"Workers,default=4"`
}

// Load reads a .properties file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config %s not found", path)
			}
			return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return parse(data, path)
}

func parse(data []byte, path string) (Config, error) {
	var cfg Config
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return cfg, fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := props.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if _, err := agents.ParseMode(cfg.ModeName); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Mode is the parsed ModeName. Load has already rejected invalid values.
func (c Config) Mode() agents.Mode {
	mode, _ := agents.ParseMode(c.ModeName)
	return mode
}

func (c Config) StoreOptions() []agents.Option {
	opts := []agents.Option{
		agents.WithSources(c.DesktopPath, c.MobilePath),
	}
	if c.Seed != 0 {
		opts = append(opts, agents.WithRand(agents.NewSeededRand(uint64(c.Seed))))
	}
	return opts
}
