package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/technicallyty/poolstat/poller"
)

type PresenterType string

const (
	PresenterLive  PresenterType = "live"
	PresenterPlain PresenterType = "plain"
)

type Config struct {
	URL         string        `toml:"url"`
	Requests    int           `toml:"requests"`
	Unbounded   bool          `toml:"unbounded"`
	Presenter   PresenterType `toml:"presenter"`
	Timeout     time.Duration `toml:"timeout"`
	Interval    time.Duration `toml:"interval"`
	MaxFailures int           `toml:"max_failures"`
	MetricsAddr string        `toml:"metrics_addr"`
	LogLevel    string        `toml:"log_level"`
}

var (
	defaultConfig = Config{
		Requests:  poller.DefaultRequests,
		Presenter: PresenterLive,
		Timeout:   poller.DefaultTimeout,
		Interval:  poller.DefaultInterval,
		LogLevel:  "info",
	}
)

// ReadConfig reads a TOML file on top of the defaults.
func ReadConfig(fileName string) (Config, error) {
	bz, err := os.ReadFile(fileName)
	if err != nil {
		return Config{}, err
	}
	config := defaultConfig
	err = toml.Unmarshal(bz, &config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

// loadConfig merges the config file, if any, with the flags the user set
// explicitly. Flags win.
func loadConfig(fileName string, flags Config, changed func(name string) bool) (Config, error) {
	config := defaultConfig
	if fileName != "" {
		var err error
		config, err = ReadConfig(fileName)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
	}

	overrides := map[string]func(){
		"url":          func() { config.URL = flags.URL },
		"requests":     func() { config.Requests = flags.Requests },
		"unbounded":    func() { config.Unbounded = flags.Unbounded },
		"presenter":    func() { config.Presenter = flags.Presenter },
		"timeout":      func() { config.Timeout = flags.Timeout },
		"interval":     func() { config.Interval = flags.Interval },
		"max-failures": func() { config.MaxFailures = flags.MaxFailures },
		"metrics-addr": func() { config.MetricsAddr = flags.MetricsAddr },
		"log-level":    func() { config.LogLevel = flags.LogLevel },
	}
	for name, apply := range overrides {
		if changed(name) {
			apply()
		}
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.URL == "" {
		errs = append(errs, errors.New("url is required"))
	}
	if !c.Unbounded && c.Requests < 1 {
		errs = append(errs, fmt.Errorf("requests must be at least 1, got %d", c.Requests))
	}
	if c.Presenter != PresenterLive && c.Presenter != PresenterPlain {
		errs = append(errs, fmt.Errorf("unknown presenter %q, valid values are (%s, %s)", c.Presenter, PresenterLive, PresenterPlain))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.Interval < 0 {
		errs = append(errs, fmt.Errorf("interval must not be negative, got %s", c.Interval))
	}
	if c.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("max failures must not be negative, got %d", c.MaxFailures))
	}
	return errors.Join(errs...)
}

func (c Config) pollerConfig() poller.Config {
	return poller.Config{
		Requests:               c.Requests,
		Unbounded:              c.Unbounded,
		Timeout:                c.Timeout,
		Interval:               c.Interval,
		MaxConsecutiveFailures: c.MaxFailures,
	}
}
