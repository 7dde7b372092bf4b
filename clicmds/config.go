package clicmds

import (
	"bytes"
	"io/ioutil"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gitlab.com/resultscraper/results"
)

// ConfigFlags shared by the commands that load result pages
func ConfigFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "toml config file, flags given on the command line override it",
		},
		&cli.StringFlag{
			Name:  "state",
			Usage: "state code of the results to scrape",
			Value: results.DefaultRegion,
		},
		&cli.IntFlag{
			Name:  "total",
			Usage: "number of constituencies in the state",
			Value: results.DefaultTotal,
		},
		&cli.StringFlag{
			Name:  "output",
			Usage: "csv file the results are appended to",
			Value: results.DefaultOutput,
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "minimum time between two page loads",
			Value: results.DefaultDelay,
		},
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "results site",
			Value: results.DefaultBaseURL,
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "load pages with a headless 'browser' or plain 'http'",
			Value: results.EngineBrowser,
		},
		&cli.StringFlag{
			Name:  "chrome-path",
			Usage: "chrome binary, searched for if empty",
		},
		&cli.StringFlag{
			Name:  "chrome-remote",
			Usage: "host:port of a chrome started with --remote-debugging-port",
		},
		&cli.DurationFlag{
			Name:  "settle",
			Usage: "time given to page scripts after the load event",
			Value: results.DefaultSettle,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "page load timeout",
			Value: results.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:  "cache-dir",
			Usage: "keep loaded pages in this directory",
		},
		&cli.BoolFlag{
			Name:  "refresh",
			Usage: "ignore pages in the cache and load them again",
		},
		&cli.StringFlag{
			Name:  "split-dir",
			Usage: "also write one csv file per constituency into this directory",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "log file, appended to",
			Value: results.DefaultLogFile,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "debug logging",
		},
	}
}

// LoadConfig from defaults, then the config file, then flags that were set
func LoadConfig(ctx *cli.Context) (*results.Config, error) {
	cfg := results.DefaultConfig()

	if path := ctx.String("config"); path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
	}

	if ctx.IsSet("state") {
		cfg.Region = ctx.String("state")
	}
	if ctx.IsSet("total") {
		cfg.Total = ctx.Int("total")
	}
	if ctx.IsSet("start-from") {
		cfg.StartFrom = ctx.Int("start-from")
	}
	if ctx.IsSet("output") {
		cfg.Output = ctx.String("output")
	}
	if ctx.IsSet("delay") {
		cfg.Delay = ctx.Duration("delay")
	}
	if ctx.IsSet("base-url") {
		cfg.BaseURL = ctx.String("base-url")
	}
	if ctx.IsSet("engine") {
		cfg.Engine = ctx.String("engine")
	}
	if ctx.IsSet("chrome-path") {
		cfg.ChromePath = ctx.String("chrome-path")
	}
	if ctx.IsSet("chrome-remote") {
		cfg.ChromeRemote = ctx.String("chrome-remote")
	}
	if ctx.IsSet("settle") {
		cfg.Settle = ctx.Duration("settle")
	}
	if ctx.IsSet("timeout") {
		cfg.Timeout = ctx.Duration("timeout")
	}
	if ctx.IsSet("cache-dir") {
		cfg.CacheDir = ctx.String("cache-dir")
	}
	if ctx.IsSet("refresh") {
		cfg.Refresh = ctx.Bool("refresh")
	}
	if ctx.IsSet("split-dir") {
		cfg.SplitDir = ctx.String("split-dir")
	}
	if ctx.IsSet("log-file") {
		cfg.LogFile = ctx.String("log-file")
	}
	if ctx.IsSet("debug") {
		cfg.Debug = ctx.Bool("debug")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
