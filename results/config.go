package results

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Engines used to load result pages
const (
	EngineBrowser = "browser"
	EngineHTTP    = "http"
)

// Defaults match the 2025 Bihar assembly election
const (
	DefaultBaseURL = "https://results.eci.gov.in/ResultAcGenNov2025"
	DefaultRegion  = "S04"
	DefaultTotal   = 243
	DefaultOutput  = "bihar_election_results.csv"
	DefaultLogFile = "eci_scraper.log"
	DefaultDelay   = 3 * time.Second
	DefaultSettle  = 3 * time.Second
	DefaultTimeout = 30 * time.Second

	// UserAgent sent by both engines
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config for a scrape
type Config struct {
	Region       string        `toml:"region"`        // state code, selects the remote dataset
	Total        int           `toml:"total"`         // upper bound of constituency numbers
	StartFrom    int           `toml:"start_from"`    // first constituency number to consider
	Output       string        `toml:"output"`        // csv output table
	Delay        time.Duration `toml:"delay"`         // minimum time between two fetches
	BaseURL      string        `toml:"base_url"`      // results site
	Engine       string        `toml:"engine"`        // browser or http
	ChromePath   string        `toml:"chrome_path"`   // empty searches the usual locations
	ChromeRemote string        `toml:"chrome_remote"` // host:port of an already running chrome
	Settle       time.Duration `toml:"settle"`        // time given to page javascript after load
	Timeout      time.Duration `toml:"timeout"`       // per page
	CacheDir     string        `toml:"cache_dir"`     // page cache, empty disables it
	Refresh      bool          `toml:"refresh"`       // ignore cached pages on read
	SplitDir     string        `toml:"split_dir"`     // per constituency csv files, empty disables them
	LogFile      string        `toml:"log_file"`
	Debug        bool          `toml:"debug"`
}

// DefaultConfig returns a config with every default filled in
func DefaultConfig() *Config {
	return &Config{
		Region:    DefaultRegion,
		Total:     DefaultTotal,
		StartFrom: 1,
		Output:    DefaultOutput,
		Delay:     DefaultDelay,
		BaseURL:   DefaultBaseURL,
		Engine:    EngineBrowser,
		Settle:    DefaultSettle,
		Timeout:   DefaultTimeout,
		LogFile:   DefaultLogFile,
	}
}

// Validate the config
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Region) == "" {
		return errors.New("region is required")
	}
	if c.Total < 1 {
		return errors.Errorf("total must be positive, got %d", c.Total)
	}
	if c.StartFrom < 1 || c.StartFrom > c.Total {
		return errors.Errorf("start_from %d must be between 1 and %d", c.StartFrom, c.Total)
	}
	if c.Output == "" {
		return errors.New("output is required")
	}
	if c.Delay < 0 {
		return errors.New("delay must not be negative")
	}
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	switch c.Engine {
	case EngineBrowser, EngineHTTP:
	default:
		return errors.Errorf("unknown engine %q", c.Engine)
	}
	return nil
}

// InRange returns true if id is a valid constituency number
func (c *Config) InRange(id int) bool {
	return id >= 1 && id <= c.Total
}

// URL of the result page for constituency id
func (c *Config) URL(id int) string {
	return fmt.Sprintf("%s/Constituencywise%s%d.htm", strings.TrimRight(c.BaseURL, "/"), c.Region, id)
}
