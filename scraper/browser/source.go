package browser

import (
	"context"
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/scraper"
)

// Source loads result pages in a single chrome tab. The tab is reused for
// every page and replaced after it crashed.
type Source struct {
	cfg      *results.Config
	leaser   LeaserService
	addr     string
	debugger *gcd.Gcd
	tabLock  sync.Mutex
	target   *gcd.ChromeTarget
	tab      *Tab
}

// NewSource for cfg, using a remote chrome if one is configured
func NewSource(cfg *results.Config) *Source {
	var leaser LeaserService = NewLocalLeaser(cfg.ChromePath)
	if cfg.ChromeRemote != "" {
		leaser = NewRemoteLeaser(cfg.ChromeRemote)
	}
	return NewSourceWithLeaser(cfg, leaser)
}

// NewSourceWithLeaser getting its browser from leaser
func NewSourceWithLeaser(cfg *results.Config, leaser LeaserService) *Source {
	return &Source{cfg: cfg, leaser: leaser}
}

// Init acquires a browser and connects to it
func (s *Source) Init(ctx context.Context) error {
	addr, err := s.leaser.Acquire()
	if err != nil {
		return err
	}
	s.addr = addr

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	s.debugger = gcd.NewChromeDebugger()
	if err := s.debugger.ConnectToInstance(host, port); err != nil {
		return errors.Wrapf(err, "failed to connect to chrome at %s", addr)
	}
	log.Ctx(ctx).Info().Str("chrome", addr).Msg("connected to browser")
	return s.openTab(ctx)
}

func (s *Source) openTab(ctx context.Context) error {
	target, err := s.debugger.NewTab()
	if err != nil {
		return errors.Wrap(err, "failed to open tab")
	}
	s.target = target
	s.tab = NewTab(ctx, target, s.cfg.Settle)
	return nil
}

func (s *Source) closeTab() {
	if s.tab == nil {
		return
	}
	s.tab.Close()
	if err := s.debugger.CloseTab(s.target); err != nil {
		log.Debug().Err(err).Msg("failed to close tab")
	}
	s.tab = nil
	s.target = nil
}

// Load url and return the rendered page source
func (s *Source) Load(ctx context.Context, url string) (*scraper.LoadedPage, error) {
	s.tabLock.Lock()
	defer s.tabLock.Unlock()

	if s.debugger == nil {
		return nil, errors.New("browser not initialized")
	}
	if s.tab == nil || s.tab.Crashed() {
		s.closeTab()
		log.Ctx(ctx).Info().Msg("opening new tab")
		if err := s.openTab(ctx); err != nil {
			return nil, err
		}
	}

	if err := s.tab.Navigate(ctx, url); err != nil {
		if errors.Is(err, ErrTabCrashed) {
			s.closeTab()
		}
		return nil, errors.Wrapf(err, "navigating to %s", url)
	}

	html, err := s.tab.SerializeDOM()
	if err != nil {
		return nil, errors.Wrap(err, "reading page source")
	}
	landed := s.tab.GetURL()
	if landed == "" {
		landed = url
	}
	return &scraper.LoadedPage{URL: landed, HTML: html}, nil
}

// Close the tab and return the browser
func (s *Source) Close() error {
	s.tabLock.Lock()
	defer s.tabLock.Unlock()

	if s.debugger != nil {
		s.closeTab()
	}
	if s.addr != "" {
		if err := s.leaser.Return(s.addr); err != nil {
			log.Warn().Err(err).Msg("failed to return browser")
		}
		s.addr = ""
	}
	return s.leaser.Cleanup()
}
