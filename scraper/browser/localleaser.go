package browser

import (
	"net"
	"sync"

	"github.com/pkg/errors"
	"github.com/wirepair/gcd"
	"gitlab.com/resultscraper/results"
)

// ErrChromeNotFound when no chrome binary was configured or found
var ErrChromeNotFound = errors.New("chrome binary not found")

var startupFlags = []string{
	"--headless",
	"--no-sandbox",
	"--disable-dev-shm-usage",
	"--disable-gpu",
	"--disable-blink-features=AutomationControlled",
	"--user-agent=" + results.UserAgent,
	"--disable-background-networking",
	"--disable-client-side-phishing-detection",
	"--disable-component-update",
	"--disable-default-apps",
	"--disable-extensions",
	"--disable-sync",
	"--disable-features=TranslateUI",
	"--no-first-run",
	"--password-store=basic",
	"--window-size=1280,1024",
	"about:blank",
}

// LocalLeaser starts chrome processes on this machine
type LocalLeaser struct {
	browserLock sync.Mutex
	browsers    map[string]*gcd.Gcd
	chromePath  string
	tmp         string
}

// NewLocalLeaser for chrome at chromePath, empty searches the usual locations
func NewLocalLeaser(chromePath string) *LocalLeaser {
	return &LocalLeaser{
		browsers:   make(map[string]*gcd.Gcd),
		chromePath: chromePath,
	}
}

// Acquire starts a new headless chrome
func (s *LocalLeaser) Acquire() (string, error) {
	chrome, tmp := FindChrome()
	if s.chromePath != "" {
		chrome = s.chromePath
	}
	if chrome == "" {
		return "", ErrChromeNotFound
	}
	s.tmp = tmp

	profileDir, err := randProfile(tmp)
	if err != nil {
		return "", err
	}
	port := randPort()

	b := gcd.NewChromeDebugger()
	b.DeleteProfileOnExit()
	b.AddFlags(startupFlags)
	if err := b.StartProcess(chrome, profileDir, port); err != nil {
		return "", errors.Wrapf(err, "starting %s", chrome)
	}

	addr := net.JoinHostPort("localhost", port)
	s.browserLock.Lock()
	s.browsers[addr] = b
	s.browserLock.Unlock()
	return addr, nil
}

// Return (and kill) the browser
func (s *LocalLeaser) Return(addr string) error {
	s.browserLock.Lock()
	defer s.browserLock.Unlock()

	b, ok := s.browsers[addr]
	if !ok {
		return errors.New("browser not found")
	}
	delete(s.browsers, addr)
	return b.ExitProcess()
}

// Cleanup removes the temporary profiles
func (s *LocalLeaser) Cleanup() error {
	return RemoveTmpContents(s.tmp)
}
