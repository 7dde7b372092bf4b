package scraper

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/results"
)

// ScopeService checks that a page landed on the results site and not on a
// redirect target or a browser error page
type ScopeService struct {
	target  *url.URL
	allowed []string
}

// NewScopeService allowing the host of target
func NewScopeService(target *url.URL) *ScopeService {
	s := &ScopeService{target: target, allowed: make([]string, 0)}
	s.AddAllowed([]string{target.Hostname()})
	return s
}

// AddAllowed hosts
func (s *ScopeService) AddAllowed(hosts []string) {
	s.allowed = append(s.allowed, mapFunction(hosts, strings.ToLower)...)
}

// Check a landing url. Relative urls are resolved against the target, anything
// that is not http(s) (chrome-error://, about:blank) is excluded.
func (s *ScopeService) Check(uri string) results.Scope {
	u, err := s.target.Parse(strings.TrimSpace(uri))
	if err != nil {
		log.Warn().Err(err).Str("uri", uri).Msg("failed to parse URI returning out of scope")
		return results.OutOfScope
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return results.ExcludedFromScope
	}

	if includeFunction(s.allowed, strings.ToLower(u.Hostname())) {
		return results.InScope
	}
	return results.OutOfScope
}

func mapFunction(vs []string, f func(string) string) []string {
	vsm := make([]string, len(vs))
	for i, v := range vs {
		vsm[i] = f(v)
	}
	return vsm
}

func indexFunction(vs []string, t string) int {
	for i, v := range vs {
		if v == t {
			return i
		}
	}
	return -1
}

func includeFunction(vs []string, t string) bool {
	return indexFunction(vs, t) >= 0
}
