package httpsource

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/results"
	"gitlab.com/resultscraper/scraper"
	"golang.org/x/time/rate"
)

// Source loads result pages with plain http requests. It only works while the
// results site serves complete tables without running javascript.
type Source struct {
	cfg     *results.Config
	client  *resty.Client
	limiter *rate.Limiter
	retries int
}

// New http source for cfg
func New(cfg *results.Config) *Source {
	return &Source{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		retries: 2,
	}
}

// SetRetries on 5xx responses and transport errors
func (s *Source) SetRetries(retries int) *Source {
	s.retries = retries
	return s
}

// Init the http client
func (s *Source) Init(ctx context.Context) error {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", results.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	client.SetTimeout(s.cfg.Timeout)
	client.SetRetryCount(s.retries)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err != nil || res.StatusCode() >= http.StatusInternalServerError
	})

	// retries go through here as well, the site never sees more than a
	// couple of requests per second from us
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return s.limiter.Wait(req.Context())
	})

	s.client = client
	log.Ctx(ctx).Debug().Str("base_url", s.cfg.BaseURL).Msg("http source ready")
	return nil
}

// Load url
func (s *Source) Load(ctx context.Context, url string) (*scraper.LoadedPage, error) {
	if s.client == nil {
		return nil, errors.New("http source not initialized")
	}

	res, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", url)
	}

	switch code := res.StatusCode(); {
	case code == http.StatusForbidden:
		return nil, results.NewFetchError(0, results.StageBlocked, errors.Wrapf(results.ErrBlocked, "%s returned %d", url, code))
	case code < 200 || code > 299:
		return nil, results.NewFetchError(0, results.StageLoad, errors.Errorf("%s returned %d", url, code))
	}

	landed := url
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		landed = res.RawResponse.Request.URL.String()
	}
	return &scraper.LoadedPage{URL: landed, HTML: res.String()}, nil
}

// Close is a no-op, idle connections are dropped with the client
func (s *Source) Close() error {
	if s.client != nil {
		s.client.GetClient().CloseIdleConnections()
	}
	return nil
}
