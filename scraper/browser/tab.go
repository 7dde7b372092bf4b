package browser

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/wirepair/gcd"
	"github.com/wirepair/gcd/gcdapi"
)

// revive:exported
var (
	ErrNavigationTimedOut = errors.New("navigation timed out")
	ErrTabCrashed         = errors.New("tab crashed")
	ErrTabClosing         = errors.New("closing")
	ErrNavigating         = errors.New("error in navigation")
)

const tableReadyScript = `document.querySelector("table") !== null`

// Tab is a chrome tab used to load result pages
type Tab struct {
	t                *gcd.ChromeTarget
	isNavigatingFlag atomic.Value  // between Page.navigate and Page.loadEventFired
	navigationCh     chan struct{} // load event fired while navigating
	crashedCh        chan string   // the chrome tab crashed with a reason
	exitCh           chan struct{}
	crashed          atomic.Value
	settle           time.Duration // time given to page scripts after the load event
	pollInterval     time.Duration // how often to look for the results table
}

// NewTab wrapping target
func NewTab(ctx context.Context, target *gcd.ChromeTarget, settle time.Duration) *Tab {
	t := &Tab{
		t:            target,
		navigationCh: make(chan struct{}, 1),
		crashedCh:    make(chan string, 1),
		exitCh:       make(chan struct{}),
		settle:       settle,
		pollInterval: 250 * time.Millisecond,
	}
	t.subscribeBrowserEvents(ctx)
	return t
}

// Close the tab's event handlers
func (t *Tab) Close() {
	close(t.exitCh)
}

// Crashed returns true once chrome reported the tab crashed or detached
func (t *Tab) Crashed() bool {
	if flag, ok := t.crashed.Load().(bool); ok {
		return flag
	}
	return false
}

func (t *Tab) setIsNavigating(set bool) {
	t.isNavigatingFlag.Store(set)
}

// IsNavigating answers if we currently navigating
func (t *Tab) IsNavigating() bool {
	if flag, ok := t.isNavigatingFlag.Load().(bool); ok {
		return flag
	}
	return false
}

// Navigate to url and wait for the load event, the settle time and the
// results table, in that order. A page that never renders a table is not an
// error here, the parser decides what it is.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	// drop a load event left over from an earlier page
	select {
	case <-t.navigationCh:
	default:
	}

	t.setIsNavigating(true)
	defer t.setIsNavigating(false)

	navParams := &gcdapi.PageNavigateParams{Url: url, TransitionType: "typed"}
	_, _, errText, err := t.t.Page.NavigateWithParams(navParams)
	if err != nil {
		return err
	}
	if errText != "" {
		return errors.Wrap(ErrNavigating, errText)
	}

	if err := t.waitLoad(ctx); err != nil {
		return err
	}
	if err := t.wait(ctx, t.settle); err != nil {
		return err
	}
	return t.waitTable(ctx)
}

func (t *Tab) waitLoad(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrNavigationTimedOut
		}
		return ctx.Err()
	case <-t.exitCh:
		return ErrTabClosing
	case reason := <-t.crashedCh:
		return errors.Wrap(ErrTabCrashed, reason)
	case <-t.navigationCh:
		return nil
	}
}

func (t *Tab) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.exitCh:
		return ErrTabClosing
	case reason := <-t.crashedCh:
		return errors.Wrap(ErrTabCrashed, reason)
	case <-timer.C:
		return nil
	}
}

func (t *Tab) waitTable(ctx context.Context) error {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if ready, err := t.tableReady(); err == nil && ready {
			return nil
		}
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				log.Ctx(ctx).Debug().Msg("no table rendered before timeout")
				return nil
			}
			return ctx.Err()
		case <-t.exitCh:
			return ErrTabClosing
		case reason := <-t.crashedCh:
			return errors.Wrap(ErrTabCrashed, reason)
		case <-ticker.C:
		}
	}
}

func (t *Tab) tableReady() (bool, error) {
	r, err := t.EvaluateScript(tableReadyScript)
	if err != nil {
		return false, err
	}
	ready, _ := r.Value.(bool)
	return ready, nil
}

// EvaluateScript in the global context.
func (t *Tab) EvaluateScript(scriptSource string) (*gcdapi.RuntimeRemoteObject, error) {
	params := &gcdapi.RuntimeEvaluateParams{
		Expression:    scriptSource,
		ObjectGroup:   "resultscraper",
		Silent:        true,
		ReturnByValue: true,
		Timeout:       1000,
	}
	r, exp, err := t.t.Runtime.EvaluateWithParams(params)
	if err != nil {
		return nil, err
	}
	if exp != nil {
		return nil, errors.Errorf("script exception: %s", exp.Text)
	}
	return r, nil
}

// GetURL by looking at the navigation history
func (t *Tab) GetURL() string {
	idx, entries, err := t.t.Page.GetNavigationHistory()
	if err != nil || len(entries) == 0 {
		return ""
	}
	if idx >= 0 && idx < len(entries) {
		return entries[idx].Url
	}
	return entries[len(entries)-1].Url
}

// SerializeDOM and return it as string
func (t *Tab) SerializeDOM() (string, error) {
	node, err := t.t.DOM.GetDocument(-1, true)
	if err != nil {
		return "", err
	}
	return t.t.DOM.GetOuterHTMLWithParams(&gcdapi.DOMGetOuterHTMLParams{
		NodeId: node.NodeId,
	})
}

func (t *Tab) crash(reason string) {
	t.crashed.Store(true)
	select {
	case t.crashedCh <- reason:
	default:
	}
}

func (t *Tab) subscribeBrowserEvents(ctx context.Context) {
	t.t.DOM.Enable()
	t.t.Inspector.Enable()
	t.t.Page.Enable()

	t.t.Subscribe("Inspector.targetCrashed", func(target *gcd.ChromeTarget, payload []byte) {
		log.Ctx(ctx).Warn().Msgf("tab crashed: %s", string(payload))
		t.crash("crashed")
	})

	t.t.Subscribe("Inspector.detached", func(target *gcd.ChromeTarget, payload []byte) {
		header := &gcdapi.InspectorDetachedEvent{}
		reason := "detached"
		if err := json.Unmarshal(payload, header); err == nil {
			reason = header.Params.Reason
		}
		t.crash(reason)
	})

	t.t.Subscribe("Page.loadEventFired", func(target *gcd.ChromeTarget, payload []byte) {
		if !t.IsNavigating() {
			return
		}
		select {
		case t.navigationCh <- struct{}{}:
		default:
		}
	})
}
