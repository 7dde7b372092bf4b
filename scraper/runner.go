package scraper

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/resultscraper/results"
)

// OutputStore is where completed constituencies are appended
type OutputStore interface {
	Init() error
	Completed() (map[int]struct{}, error)
	Append(rows []results.Row) error
}

// Exporter writes a secondary copy of a persisted constituency
type Exporter interface {
	Write(id int, rows []results.Row) (string, error)
}

// Runner is the resumable scrape loop. It walks constituencies in order,
// skips those already in the output store, fetches the rest and appends each
// successful constituency as one batch.
type Runner struct {
	cfg      *results.Config
	fetcher  results.Fetcher
	output   OutputStore
	exporter Exporter
	logger   zerolog.Logger
	runID    string
	pacer    *Pacer
}

// NewRunner for the configured range
func NewRunner(cfg *results.Config, fetcher results.Fetcher, output OutputStore) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetcher,
		output:  output,
		logger:  log.Logger,
		pacer:   NewPacer(cfg.Delay),
	}
}

// Pacer keeps at least delay between the end of one fetch and the start of
// the next
type Pacer struct {
	delay time.Duration
	last  time.Time
}

// NewPacer with the given delay, zero or less never waits
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait until delay has passed since the last call to Done
func (p *Pacer) Wait(ctx context.Context) error {
	if p.delay <= 0 || p.last.IsZero() {
		return nil
	}
	wait := time.Until(p.last.Add(p.delay))
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Done marks the end of a fetch
func (p *Pacer) Done() {
	p.last = time.Now()
}

// SetExporter enables per constituency exports
func (r *Runner) SetExporter(exporter Exporter) *Runner {
	r.exporter = exporter
	return r
}

// SetLogger overrides the global logger
func (r *Runner) SetLogger(logger zerolog.Logger) *Runner {
	r.logger = logger
	return r
}

// SetRunID tags the summary and every log entry of this run
func (r *Runner) SetRunID(runID string) *Runner {
	r.runID = runID
	r.logger = r.logger.With().Str("run_id", runID).Logger()
	return r
}

// Init the output store and the fetcher. Nothing is fetched if this fails.
func (r *Runner) Init(ctx context.Context) error {
	if err := r.cfg.Validate(); err != nil {
		return results.NewSetupError(err, "invalid config")
	}
	if err := r.output.Init(); err != nil {
		return err
	}
	if err := r.fetcher.Init(ctx); err != nil {
		if results.IsSetup(err) {
			return err
		}
		return results.NewSetupError(err, "failed to init fetcher")
	}
	return nil
}

// State reads the output store and returns what was completed before this run
func (r *Runner) State() (*results.RunState, error) {
	done, err := r.output.Completed()
	if err != nil {
		return nil, err
	}
	return results.NewRunState(done), nil
}

// Run the loop over [StartFrom, Total]. Fetch failures are recorded in the
// summary and never stop the run, only persistence failures, setup failures
// and cancellation of ctx do.
func (r *Runner) Run(ctx context.Context) (summary *results.Summary, err error) {
	summary = &results.Summary{RunID: r.runID, Started: time.Now()}
	defer func() {
		summary.Finished = time.Now()
		r.logSummary(summary, err)
	}()

	ctx = r.logger.WithContext(ctx)

	state, err := r.State()
	if err != nil {
		return summary, err
	}
	r.logger.Info().
		Int("completed", state.Len()).
		Int("start", r.cfg.StartFrom).
		Int("total", r.cfg.Total).
		Str("output", r.cfg.Output).
		Msg("starting run")

	for id := r.cfg.StartFrom; id <= r.cfg.Total; id++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			return summary, errors.Wrap(ctx.Err(), "run interrupted")
		}

		outcome, err := r.process(ctx, state, id)
		if err != nil {
			if ctx.Err() != nil {
				summary.Interrupted = true
				return summary, errors.Wrap(ctx.Err(), "run interrupted")
			}
			return summary, err
		}
		summary.Add(outcome)
	}
	return summary, nil
}

func (r *Runner) logSummary(summary *results.Summary, err error) {
	event, msg := r.logger.Info(), "run complete"
	switch {
	case summary.Interrupted:
		event, msg = r.logger.Warn(), "run interrupted"
	case err != nil:
		event, msg = r.logger.Error().Err(err), "run aborted"
	}
	event.
		Int("persisted", summary.Persisted).
		Int("empty", summary.Empty).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Ints("failed_ids", summary.FailedIDs).
		Int("rows", summary.Rows).
		Bool("interrupted", summary.Interrupted).
		Dur("elapsed", summary.Finished.Sub(summary.Started)).
		Msg(msg)
}

// process a single constituency. A returned error ends the run, fetch
// failures are part of the outcome instead.
func (r *Runner) process(ctx context.Context, state *results.RunState, id int) (results.Outcome, error) {
	logger := r.logger.With().Int("constituency", id).Logger()
	outcome := results.Outcome{ID: id, State: results.UnitPending}

	if state.Done(id) {
		outcome.State = results.UnitSkipped
		logger.Info().Msg("skipping constituency (already completed)")
		return outcome, nil
	}

	// skipped ids never wait on the pacer
	if err := r.pacer.Wait(ctx); err != nil {
		return outcome, err
	}
	outcome.State = results.UnitFetching
	rows, err := r.fetcher.Fetch(ctx, id)
	r.pacer.Done()
	if err != nil {
		if ctx.Err() != nil || results.IsSetup(err) {
			return outcome, err
		}
		return r.failed(logger, outcome, results.AsFetch(id, err)), nil
	}

	if len(rows) == 0 {
		outcome.State = results.UnitEmpty
		logger.Warn().Msg("no candidate rows found, constituency stays pending")
		return outcome, nil
	}

	if err := results.ValidateRows(id, rows); err != nil {
		return r.failed(logger, outcome, &results.FetchError{ID: id, Stage: results.StageValidate, Err: err}), nil
	}

	if err := r.output.Append(rows); err != nil {
		logger.Error().Err(err).Msg("failed to persist constituency")
		if !results.IsPersistence(err) {
			err = &results.PersistenceError{Err: err}
		}
		return outcome, err
	}
	outcome.State = results.UnitPersisted
	outcome.Rows = len(rows)
	logger.Info().
		Int("rows", len(rows)).
		Str("name", rows[0].ConstituencyName).
		Str("progress", progress(id, r.cfg.Total)).
		Msg("constituency persisted")

	if r.exporter != nil {
		path, err := r.exporter.Write(id, rows)
		if err != nil {
			// the combined table already has the rows, the export can be redone
			logger.Error().Err(err).Msg("failed to write constituency file")
		} else {
			logger.Debug().Str("file", path).Msg("wrote constituency file")
		}
	}
	return outcome, nil
}

func (r *Runner) failed(logger zerolog.Logger, outcome results.Outcome, err *results.FetchError) results.Outcome {
	outcome.State = results.UnitFailed
	outcome.Err = err
	logger.Error().Err(err.Err).Str("stage", err.Stage).Msg("failed to fetch constituency")
	return outcome
}

func progress(id, total int) string {
	return strconv.Itoa(id) + "/" + strconv.Itoa(total)
}
