package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/finance-ingest/internal/logger"
	"github.com/ndewijer/finance-ingest/internal/metrics"
)

// Config configures an Orchestrator.
type Config struct {
	Dirs         Dirs
	PollInterval time.Duration
	Workers      int
}

// Report describes how one claimed file ended.
type Report struct {
	Result
	FileName      string
	CorrelationID string
	Destination   string
	Confirmation  string
}

// Orchestrator watches the input directory and drives every file found there
// through the pipeline to exactly one terminal directory.
type Orchestrator struct {
	router   *Router
	pipeline *Pipeline
	sealer   *Sealer
	sink     metrics.Sink
	log      zerolog.Logger
	interval time.Duration
	workers  int
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates an Orchestrator. sealer may be nil, in which case confirmations
// carry no token. A nil sink discards file counters.
func New(cfg Config, pipeline *Pipeline, sealer *Sealer, sink metrics.Sink, log zerolog.Logger) *Orchestrator {
	if sink == nil {
		sink = metrics.Nop{}
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Orchestrator{
		router:   NewRouter(cfg.Dirs),
		pipeline: pipeline,
		sealer:   sealer,
		sink:     sink,
		log:      log,
		interval: interval,
		workers:  workers,
		now:      time.Now,
	}
}

// Router returns the router used for terminal moves.
func (o *Orchestrator) Router() *Router {
	return o.router
}

// Prepare creates the directory layout and restores claims left behind by an
// interrupted run. It is called once before polling starts.
func (o *Orchestrator) Prepare() error {
	if err := o.router.EnsureDirectories(); err != nil {
		return err
	}
	restored, err := RecoverClaims(o.router.Dirs().Input)
	if err != nil {
		return err
	}
	if restored > 0 {
		o.log.Warn().Int("files", restored).Msg("restored interrupted claims")
	}
	return nil
}

// IngestFile claims name in the input directory, processes it and routes it.
// Returns ErrAlreadyClaimed when another worker got there first. Once the file
// is claimed, cancellation of ctx no longer interrupts it. The only errors
// returned after a claim are file-system failures reading or routing the file.
func (o *Orchestrator) IngestFile(ctx context.Context, name string) (Report, error) {
	claim, err := claimFile(o.router.Dirs().Input, name)
	if err != nil {
		return Report{}, err
	}

	log := o.log.With().
		Str("file", claim.Name).
		Str("correlation_id", claim.CorrelationID).
		Logger()
	ctx = logger.WithContext(context.WithoutCancel(ctx), log)

	report := Report{FileName: claim.Name, CorrelationID: claim.CorrelationID}

	var data []byte
	if IsJSONFileName(claim.Name) {
		data, err = os.ReadFile(claim.Path)
		if err != nil {
			return report, fmt.Errorf("failed to read %s: %w", claim.Name, err)
		}
	}

	report.Result = o.pipeline.Process(ctx, claim.Name, data)

	var conf *Confirmation
	if report.Outcome == OutcomeSuccess {
		conf = newConfirmation(claim, data, report.Result, o.now())
		if o.sealer != nil {
			if err := o.sealer.Seal(conf); err != nil {
				return report, err
			}
		}
	}

	report.Destination, report.Confirmation, err = o.router.Route(claim, report.Outcome, conf)
	if err != nil {
		log.Error().Err(err).Str("outcome", report.Outcome.String()).Msg("failed to route file")
		return report, err
	}

	o.sink.Increment(ctx, metrics.FileProcessed, metrics.T(metrics.TagOutcome, report.Outcome.String()))

	event := log.Info()
	if report.Err != nil {
		event = log.Warn().Err(report.Err)
	}
	event.
		Str("outcome", report.Outcome.String()).
		Int("records", report.Records).
		Int("inserted", report.Inserted).
		Int("duplicates", report.Duplicates).
		Str("destination", report.Destination).
		Msg("file routed")

	return report, nil
}

// pending lists the unclaimed regular files in the input directory by name.
func (o *Orchestrator) pending() ([]string, error) {
	entries, err := os.ReadDir(o.router.Dirs().Input)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || isClaim(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// PollOnce processes every file currently in the input directory using up to
// the configured number of workers. It stops claiming new files when ctx is
// cancelled or a routing failure occurs, and returns the number of files routed.
func (o *Orchestrator) PollOnce(ctx context.Context) (int, error) {
	names, err := o.pending()
	if err != nil {
		return 0, err
	}

	var routed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			_, err := o.IngestFile(gctx, name)
			if errors.Is(err, ErrAlreadyClaimed) {
				return nil
			}
			if err != nil {
				return err
			}
			routed.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(routed.Load()), err
}

// Start polls the input directory on the configured interval until Stop is
// called or ctx is cancelled. A tick that is still running when the next one
// is due is skipped.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cron != nil {
		return errors.New("orchestrator already started")
	}

	cl := cronLogger{log: o.log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	_, err := c.AddFunc("@every "+o.interval.String(), func() {
		if ctx.Err() != nil {
			return
		}
		routed, err := o.PollOnce(ctx)
		if err != nil {
			o.log.Error().Err(err).Int("routed", routed).Msg("poll failed")
			return
		}
		if routed > 0 {
			o.log.Debug().Int("routed", routed).Msg("poll finished")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule poller: %w", err)
	}

	c.Start()
	o.cron = c
	o.log.Info().
		Str("input", o.router.Dirs().Input).
		Dur("interval", o.interval).
		Int("workers", o.workers).
		Msg("watching input directory")
	return nil
}

// Stop stops scheduling and waits for a running poll to finish its files.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	c := o.cron
	o.cron = nil
	o.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
