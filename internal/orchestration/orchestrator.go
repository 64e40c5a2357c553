package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/cpuutil/internal/config"
	apperrors "github.com/agbru/cpuutil/internal/errors"
	"github.com/agbru/cpuutil/internal/logging"
	"github.com/agbru/cpuutil/internal/sampler"
	"github.com/agbru/cpuutil/internal/sysmon"
)

const tracerName = "github.com/agbru/cpuutil/internal/orchestration"

// Options configures a sampling run.
type Options struct {
	// Interval is the time between two counter readings.
	Interval time.Duration
	// Count stops the run after this many presented samples (0 = unbounded).
	Count int
	// SkipDegenerate drops zero-length intervals instead of presenting them.
	SkipDegenerate bool
	// MaxInvalidStreak re-baselines after this many consecutive invalid ticks.
	MaxInvalidStreak int
	// MaxSourceFailures aborts after this many consecutive source failures
	// (0 = never abort).
	MaxSourceFailures int

	// Out receives presenter output.
	Out io.Writer
	// Logger receives per-tick diagnostics.
	Logger logging.Logger
	// Baseline is shown while the first interval is pending.
	Baseline BaselineIndicator
	// Now returns the current time; tests may stub it.
	Now func() time.Time
}

// OptionsFromConfig derives loop options from the application configuration.
func OptionsFromConfig(cfg config.AppConfig, out io.Writer, logger logging.Logger) Options {
	return Options{
		Interval:          cfg.Interval,
		Count:             cfg.Count,
		SkipDegenerate:    cfg.SkipDegenerate,
		MaxInvalidStreak:  cfg.MaxInvalidStreak,
		MaxSourceFailures: cfg.MaxSourceFailures,
		Out:               out,
		Logger:            logger,
	}
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = config.DefaultInterval
	}
	if o.MaxInvalidStreak < 1 {
		o.MaxInvalidStreak = config.DefaultMaxInvalidStreak
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
	if o.Logger == nil {
		o.Logger = logging.Nop{}
	}
	if o.Baseline == nil {
		o.Baseline = nullIndicator{}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// runner holds the mutable state of one Run call.
type runner struct {
	opts      Options
	source    sysmon.CounterSource
	sampler   *sampler.Sampler
	presenter SamplePresenter
	recorder  MetricsRecorder

	sum             Summary
	invalidStreak   int
	failureStreak   int
	indicatorActive bool
}

// Run samples source every opts.Interval until ctx is done or opts.Count
// samples have been presented.
//
// The first reading establishes the baseline. On each following tick the
// reading is fed to s and the outcome handled as follows:
//   - a valid result is presented and recorded;
//   - an invalid sample (counter rollback) is logged and skipped, and after
//     MaxInvalidStreak consecutive ones the baseline is re-established from
//     the current reading;
//   - a degenerate interval is recorded and presented as a zero result unless
//     SkipDegenerate is set;
//   - a source failure is logged, and after MaxSourceFailures consecutive
//     ones the run aborts with that error.
//
// Parameters:
//   - ctx: Stops the loop when done. Each tick runs in its own trace span.
//   - opts: Loop options; zero values fall back to the config defaults.
//   - source: The counter source.
//   - s: The sampler; Run owns it for the duration of the call.
//   - presenter: Receives header, samples and the final summary.
//   - recorder: Receives per-tick outcomes.
//
// Returns:
//   - Summary: What happened during the run.
//   - error: nil when opts.Count was reached, ctx.Err() when the context
//     ended the run, or the source error that exhausted MaxSourceFailures.
func Run(ctx context.Context, opts Options, source sysmon.CounterSource, s *sampler.Sampler, presenter SamplePresenter, recorder MetricsRecorder) (Summary, error) {
	if presenter == nil {
		presenter = NullPresenter{}
	}
	if recorder == nil {
		recorder = NullRecorder{}
	}
	r := &runner{
		opts:      opts.withDefaults(),
		source:    source,
		sampler:   s,
		presenter: presenter,
		recorder:  recorder,
	}
	start := r.opts.Now()
	err := r.loop(ctx)
	r.stopIndicator()
	r.sum.Elapsed = r.opts.Now().Sub(start)
	r.presenter.PresentSummary(r.opts.Out, r.sum)
	return r.sum, err
}

func (r *runner) loop(ctx context.Context) error {
	r.presenter.PresentHeader(r.opts.Out)
	r.opts.Baseline.Start()
	r.indicatorActive = true

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	if err := r.establishBaseline(ctx, ticker.C); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := r.tick(ctx); err != nil {
			return err
		}
		if r.opts.Count > 0 && r.sum.Samples >= r.opts.Count {
			return nil
		}
	}
}

// establishBaseline reads the first counters, retrying on every tick while
// the source fails and the failure budget allows.
func (r *runner) establishBaseline(ctx context.Context, tick <-chan time.Time) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		first, err := r.source.ReadCounters(ctx)
		if err == nil {
			r.failureStreak = 0
			r.sampler.Reset()
			r.sampler.Initialize(first)
			r.opts.Logger.Debug("baseline established",
				logging.String("source", r.source.Name()),
				logging.Uint64("idle", first.Idle),
				logging.Uint64("kernel", first.Kernel),
				logging.Uint64("user", first.User))
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if abort := r.sourceFailed(err); abort != nil {
			return abort
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}

// tick processes one interval inside a trace span.
func (r *runner) tick(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cpuutil.sample")
	defer span.End()

	r.sum.Ticks++
	now := r.opts.Now()
	current, err := r.source.ReadCounters(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "counter source unavailable")
		return r.sourceFailed(err)
	}
	r.failureStreak = 0

	res, err := r.sampler.Sample(current)
	switch {
	case errors.Is(err, apperrors.ErrInvalidSample):
		span.RecordError(err)
		r.invalidSample(current, err)
		return nil
	case errors.Is(err, apperrors.ErrDegenerateInterval):
		r.invalidStreak = 0
		r.sum.Degenerate++
		r.recorder.ObserveDegenerate()
		span.SetAttributes(attribute.Bool("cpuutil.degenerate", true))
		r.opts.Logger.Debug("degenerate interval", logging.Err(err))
		if r.opts.SkipDegenerate {
			return nil
		}
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	default:
		r.invalidStreak = 0
		r.recorder.ObserveSample(res)
		r.accumulate(res)
		span.SetAttributes(
			attribute.Float64("cpuutil.user_percent", res.UserPercent),
			attribute.Float64("cpuutil.kernel_percent", res.KernelPercent),
			attribute.Float64("cpuutil.idle_percent", res.IdlePercent),
			attribute.Float64("cpuutil.used_percent", res.TotalUsedPercent),
		)
	}

	r.stopIndicator()
	r.sum.Samples++
	r.presenter.PresentSample(r.opts.Out, Sample{Seq: r.sum.Samples, Time: now, Result: res})
	return nil
}

func (r *runner) invalidSample(current sampler.CounterSample, err error) {
	r.sum.Invalid++
	r.invalidStreak++
	r.recorder.ObserveInvalid()
	r.opts.Logger.Warn("skipping invalid sample",
		logging.Err(err),
		logging.Int("streak", r.invalidStreak))

	if r.invalidStreak >= r.opts.MaxInvalidStreak {
		r.sampler.Reset()
		r.sampler.Initialize(current)
		r.invalidStreak = 0
		r.sum.Rebaselines++
		r.opts.Logger.Warn("re-established baseline after consecutive invalid samples",
			logging.Int("limit", r.opts.MaxInvalidStreak))
	}
}

// sourceFailed records a failed read and returns a non-nil error once the
// consecutive failure budget is exhausted.
func (r *runner) sourceFailed(err error) error {
	r.sum.SourceFailures++
	r.failureStreak++
	r.recorder.ObserveSourceFailure()
	r.opts.Logger.Error("reading CPU counters failed", err,
		logging.String("source", r.source.Name()),
		logging.Int("consecutive", r.failureStreak))

	if limit := r.opts.MaxSourceFailures; limit > 0 && r.failureStreak >= limit {
		return apperrors.WrapError(err, "giving up after %d consecutive failures", r.failureStreak)
	}
	return nil
}

// accumulate folds res into the running means.
func (r *runner) accumulate(res sampler.UtilizationResult) {
	r.sum.Measured++
	n := float64(r.sum.Measured)
	r.sum.MeanUser += (res.UserPercent - r.sum.MeanUser) / n
	r.sum.MeanKernel += (res.KernelPercent - r.sum.MeanKernel) / n
	r.sum.MeanIdle += (res.IdlePercent - r.sum.MeanIdle) / n
	r.sum.MeanUsed += (res.TotalUsedPercent - r.sum.MeanUsed) / n
}

func (r *runner) stopIndicator() {
	if r.indicatorActive {
		r.opts.Baseline.Stop()
		r.indicatorActive = false
	}
}

// RunWithServer runs the sampling loop and svc under one errgroup. svc is
// stopped when the loop returns; a failing svc cancels the loop.
//
// Returns:
//   - Summary: The loop's summary.
//   - error: The first error returned by either side.
func RunWithServer(ctx context.Context, opts Options, source sysmon.CounterSource, s *sampler.Sampler, presenter SamplePresenter, recorder MetricsRecorder, svc Service) (Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	svcCtx, stopSvc := context.WithCancel(gctx)
	defer stopSvc()

	var sum Summary
	g.Go(func() error {
		if err := svc.Run(svcCtx); err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer stopSvc()
		var err error
		sum, err = Run(gctx, opts, source, s, presenter, recorder)
		return err
	})

	err := g.Wait()
	return sum, err
}
