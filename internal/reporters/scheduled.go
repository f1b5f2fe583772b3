package reporters

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	log "github.com/sirupsen/logrus"
)

// ReportFunc does a single report.  now is the time of the report and
// interval is the reporting interval, which is zero if the reporter was never
// started.
type ReportFunc func(now time.Time, interval time.Duration)

// ScheduledReporter runs a ReportFunc on a fixed interval from its own
// goroutine.  Reports never overlap, whether they are triggered by the timer
// or by calling Report directly.
type ScheduledReporter struct {
	name   string
	report ReportFunc
	closer func() error
	clock  clock.Clock

	// Held while a report is running
	reportLock sync.Mutex

	lock     sync.Mutex
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
}

var _ Reporter = &ScheduledReporter{}

// Option configures a ScheduledReporter
type Option func(*ScheduledReporter)

// WithClock makes the reporter use the given clock for its schedule and the
// report time, instead of the wall clock
func WithClock(c clock.Clock) Option {
	return func(r *ScheduledReporter) {
		r.clock = c
	}
}

// WithCloser sets a function that is called once when the reporter is
// stopped, to release whatever the report function writes to
func WithCloser(closer func() error) Option {
	return func(r *ScheduledReporter) {
		r.closer = closer
	}
}

// NewScheduledReporter creates a reporter that is not yet started
func NewScheduledReporter(name string, report ReportFunc, opts ...Option) *ScheduledReporter {
	r := &ScheduledReporter{
		name:   name,
		report: report,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ScheduledReporter) logger() log.FieldLogger {
	return log.WithFields(log.Fields{
		"reporter": r.name,
	})
}

// Start reporting every interval.  Calling Start on a running or stopped
// reporter does nothing.
func (r *ScheduledReporter) Start(interval time.Duration) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if interval <= 0 {
		r.logger().WithField("interval", interval).Error("Reporter interval must be positive")
		return
	}
	if r.stopped {
		r.logger().Warn("Reporter was stopped and cannot be started again")
		return
	}
	if r.cancel != nil {
		r.logger().Warn("Reporter already started")
		return
	}

	var ctx context.Context
	ctx, r.cancel = context.WithCancel(context.Background())
	r.done = make(chan struct{})
	r.interval = interval

	ticker := r.clock.Ticker(interval)
	go r.run(ctx, ticker, r.done)

	r.logger().WithField("interval", interval).Info("Started reporter")
}

func (r *ScheduledReporter) run(ctx context.Context, ticker *clock.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Report()
		}
	}
}

// Interval returns the interval the reporter was started with, or zero
func (r *ScheduledReporter) Interval() time.Duration {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.interval
}

// Report runs a single report right away.  Reports are skipped once the
// reporter is stopped.
func (r *ScheduledReporter) Report() {
	r.reportLock.Lock()
	defer r.reportLock.Unlock()

	// Stop may have released the resources while this report was waiting
	// for the previous one to finish
	r.lock.Lock()
	interval, stopped := r.interval, r.stopped
	r.lock.Unlock()

	if stopped {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			r.logger().WithField("panic", p).Error("Reporter panicked while reporting")
		}
	}()

	r.report(r.clock.Now(), interval)
}

// Stop reporting and release the reporter's resources.  Stop waits for a
// report that is in progress to finish.  It is safe to call Stop more than
// once.
func (r *ScheduledReporter) Stop() {
	r.lock.Lock()
	if r.stopped {
		r.lock.Unlock()
		return
	}
	r.stopped = true
	cancel, done := r.cancel, r.done
	r.lock.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	// Wait for any report that was triggered directly
	r.reportLock.Lock()
	defer r.reportLock.Unlock()

	if r.closer != nil {
		if err := r.closer(); err != nil {
			r.logger().WithError(err).Error("Could not cleanly shut down reporter")
		}
	}
	r.logger().Info("Stopped reporter")
}
