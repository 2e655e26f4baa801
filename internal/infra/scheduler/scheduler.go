package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a single polling iteration.
type Job interface {
	Tick(ctx context.Context) error
}

// PollScheduler drives a Job from a cron spec instead of a fixed sleep.
// A tick that is still running when the next one is due causes that one to be skipped,
// so iterations never overlap.
type PollScheduler struct {
	cronEngine *cron.Cron
	job        Job
	spec       string
	logger     *logrus.Entry
	cancel     context.CancelFunc
}

func NewPollScheduler(job Job, spec string, logger *logrus.Entry) *PollScheduler {
	logger = logger.WithField("component", "poll_scheduler")
	cronLog := cronLogger{entry: logger}
	return &PollScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for cron
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		job:    job,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the polling job, runs one poll right away and then starts
// the cron engine. Ticks run with a context derived from ctx that is cancelled by Stop.
func (s *PollScheduler) Start(ctx context.Context) error {
	s.logger.WithField("spec", s.spec).Info("Starting poll scheduler...")

	jobCtx, cancel := context.WithCancel(ctx)
	_, err := s.cronEngine.AddFunc(s.spec, func() {
		s.logger.Debug("Cron job triggered for homework status poll")
		s.tick(jobCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid poll cron spec %q: %w", s.spec, err)
	}
	s.cancel = cancel

	// The first poll does not wait for the schedule, same as the sleep loop.
	s.tick(jobCtx)

	s.cronEngine.Start()
	s.logger.Info("Poll scheduler started")
	return nil
}

// Stop stops scheduling new ticks and waits for a running one to finish.
func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	ctx := s.cronEngine.Stop()
	if s.cancel != nil {
		s.cancel()
	}
	<-ctx.Done()
	s.logger.Info("Poll scheduler gracefully stopped")
}

func (s *PollScheduler) tick(ctx context.Context) {
	if err := s.job.Tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.WithError(err).Debug("Scheduled poll finished with error")
	}
}

// cronLogger routes robfig/cron's logging through logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).WithError(err).Error(msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
