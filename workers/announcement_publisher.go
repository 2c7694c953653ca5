// workers/announcement_publisher.go
package workers

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// DuePublisher flips scheduled announcements whose publish time has passed.
type DuePublisher interface {
	PublishDue(ctx context.Context) (int64, error)
}

// AnnouncementPublisher runs PublishDue on a fixed interval, once right away
// at start so posts scheduled during downtime show up immediately.
type AnnouncementPublisher struct {
	publisher DuePublisher
	interval  time.Duration
	log       *zap.SugaredLogger

	sched  gocron.Scheduler
	cancel context.CancelFunc
}

func NewAnnouncementPublisher(publisher DuePublisher, interval time.Duration, log *zap.SugaredLogger) *AnnouncementPublisher {
	return &AnnouncementPublisher{publisher: publisher, interval: interval, log: log}
}

func (w *AnnouncementPublisher) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())

	_, err = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.RunOnce, ctx),
		gocron.WithName("publish-announcements"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return err
	}

	w.sched = sched
	w.cancel = cancel
	sched.Start()
	w.log.Infow("announcement publisher started", "interval", w.interval)
	return nil
}

// RunOnce publishes whatever is due now.
func (w *AnnouncementPublisher) RunOnce(ctx context.Context) {
	n, err := w.publisher.PublishDue(ctx)
	if err != nil {
		w.log.Errorw("publishing scheduled announcements failed", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("published scheduled announcements", "count", n)
	}
}

func (w *AnnouncementPublisher) Stop() error {
	if w.sched == nil {
		return nil
	}
	w.cancel()
	err := w.sched.Shutdown()
	w.sched = nil
	w.log.Infow("announcement publisher stopped")
	return err
}
