package worker

import (
	"context"
	"log"
	"time"

	"github.com/mkamau/bloghub/internal/domain/job"
	"github.com/mkamau/bloghub/internal/notifications"
	"github.com/mkamau/bloghub/internal/observability"
)

type JobsRepository interface {
	ClaimNext(ctx context.Context, workerID string) (job.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkRetry(ctx context.Context, id string, errMsg string, runAt time.Time) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
}

// Nudger is the optional fast path: the API pushes after enqueueing a job
// so the worker wakes before the next poll tick.
type Nudger interface {
	WaitForNudge(ctx context.Context, timeout time.Duration) (string, error)
}

type Config struct {
	PollInterval time.Duration
	WorkerID     string
}

type Worker struct {
	cfg      Config
	repo     JobsRepository
	notifier notifications.Notifier
	nudger   Nudger
	prom     *observability.Prom
}

func New(cfg Config, repo JobsRepository, notifier notifications.Notifier, nudger Nudger, prom *observability.Prom) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}

	return &Worker{
		cfg:      cfg,
		repo:     repo,
		notifier: notifier,
		nudger:   nudger,
		prom:     prom,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			log.Println("worker received shutdown signal")
			return nil
		default:
		}

		w.waitForWork(ctx)

		// drain everything that is runnable before sleeping again
		for {
			processed, err := w.ProcessOne(ctx)

			if err != nil {
				log.Printf("process error: %v", err)
				break
			}

			if !processed {
				break
			}
		}
	}
}

func (w *Worker) waitForWork(ctx context.Context) {
	if w.nudger != nil {
		_, err := w.nudger.WaitForNudge(ctx, w.cfg.PollInterval)

		if err != nil && ctx.Err() == nil {
			log.Printf("nudge wait error, falling back to poll: %v", err)

			select {
			case <-time.After(w.cfg.PollInterval):
			case <-ctx.Done():
			}
		}

		return
	}

	select {
	case <-time.After(w.cfg.PollInterval):
	case <-ctx.Done():
	}
}
