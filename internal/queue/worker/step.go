package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mkamau/bloghub/internal/domain/job"
	"github.com/mkamau/bloghub/internal/jobs"
	"github.com/mkamau/bloghub/internal/notifications"
)

// ProcessOne claims and executes at most one job. The bool reports whether
// a job was actually processed.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}

		return false, err
	}

	start := time.Now()

	execErr := w.execute(ctx, j)

	result := "done"

	if execErr != nil {
		// attempts was already bumped by the claim
		if j.Attempts >= j.MaxAttempts {
			result = "failed"
		} else {
			result = "retry"
		}
	}

	if w.prom != nil {
		w.prom.ObserveJob(j.Type, result, time.Since(start))
	}

	switch result {
	case "done":
		if err := w.repo.MarkDone(ctx, j.ID); err != nil {
			log.Printf("mark done error: %v", err)
		}

	case "retry":
		runAt := time.Now().UTC().Add(ExponentialBackoff(j.Attempts))

		if err := w.repo.MarkRetry(ctx, j.ID, execErr.Error(), runAt); err != nil {
			log.Printf("mark retry error: %v", err)
		}

	case "failed":
		log.Printf("job exhausted retries job=%s type=%s err=%v", j.ID, j.Type, execErr)

		if err := w.repo.MarkFailed(ctx, j.ID, execErr.Error()); err != nil {
			log.Printf("mark failed error: %v", err)
		}
	}

	return true, nil
}

func (w *Worker) execute(ctx context.Context, j job.Job) error {
	switch jobs.JobType(j.Type) {
	case jobs.JobWelcomeEmail:
		p, err := jobs.DecodeWelcomeEmail(j.Payload)

		if err != nil {
			return err
		}

		return w.notifier.SendWelcomeEmail(ctx, notifications.SendWelcomeEmailInput{
			UserID: p.UserID,
			Email:  p.Email,
			Name:   p.Name,
		})

	default:
		return fmt.Errorf("%w: %s", jobs.ErrInvalidJobType, j.Type)
	}
}
