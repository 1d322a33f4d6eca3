package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/realtime"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/reviews/service"
	"github.com/GoSim-25-26J-441/go-reviews-backend/internal/workspace"
)

// ResyncJob publishes a change on every topic so live mirrors reload even
// if a Pub/Sub message was missed.
func ResyncJob(n realtime.Notifier, topics ...string) Job {
	return func(ctx context.Context) error {
		var errs []error
		for _, topic := range topics {
			if err := n.Publish(ctx, topic); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

// WorkspaceSweepJob closes workspaces whose session ended or went idle.
func WorkspaceSweepJob(r *workspace.Registry, sessions workspace.SessionChecker) Job {
	return func(ctx context.Context) error {
		_, err := r.Sweep(ctx, sessions)
		return err
	}
}

// LimiterSweepJob drops rate limiter entries unused for idle.
func LimiterSweepJob(l *service.Limiter, idle time.Duration) Job {
	return func(context.Context) error {
		if n := l.Sweep(idle); n > 0 {
			slog.Debug("swept rate limiters", "removed", n)
		}
		return nil
	}
}
