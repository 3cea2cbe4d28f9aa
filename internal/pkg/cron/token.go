package cron

import (
	"context"
	"log/slog"
	"time"
)

// TokenPruner is satisfied by the JWT service.
type TokenPruner interface {
	PruneRevoked(now time.Time) int
}

type TokenJobs struct {
	pruner TokenPruner
}

func NewTokenJobs(pruner TokenPruner) *TokenJobs {
	return &TokenJobs{pruner: pruner}
}

func (j *TokenJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("prune_revoked_tokens", 1*time.Hour, j.PruneRevokedTokens)
}

func (j *TokenJobs) PruneRevokedTokens(ctx context.Context) error {
	if removed := j.pruner.PruneRevoked(time.Now()); removed > 0 {
		slog.Info("Cron: Pruned revoked tokens", "count", removed)
	}
	return nil
}
