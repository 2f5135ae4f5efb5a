package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/beautycart-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const purgeTimeout = 5 * time.Minute

// SessionPurger is the part of the cart service the scheduler needs.
type SessionPurger interface {
	PurgeIdleSessions(ctx context.Context, idleFor time.Duration, limit int) (int64, error)
}

// SessionPurgeScheduler periodically deletes carts that have been idle too long.
type SessionPurgeScheduler struct {
	cron    *cron.Cron
	purger  SessionPurger
	spec    string
	idleFor time.Duration
	batch   int
}

func NewSessionPurgeScheduler(purger SessionPurger, spec string, idleFor time.Duration, batch int) *SessionPurgeScheduler {
	return &SessionPurgeScheduler{
		cron:    cron.New(),
		purger:  purger,
		spec:    spec,
		idleFor: idleFor,
		batch:   batch,
	}
}

// Start registers the purge job and starts the cron runner.
func (s *SessionPurgeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for session purge", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Session purge scheduler started", map[string]interface{}{
		"spec":     s.spec,
		"idle_for": s.idleFor.String(),
	})
	return nil
}

// RunOnce purges in batches until a batch comes back short.
func (s *SessionPurgeScheduler) RunOnce(ctx context.Context) int64 {
	logger.Info("Starting scheduled session purge", nil)

	var total int64
	for {
		n, err := s.purger.PurgeIdleSessions(ctx, s.idleFor, s.batch)
		if err != nil {
			logger.Error("Failed to purge idle sessions", err, map[string]interface{}{
				"purged": total,
			})
			return total
		}
		total += n
		if s.batch <= 0 || n < int64(s.batch) || ctx.Err() != nil {
			break
		}
	}

	logger.Info("Finished scheduled session purge", map[string]interface{}{
		"purged": total,
	})
	return total
}

func (s *SessionPurgeScheduler) Stop() {
	logger.Info("Stopping session purge scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Session purge scheduler stopped", nil)
}
