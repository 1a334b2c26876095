package workers

import (
	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/service"
	"github.com/avelkov/go-access-gate/internal/store"
)

type Workers struct {
	workers []Worker
}

func NewWorkers(services *service.Services, repositories *store.Repositories, cfg config.Workers, logger *logger.Logger) *Workers {
	logger.Info().Msg("creating background workers...")

	return &Workers{
		workers: []Worker{
			newSweeper(services.LockoutTracker, repositories.ResetTokenRepository, cfg.SweepInterval, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
