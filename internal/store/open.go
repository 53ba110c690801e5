package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"course-enrolment/internal/config"
	"course-enrolment/internal/db"
	"course-enrolment/internal/models"
)

// Open returns the lead store selected by LEAD_STORE. For postgres it connects,
// runs migrations and the returned close func releases the pool.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (models.LeadStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LeadStore {
	case config.StoreMemory:
		log.Warn("Using in-memory lead store; leads are lost on restart")
		return NewMemory(), noop, nil
	case config.StoreDisk:
		log.Info("Using disk lead store", zap.String("path", cfg.LeadStorePath))
		return NewDisk(cfg.LeadStorePath), noop, nil
	case config.StorePostgres:
		if err := db.Connect(ctx, cfg.DatabaseURL, log); err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(ctx, log); err != nil {
			db.Close()
			return nil, noop, err
		}
		return models.NewLeadRepository(db.DB), db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown lead store %q", cfg.LeadStore)
	}
}
