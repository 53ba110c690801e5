package main

import (
	"context"
	"fmt"
	"os"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/leadscli"
	"course-enrolment/internal/models"
	"course-enrolment/internal/store"
)

func main() {
	cfg := config.Load()
	defer cfg.Logger.Sync()

	catalog, err := courses.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := leadscli.New(leadscli.Options{
		Catalog: catalog,
		Open: func(ctx context.Context) (models.LeadStore, func() error, error) {
			return store.Open(ctx, cfg, cfg.Logger)
		},
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
