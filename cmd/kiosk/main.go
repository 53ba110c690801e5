// Kiosk runs the enrolment form full-screen in a terminal for one course.
//
// Usage:
//
//	LEAD_STORE=disk go run ./cmd/kiosk --course web-development --log-file kiosk.log
package main

import (
	"context"
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/gateway"
	"course-enrolment/internal/kiosk"
	"course-enrolment/internal/notify"
	"course-enrolment/internal/store"
	"course-enrolment/internal/wizard"
)

func main() {
	course := flag.String("course", "webdev", "course id or slug")
	logFile := flag.String("log-file", "", "write logs here while the form is on screen")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	catalog, err := courses.Load()
	if err != nil {
		log.Fatalf("Failed to load course catalog: %v", err)
	}
	c, ok := catalog.Lookup(*course)
	if !ok {
		log.Fatalf("Unknown course %q; run `leads courses` for the list", *course)
	}

	// The terminal belongs to the form, so runtime logs go to a file or nowhere.
	logger := zap.NewNop()
	if *logFile != "" {
		zcfg := zap.NewProductionConfig()
		zcfg.OutputPaths = []string{*logFile}
		zcfg.ErrorOutputPaths = []string{*logFile}
		if logger, err = zcfg.Build(); err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
	}
	defer logger.Sync()

	ctx := context.Background()
	leads, closeStore, err := store.Open(ctx, cfg, cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to open lead store: %v", err)
	}
	defer closeStore()

	gwOpts := []gateway.Option{gateway.WithTimeout(cfg.SubmitTimeout), gateway.WithLogger(logger)}
	if cfg.NATSURL != "" {
		pub, err := notify.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer pub.Close()
		gwOpts = append(gwOpts, gateway.WithPublisher(pub))
	}

	m := kiosk.New(c.ID, c.Title, gateway.New(leads, gwOpts...),
		wizard.WithCloseDelay(cfg.AutoCloseDelay),
		wizard.WithLogger(logger),
	)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("Kiosk failed: %v", err)
	}
}
