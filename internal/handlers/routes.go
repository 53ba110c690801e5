package handlers

import (
	"context"
	"net/http"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/dialogs"
	"course-enrolment/internal/middleware"
)

// Routes builds the site's handler tree. ping may be nil.
func Routes(c *config.Config, catalog *courses.Catalog, reg *dialogs.Registry, ping func(ctx context.Context) error) http.Handler {
	SetConfig(c)

	courseHandler := NewCourseHandler(c, catalog, reg)
	enrolHandler := NewEnrolHandler(c, catalog, reg)
	healthHandler := NewHealthHandler(reg, ping)

	mux := http.NewServeMux()

	// Request logging middleware - concise request log
	requestLogMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			c.Debugf("REQUEST: %s %s", r.Method, r.URL.Path)
			next(w, r)
		}
	}

	mux.HandleFunc("/healthz", healthHandler.Health)
	mux.HandleFunc("/enrol/open", requestLogMiddleware(enrolHandler.Open))
	mux.HandleFunc("/enrol/", requestLogMiddleware(enrolHandler.Dialog))
	mux.HandleFunc("/courses/", requestLogMiddleware(courseHandler.Landing))
	mux.HandleFunc("/", requestLogMiddleware(courseHandler.Index))

	signer := middleware.NewSigner(c.SessionSecret)
	return signer.EnsureVisitor(mux)
}
