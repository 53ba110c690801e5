package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/dialogs"
	"course-enrolment/internal/middleware"
	"course-enrolment/internal/wizard"
)

type EnrolHandler struct {
	cfg     *config.Config
	catalog *courses.Catalog
	dialogs *dialogs.Registry
}

func NewEnrolHandler(cfg *config.Config, catalog *courses.Catalog, reg *dialogs.Registry) *EnrolHandler {
	return &EnrolHandler{cfg: cfg, catalog: catalog, dialogs: reg}
}

// POST /enrol/open
func (h *EnrolHandler) Open(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	course, ok := h.catalog.Lookup(r.PostForm.Get("course"))
	if !ok {
		http.Error(w, "Unknown course", http.StatusNotFound)
		return
	}

	d := h.dialogs.Open(middleware.GetVisitorID(r), course.ID)
	h.cfg.Debugf("Open: dialog %s opened for course %s", d.ID, course.ID)
	http.Redirect(w, r, landingURL(course.Slug, d.ID), http.StatusSeeOther)
}

type dialogAction func(ctx context.Context, d *dialogs.Dialog) error

var dialogActions = map[string]dialogAction{
	"next": func(_ context.Context, d *dialogs.Dialog) error { return d.Advance() },
	"back": func(_ context.Context, d *dialogs.Dialog) error { return d.Retreat() },
	"submit": func(ctx context.Context, d *dialogs.Dialog) error {
		return d.Submit(ctx)
	},
	"retry": func(_ context.Context, d *dialogs.Dialog) error { return d.Retry() },
	"close": func(_ context.Context, d *dialogs.Dialog) error {
		d.Close()
		return nil
	},
}

// POST /enrol/{id}/{action}
// GET  /enrol/{id}/state
func (h *EnrolHandler) Dialog(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/enrol/"), "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if parts[1] == "state" {
		h.State(w, r, id)
		return
	}

	action, ok := dialogActions[parts[1]]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	d, err := h.dialogs.Get(middleware.GetVisitorID(r), id)
	if err != nil {
		// Closed dialogs leave nothing behind; send the visitor back to the page.
		if course, ok := h.catalog.Lookup(r.PostForm.Get("course")); ok {
			http.Redirect(w, r, "/courses/"+course.Slug, http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if parts[1] != "close" {
		h.applyForm(d, r)
	}

	if err := action(r.Context(), d); err != nil {
		var verr *wizard.ValidationError
		switch {
		case errors.As(err, &verr):
			h.cfg.Debugf("Dialog %s: step %d has errors: %v", d.ID, verr.Step, verr.Errors)
		case errors.Is(err, wizard.ErrSubmitting), errors.Is(err, wizard.ErrCompleted), errors.Is(err, wizard.ErrClosed):
			h.cfg.Debugf("Dialog %s: %s ignored: %v", d.ID, parts[1], err)
		default:
			logger().Warn("Dialog action rejected",
				zap.String("dialog", d.ID.String()),
				zap.String("action", parts[1]),
				zap.Error(err))
		}
	}

	course, ok := h.catalog.Lookup(d.CourseType())
	switch {
	case !ok:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case d.Snapshot().Closed:
		http.Redirect(w, r, "/courses/"+course.Slug, http.StatusSeeOther)
	default:
		http.Redirect(w, r, landingURL(course.Slug, d.ID), http.StatusSeeOther)
	}
}

// applyForm copies the posted fields of the current step into the dialog.
func (h *EnrolHandler) applyForm(d *dialogs.Dialog, r *http.Request) {
	for _, name := range d.Snapshot().Step.Fields() {
		if _, posted := r.PostForm[name]; !posted {
			continue
		}
		if err := d.SetField(name, r.PostForm.Get(name)); err != nil {
			h.cfg.Debugf("Dialog %s: field %s not applied: %v", d.ID, name, err)
			return
		}
	}
}

type stateResponse struct {
	ID         string            `json:"id"`
	CourseType string            `json:"course_type"`
	Step       int               `json:"step"`
	Fields     map[string]string `json:"fields"`
	Errors     map[string]string `json:"errors"`
	Status     string            `json:"status"`
	LeadID     string            `json:"lead_id,omitempty"`
	Locked     bool              `json:"locked"`
}

// GET /enrol/{id}/state
func (h *EnrolHandler) State(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	visitorID := middleware.GetVisitorID(r)
	d, err := h.dialogs.Get(visitorID, id)
	if err != nil {
		jsonError(w, http.StatusNotFound, "Dialog not found")
		return
	}

	s := d.Snapshot()
	jsonResponse(w, http.StatusOK, stateResponse{
		ID:         d.ID.String(),
		CourseType: s.CourseType,
		Step:       int(s.Step),
		Fields:     s.Fields,
		Errors:     s.Errors,
		Status:     string(s.Status),
		LeadID:     s.LeadID,
		Locked:     h.dialogs.Locked(visitorID),
	})
}

func landingURL(slug string, id uuid.UUID) string {
	return "/courses/" + slug + "?dialog=" + id.String()
}
