package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/dialogs"
	"course-enrolment/internal/middleware"
	"course-enrolment/internal/wizard"
)

type CourseHandler struct {
	cfg     *config.Config
	catalog *courses.Catalog
	dialogs *dialogs.Registry
}

func NewCourseHandler(cfg *config.Config, catalog *courses.Catalog, reg *dialogs.Registry) *CourseHandler {
	return &CourseHandler{cfg: cfg, catalog: catalog, dialogs: reg}
}

// dialogView is what the landing page needs to draw an open dialog.
type dialogView struct {
	wizard.State
	ID          uuid.UUID
	CourseTitle string
}

type reviewItem struct {
	Label string
	Value string
}

func (d dialogView) Submitting() bool { return d.Status == wizard.StatusSubmitting }
func (d dialogView) Succeeded() bool  { return d.Status == wizard.StatusSuccess }
func (d dialogView) Failed() bool     { return d.Status == wizard.StatusError }

// Review lists the filled-in fields in form order.
func (d dialogView) Review() []reviewItem {
	var items []reviewItem
	for _, name := range wizard.FieldNames {
		if v := strings.TrimSpace(d.Fields[name]); v != "" {
			items = append(items, reviewItem{Label: fieldLabel(name), Value: v})
		}
	}
	return items
}

// GET /
func (h *CourseHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.notFound(w, r, "")
		return
	}
	visitorID := middleware.GetVisitorID(r)
	data := map[string]interface{}{
		"Title":        "Internship Programs",
		"Courses":      h.catalog.All(),
		"ScrollLocked": h.dialogs.Locked(visitorID),
	}
	renderTemplate(w, "course_index.html", data)
}

// GET /courses/{slug}[?dialog={id}]
func (h *CourseHandler) Landing(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/courses/"), "/")
	course, ok := h.catalog.Lookup(key)
	if !ok {
		h.notFound(w, r, "We don't offer that course yet.")
		return
	}
	if key != course.Slug {
		http.Redirect(w, r, "/courses/"+course.Slug, http.StatusMovedPermanently)
		return
	}

	visitorID := middleware.GetVisitorID(r)
	data := map[string]interface{}{
		"Title":  course.Title + " Internship",
		"Course": course,
	}

	if raw := r.URL.Query().Get("dialog"); raw != "" {
		id, err := uuid.Parse(raw)
		var d *dialogs.Dialog
		if err == nil {
			d, err = h.dialogs.Get(visitorID, id)
		}
		if err != nil {
			h.cfg.Debugf("Landing: dialog %q not open for visitor, dropping param", raw)
			http.Redirect(w, r, "/courses/"+course.Slug, http.StatusSeeOther)
			return
		}

		state := d.Snapshot()
		data["Dialog"] = dialogView{
			State:       state,
			ID:          d.ID,
			CourseTitle: h.catalog.Title(state.CourseType),
		}
		// Poll until the submission resolves and the dialog closes itself.
		if state.Status == wizard.StatusSubmitting || state.Status == wizard.StatusSuccess {
			data["Refresh"] = 1
		}
	}
	data["ScrollLocked"] = h.dialogs.Locked(visitorID)

	renderTemplate(w, "course_landing.html", data)
}

func (h *CourseHandler) notFound(w http.ResponseWriter, r *http.Request, message string) {
	renderTemplateStatus(w, http.StatusNotFound, "not_found.html", map[string]interface{}{
		"Title":        "Not found",
		"Message":      message,
		"ScrollLocked": h.dialogs.Locked(middleware.GetVisitorID(r)),
	})
}
