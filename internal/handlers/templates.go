package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"course-enrolment/internal/config"
	"course-enrolment/internal/views"
	"course-enrolment/internal/wizard"
)

var (
	templates     *template.Template
	templatesErr  error
	templatesOnce sync.Once
	cfg           *config.Config
)

// SetConfig sets the config used for debug logging
func SetConfig(c *config.Config) {
	cfg = c
}

func logger() *zap.Logger {
	if cfg != nil && cfg.Logger != nil {
		return cfg.Logger
	}
	return zap.NewNop()
}

func debugf(format string, v ...interface{}) {
	if cfg != nil {
		cfg.Debugf(format, v...)
	}
}

// InitTemplates parses the embedded templates so errors surface at startup.
func InitTemplates() error {
	initTemplates()
	return templatesErr
}

var funcMap = template.FuncMap{
	"urlquery": url.QueryEscape,
	"sub": func(a, b int) int {
		return a - b
	},
	"add": func(a, b int) int {
		return a + b
	},
	"steps": func() []wizard.Step {
		return []wizard.Step{wizard.StepContact, wizard.StepBackground, wizard.StepReview}
	},
	"fieldLabel": fieldLabel,
}

func initTemplates() {
	templatesOnce.Do(func() {
		entries, err := fs.ReadDir(views.TemplatesFS, ".")
		if err != nil {
			templatesErr = fmt.Errorf("failed to read template directory: %w", err)
			return
		}

		var templateFiles []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
				templateFiles = append(templateFiles, entry.Name())
			}
		}
		if len(templateFiles) == 0 {
			templatesErr = fmt.Errorf("no template files found in embedded filesystem")
			return
		}
		debugf("Template files found in embedded FS: %v", templateFiles)

		templates, templatesErr = template.New("").Funcs(funcMap).ParseFS(views.TemplatesFS, "*.html")
		if templatesErr != nil {
			templatesErr = fmt.Errorf("failed to parse templates: %w", templatesErr)
			return
		}
		for _, tmpl := range templates.Templates() {
			debugf("  - Template name: '%s'", tmpl.Name())
		}
	})
}

// Map template filenames to their content template names
var contentTemplateMap = map[string]string{
	"course_index.html":   "course_index_content",
	"course_landing.html": "course_landing_content",
	"not_found.html":      "not_found_content",
}

func renderTemplate(w http.ResponseWriter, name string, data map[string]interface{}) {
	renderTemplateStatus(w, http.StatusOK, name, data)
}

func renderTemplateStatus(w http.ResponseWriter, status int, name string, data map[string]interface{}) {
	initTemplates()
	if templatesErr != nil {
		logger().Error("ERROR: Templates not initialized", zap.Error(templatesErr))
		http.Error(w, "Templates not initialized", http.StatusInternalServerError)
		return
	}

	contentTemplateName, exists := contentTemplateMap[name]
	if !exists {
		contentTemplateName = "content"
	}
	if templates.Lookup(contentTemplateName) == nil {
		logger().Error("ERROR: Content template not found", zap.String("template", contentTemplateName))
		http.Error(w, fmt.Sprintf("Content template '%s' not found", contentTemplateName), http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	data["ContentTemplate"] = contentTemplateName

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger().Error("ERROR: Template execute error", zap.String("template", name), zap.Error(err))
		http.Error(w, "Template execute error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
	debugf("Template %s rendered (%d)", name, status)
}

var fieldLabels = map[string]string{
	wizard.FieldName:         "Full name",
	wizard.FieldEmail:        "Email",
	wizard.FieldPhone:        "Phone number",
	wizard.FieldEducation:    "Education",
	wizard.FieldExperience:   "Experience",
	wizard.FieldInterests:    "Interests",
	wizard.FieldExpectations: "What do you expect from the course?",
}

func fieldLabel(name string) string {
	if label, ok := fieldLabels[name]; ok {
		return label
	}
	return name
}
