// Package courses holds the static marketing data for every course landing page.
package courses

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Technology struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type Project struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type Course struct {
	ID           string       `yaml:"id"`
	Slug         string       `yaml:"slug"`
	Title        string       `yaml:"title"`
	Tagline      string       `yaml:"tagline"`
	Description  string       `yaml:"description"`
	Duration     string       `yaml:"duration"`
	Roadmap      []string     `yaml:"roadmap"`
	Technologies []Technology `yaml:"technologies"`
	Projects     []Project    `yaml:"projects"`
	FAQs         []FAQ        `yaml:"faqs"`
}

type Catalog struct {
	courses []Course
	byKey   map[string]int
}

// Parse decodes a catalog document. Course ids must be unique; a missing slug is
// derived from the title.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Courses []Course `yaml:"courses"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse course catalog: %w", err)
	}

	c := &Catalog{byKey: make(map[string]int, len(doc.Courses)*2)}
	for i, course := range doc.Courses {
		if course.ID == "" {
			return nil, fmt.Errorf("course %d has no id", i)
		}
		if course.Slug == "" {
			course.Slug = slug.Make(course.Title)
		}
		for _, key := range []string{course.ID, course.Slug} {
			if prev, dup := c.byKey[key]; dup && prev != i {
				return nil, fmt.Errorf("duplicate course key %q", key)
			}
			c.byKey[key] = i
		}
		c.courses = append(c.courses, course)
	}
	return c, nil
}

var (
	defaultCatalog *Catalog
	defaultErr     error
	loadOnce       sync.Once
)

// Load returns the embedded catalog, parsed once.
func Load() (*Catalog, error) {
	loadOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(catalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Lookup finds a course by id or slug, case-insensitively.
func (c *Catalog) Lookup(key string) (Course, bool) {
	i, ok := c.byKey[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// All returns the courses in catalog order.
func (c *Catalog) All() []Course {
	return append([]Course(nil), c.courses...)
}

// Title returns the display title for a course tag, or the tag itself when the
// catalog does not know it.
func (c *Catalog) Title(tag string) string {
	if course, ok := c.Lookup(tag); ok {
		return course.Title
	}
	return tag
}
