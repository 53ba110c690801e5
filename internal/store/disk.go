package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/peterbourgon/diskv/v3"

	"course-enrolment/internal/models"
)

const documentExt = ".json"

// Disk stores each lead as a JSON document under <base>/<course-slug>/<id>.json.
type Disk struct {
	d   *diskv.Diskv
	now func() time.Time
}

func NewDisk(basePath string) *Disk {
	return &Disk{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		now: time.Now,
	}
}

func (s *Disk) CreateLead(_ context.Context, lead *models.Lead) error {
	prepare(lead, s.now())

	b, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to encode lead: %w", err)
	}
	if err := s.d.Write(toKey(lead), b); err != nil {
		return &models.WriteError{Err: err}
	}
	return nil
}

// GetLead walks the keys until it finds id. diskv's walker only stops when its
// cancel channel closes, so each scan below runs under its own cancel.
func (s *Disk) GetLead(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	suffix := ":" + id.String()
	for key := range s.d.Keys(ctx.Done()) {
		if strings.HasSuffix(key, suffix) {
			return s.read(key)
		}
	}
	return nil, models.ErrLeadNotFound
}

func (s *Disk) ListLeads(ctx context.Context, filter models.LeadFilter) ([]*models.Lead, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefix := ""
	if filter.CourseType != "" {
		prefix = courseDir(filter.CourseType) + ":"
	}

	var out []*models.Lead
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		lead, err := s.read(key)
		if err != nil {
			return nil, err
		}
		if filter.Match(lead) {
			out = append(out, lead)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *Disk) CountByCourse(ctx context.Context) (map[string]int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	counts := make(map[string]int)
	for key := range s.d.Keys(ctx.Done()) {
		lead, err := s.read(key)
		if err != nil {
			return nil, err
		}
		counts[lead.CourseType]++
	}
	return counts, ctx.Err()
}

func (s *Disk) read(key string) (*models.Lead, error) {
	b, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read lead %s: %w", key, err)
	}
	lead := &models.Lead{}
	if err := json.Unmarshal(b, lead); err != nil {
		return nil, fmt.Errorf("failed to decode lead %s: %w", key, err)
	}
	return lead, nil
}

// courseDir turns a free-form course tag into a safe directory name.
// The tag itself is kept verbatim inside the document.
func courseDir(course string) string {
	if dir := slug.Make(course); dir != "" {
		return dir
	}
	return "unknown"
}

// toKey makes `course-slug:id`
func toKey(lead *models.Lead) string {
	return courseDir(lead.CourseType) + ":" + lead.ID.String()
}

func keyToPathTransform(key string) *diskv.PathKey {
	i := strings.LastIndex(key, ":")
	if i < 0 {
		return &diskv.PathKey{FileName: key + documentExt}
	}
	return &diskv.PathKey{
		Path:     []string{key[:i]},
		FileName: key[i+1:] + documentExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(pathKey.FileName, documentExt)
	if len(pathKey.Path) == 0 {
		return name
	}
	return strings.Join(pathKey.Path, "/") + ":" + name
}
