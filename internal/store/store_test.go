package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"course-enrolment/internal/models"
)

// stepClock hands out increasing timestamps so ordering is deterministic.
func stepClock() func() time.Time {
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func sinks(t *testing.T) map[string]models.LeadStore {
	mem := NewMemory()
	mem.now = stepClock()
	disk := NewDisk(t.TempDir())
	disk.now = stepClock()
	return map[string]models.LeadStore{
		"memory": mem,
		"disk":   disk,
	}
}

func newLead(name, course string) *models.Lead {
	return &models.Lead{
		Name:       name,
		Email:      name + "@example.com",
		Phone:      "9876543210",
		Education:  "B.Tech",
		CourseType: course,
	}
}

func TestStoresCreateAndGet(t *testing.T) {
	for name, s := range sinks(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lead := newLead("asha", "webdev")
			lead.Interests = "frontend"
			require.NoError(t, s.CreateLead(ctx, lead))

			assert.NotEqual(t, uuid.Nil, lead.ID)
			assert.Equal(t, models.LeadStatusPending, lead.Status)
			assert.False(t, lead.CreatedAt.IsZero())
			assert.Equal(t, lead.CreatedAt, lead.UpdatedAt)

			got, err := s.GetLead(ctx, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, lead.Name, got.Name)
			assert.Equal(t, "frontend", got.Interests)
			assert.Equal(t, "webdev", got.CourseType)
			assert.True(t, lead.CreatedAt.Equal(got.CreatedAt))

			_, err = s.GetLead(ctx, uuid.New())
			assert.ErrorIs(t, err, models.ErrLeadNotFound)
		})
	}
}

func TestStoresKeepUnknownCourseVerbatim(t *testing.T) {
	for name, s := range sinks(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			lead := newLead("ravi", "Quantum Basket-Weaving / 2027")
			require.NoError(t, s.CreateLead(ctx, lead))

			got, err := s.GetLead(ctx, lead.ID)
			require.NoError(t, err)
			assert.Equal(t, "Quantum Basket-Weaving / 2027", got.CourseType)

			leads, err := s.ListLeads(ctx, models.LeadFilter{CourseType: "Quantum Basket-Weaving / 2027"})
			require.NoError(t, err)
			assert.Len(t, leads, 1)
		})
	}
}

func TestStoresListAndCount(t *testing.T) {
	for name, s := range sinks(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, l := range []*models.Lead{
				newLead("asha", "webdev"),
				newLead("ravi", "python"),
				newLead("meera", "webdev"),
			} {
				require.NoError(t, s.CreateLead(ctx, l))
			}

			all, err := s.ListLeads(ctx, models.LeadFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "meera", all[0].Name, "newest first")
			assert.Equal(t, "asha", all[2].Name)

			webdev, err := s.ListLeads(ctx, models.LeadFilter{CourseType: "webdev"})
			require.NoError(t, err)
			assert.Len(t, webdev, 2)

			search, err := s.ListLeads(ctx, models.LeadFilter{Search: "RAVI"})
			require.NoError(t, err)
			require.Len(t, search, 1)
			assert.Equal(t, "python", search[0].CourseType)

			since, err := s.ListLeads(ctx, models.LeadFilter{Since: all[1].CreatedAt})
			require.NoError(t, err)
			assert.Len(t, since, 2)

			counts, err := s.CountByCourse(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]int{"webdev": 2, "python": 1}, counts)
		})
	}
}

func TestDiskKeyTransformRoundTrip(t *testing.T) {
	key := "web-development:7f0c1f9e-4d4b-4b9a-9f55-1c2f3e4d5a6b"
	pk := keyToPathTransform(key)
	assert.Equal(t, []string{"web-development"}, pk.Path)
	assert.Equal(t, "7f0c1f9e-4d4b-4b9a-9f55-1c2f3e4d5a6b.json", pk.FileName)
	assert.Equal(t, key, pathToKeyTransform(pk))
}

func TestCourseDir(t *testing.T) {
	assert.Equal(t, "webdev", courseDir("webdev"))
	assert.Equal(t, "unknown", courseDir("   "))
	assert.NotContains(t, courseDir("../../etc"), "/")
}

func TestDiskScansStopEarlyWithoutLeaking(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	disk := NewDisk(t.TempDir())
	disk.now = stepClock()

	var ids []uuid.UUID
	for _, name := range []string{"asha", "rahul", "priya", "neha"} {
		lead := newLead(name, "webdev")
		require.NoError(t, disk.CreateLead(ctx, lead))
		ids = append(ids, lead.ID)
	}

	for _, id := range ids {
		got, err := disk.GetLead(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	}

	// A broken document that sorts ahead of the real ones stops the scan at once.
	require.NoError(t, disk.d.Write("webdev:00", []byte("{")))
	_, err := disk.ListLeads(ctx, models.LeadFilter{CourseType: "webdev"})
	assert.Error(t, err)
	_, err = disk.CountByCourse(ctx)
	assert.Error(t, err)
}
