package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-enrolment/internal/courses"
	"course-enrolment/internal/models"
	"course-enrolment/internal/store"
	"course-enrolment/internal/wizard"
)

func TestSeedSpreadsLeadsOverCourses(t *testing.T) {
	catalog, err := courses.Load()
	require.NoError(t, err)
	mem := store.NewMemory()

	perCourse, inserted := seed(context.Background(), mem, catalog.All(), 20)
	assert.Equal(t, 20, inserted)
	assert.Equal(t, 20, mem.Len())
	assert.Equal(t, 3, perCourse["webdev"])
	assert.Equal(t, 2, perCourse["cloud"])

	counts, err := mem.CountByCourse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, perCourse, counts)
}

func TestDemoLeadsPassFormValidation(t *testing.T) {
	catalog, err := courses.Load()
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		lead := demoLead(i, catalog.All()[0])
		values := map[string]string{
			wizard.FieldName:      lead.Name,
			wizard.FieldEmail:     lead.Email,
			wizard.FieldPhone:     lead.Phone,
			wizard.FieldEducation: lead.Education,
		}
		assert.Empty(t, wizard.ValidateStep(wizard.StepContact, values), lead.Email)
		assert.Empty(t, wizard.ValidateStep(wizard.StepBackground, values))
		assert.Equal(t, models.LeadStatusPending, lead.Status)
	}
}
