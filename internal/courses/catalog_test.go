package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	ids := make([]string, 0, len(c.All()))
	for _, course := range c.All() {
		ids = append(ids, course.ID)
		assert.NotEmpty(t, course.Title, course.ID)
		assert.NotEmpty(t, course.Slug, course.ID)
		assert.NotEmpty(t, course.Roadmap, course.ID)
	}
	assert.Equal(t, []string{"webdev", "datascience", "java", "android", "cpp", "genai", "ml", "python", "cloud"}, ids)
}

func TestLookup(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	tests := []struct {
		key   string
		want  string
		found bool
	}{
		{"webdev", "Web Development", true},
		{"web-development", "Web Development", true},
		{"  GenAI ", "Generative AI", true},
		{"cpp", "C++ Programming", true},
		{"cobol", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			course, ok := c.Lookup(tt.key)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, course.Title)
		})
	}
}

func TestTitleFallsBackToTag(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Machine Learning", c.Title("ml"))
	assert.Equal(t, "Underwater Basket Weaving", c.Title("Underwater Basket Weaving"))
}

func TestParseRejectsBadDocuments(t *testing.T) {
	_, err := Parse([]byte("courses:\n  - title: No ID\n"))
	assert.ErrorContains(t, err, "has no id")

	_, err = Parse([]byte("courses:\n  - {id: a, slug: x}\n  - {id: b, slug: x}\n"))
	assert.ErrorContains(t, err, "duplicate course key")

	_, err = Parse([]byte("courses: ["))
	assert.Error(t, err)
}

func TestAllReturnsCopy(t *testing.T) {
	c, err := Parse([]byte("courses:\n  - {id: a, title: Alpha}\n"))
	require.NoError(t, err)
	all := c.All()
	all[0].Title = "changed"
	assert.Equal(t, "Alpha", c.All()[0].Title)
	assert.Equal(t, "alpha", c.All()[0].Slug)
}
