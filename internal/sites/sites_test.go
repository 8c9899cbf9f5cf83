package sites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{"glassdoor", "indeed", "linkedin"}, r.Keys())

	p, ok := r.Lookup("indeed")
	require.True(t, ok)
	assert.Equal(t, ".job_seen_beacon", p.ListingSelector)

	_, ok = r.Lookup("monster")
	assert.False(t, ok)
}

func TestSearchURL(t *testing.T) {
	p := Profile{URL: "https://example.com/jobs?q={query}&l={location}"}

	tests := []struct {
		name     string
		query    string
		location string
		expected string
	}{
		{
			name:     "spaces become plus",
			query:    "golang developer",
			location: "new york",
			expected: "https://example.com/jobs?q=golang+developer&l=new+york",
		},
		{
			name:     "empty location",
			query:    "golang",
			location: "",
			expected: "https://example.com/jobs?q=golang&l=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.SearchURL(tt.query, tt.location))
		})
	}
}

func TestLoadOverlay(t *testing.T) {
	content := `
remotejobs:
  url: "https://remote.example.com/search?q={query}"
  job_listing_selector: ".listing"
  job_title_selector: ".title"
  company_selector: ".company"
  location_selector: ".loc"
indeed:
  url: "https://de.indeed.com/jobs?q={query}&l={location}"
  job_listing_selector: ".job_seen_beacon"
  job_title_selector: ".jobTitle"
  company_selector: ".companyName"
  location_selector: ".companyLocation"
`
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := Load(path)
	require.NoError(t, err)

	//new site added
	p, ok := r.Lookup("remotejobs")
	require.True(t, ok)
	assert.Equal(t, "remotejobs", p.Key)

	//existing site overridden
	p, ok = r.Lookup("indeed")
	require.True(t, ok)
	assert.Contains(t, p.URL, "de.indeed.com")

	//defaults untouched
	_, ok = r.Lookup("linkedin")
	assert.True(t, ok)
}

func TestLoadRejectsMissingQueryPlaceholder(t *testing.T) {
	content := `
broken:
  url: "https://example.com/jobs"
  job_listing_selector: ".listing"
`
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "{query}")
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	r, err := Load("")
	require.NoError(t, err)
	assert.Len(t, r.Keys(), 3)
}
