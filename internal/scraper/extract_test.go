package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobsearch-assistant/internal/sites"
)

var testProfile = sites.Profile{
	Key:              "indeed",
	URL:              "https://www.indeed.com/jobs?q={query}&l={location}",
	ListingSelector:  ".job-card",
	TitleSelector:    ".title",
	CompanySelector:  ".company",
	LocationSelector: ".location",
}

func parseDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func TestExtractListingsDocumentOrder(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card">
			<a class="title" href="/jobs/1">Backend Engineer</a>
			<span class="company">Acme</span>
			<span class="location">Berlin</span>
		</div>
		<div class="job-card">
			<a class="title" href="/jobs/2">Platform Engineer</a>
			<span class="company">Globex</span>
			<span class="location">Remote</span>
		</div>
		<div class="job-card">
			<a class="title" href="/jobs/3">SRE</a>
			<span class="company">Initech</span>
			<span class="location">Austin</span>
		</div>`)

	jobs := extractListings(doc, testProfile)

	require.Len(t, jobs, 3)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Platform Engineer", jobs[1].Title)
	assert.Equal(t, "SRE", jobs[2].Title)
	assert.Equal(t, "indeed", jobs[0].Source)
	assert.Equal(t, "/jobs/1", jobs[0].URL)
	assert.Empty(t, jobs[0].Description)
}

func TestExtractListingsSkipsTitleless(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card">
			<a class="title" href="/jobs/1">Backend Engineer</a>
		</div>
		<div class="job-card">
			<span class="company">No Title Inc</span>
		</div>
		<div class="job-card">
			<a class="title" href="/jobs/3">SRE</a>
		</div>`)

	jobs := extractListings(doc, testProfile)

	require.Len(t, jobs, 2)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "SRE", jobs[1].Title)
}

func TestExtractListingsSentinels(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card">
			<a class="title" href="/jobs/1">Backend Engineer</a>
		</div>`)

	jobs := extractListings(doc, testProfile)

	require.Len(t, jobs, 1)
	assert.Equal(t, UnknownCompany, jobs[0].Company)
	assert.Equal(t, UnknownLocation, jobs[0].Location)
}

func TestExtractJobURLFallsBackToParent(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card">
			<a href="/jobs/parent-link"><span class="title">Backend Engineer</span></a>
		</div>`)

	jobs := extractListings(doc, testProfile)

	require.Len(t, jobs, 1)
	assert.Equal(t, "/jobs/parent-link", jobs[0].URL)
}

func TestExtractListingsKeepsRepeatedURLs(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card"><a class="title" href="/jobs/1">Engineer</a></div>
		<div class="job-card"><a class="title" href="/jobs/1">Engineer (promoted)</a></div>
		<div class="job-card"><a class="title" href="/jobs/2">Engineer II</a></div>`)

	jobs := extractListings(doc, testProfile)

	//one record per titled element, even when hrefs repeat
	require.Len(t, jobs, 3)
	assert.Equal(t, "/jobs/1", jobs[0].URL)
	assert.Equal(t, "/jobs/1", jobs[1].URL)
	assert.Equal(t, "/jobs/2", jobs[2].URL)
}

func TestExtractJobNormalizesWhitespace(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-card">
			<a class="title" href="/jobs/1">
				Backend
				Engineer
			</a>
			<span class="company">  Acme   Corp </span>
		</div>`)

	jobs := extractListings(doc, testProfile)

	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Acme Corp", jobs[0].Company)
}

func TestFindDescriptionFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		markup   string
		expected string
	}{
		{
			name:     "specific class wins",
			markup:   `<body><main>main text</main><div class="job-description">the real description</div></body>`,
			expected: ".job-description",
		},
		{
			name:     "main before article",
			markup:   `<body><article>article text</article><main>main text</main></body>`,
			expected: "main",
		},
		{
			name:     "body as last resort",
			markup:   `<body><p>whatever</p></body>`,
			expected: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, matched := findDescription(parseDoc(t, tt.markup))
			assert.Equal(t, tt.expected, matched)
		})
	}
}

func TestVisibleText(t *testing.T) {
	doc := parseDoc(t, `
		<div class="job-description">
			<h2>About the role</h2>
			<p>We build <b>pipelines</b>.</p>
			<script>ignore.me()</script>
			<style>.x{}</style>
			<ul><li>Go</li><li>SQL</li></ul>
		</div>`)

	text := visibleText(doc.Find(".job-description").First())

	assert.Equal(t, "About the role\nWe build\npipelines\n.\nGo\nSQL", text)
}

func TestVisibleTextNilSelection(t *testing.T) {
	assert.Equal(t, "", visibleText(nil))
}
