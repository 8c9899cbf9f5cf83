package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobDetailsWithoutURLIsNoOp(t *testing.T) {
	//no session needed: a job without a URL must come back unchanged
	//before the browser is touched
	p := &Pipeline{}
	job := Job{Title: "Backend Engineer", Company: "Acme", Source: "indeed"}

	assert.Equal(t, job, p.JobDetails(job))
}

func TestDetailURL(t *testing.T) {
	tests := []struct {
		name     string
		job      Job
		expected string
	}{
		{
			name:     "relative link anchored at source domain",
			job:      Job{URL: "/jobs/42", Source: "indeed"},
			expected: "https://indeed.com/jobs/42",
		},
		{
			name:     "https link kept as is",
			job:      Job{URL: "https://www.glassdoor.com/job/7", Source: "glassdoor"},
			expected: "https://www.glassdoor.com/job/7",
		},
		{
			name:     "http link kept as is",
			job:      Job{URL: "http://example.com/j/1", Source: "linkedin"},
			expected: "http://example.com/j/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detailURL(tt.job))
		})
	}
}
