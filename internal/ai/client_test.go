package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobsearch-assistant/internal/models"
	"go-jobsearch-assistant/internal/scraper"
)

func stubProcessor(reply string, err error) *Processor {
	return &Processor{generate: func(context.Context, string) (string, error) {
		return reply, err
	}}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected string
	}{
		{
			name:     "fenced json block",
			reply:    "Here you go:\n```json\n{\"a\": 1}\n```\nanything else",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare json",
			reply:    "  {\"a\": 1}  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "untagged fences stripped",
			reply:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSON(tt.reply))
		})
	}
}

func TestExtractSkillsFencedAndBareAgree(t *testing.T) {
	payload := `{"required": [{"skill": "Go", "relevance": 9}], "preferred": [{"skill": "Docker", "relevance": 5}]}`

	fenced := stubProcessor("```json\n"+payload+"\n```", nil).ExtractSkills(context.Background(), "desc")
	bare := stubProcessor(payload, nil).ExtractSkills(context.Background(), "desc")

	assert.Equal(t, bare, fenced)
	assert.Empty(t, fenced.Error)
	assert.Equal(t, []SkillRating{{Skill: "Go", Relevance: 9}}, fenced.Required)
	assert.Equal(t, []SkillRating{{Skill: "Docker", Relevance: 5}}, fenced.Preferred)
}

func TestExtractSkillsModelUnavailable(t *testing.T) {
	p := &Processor{}

	result := p.ExtractSkills(context.Background(), "desc")

	assert.NotEmpty(t, result.Error)
	assert.NotNil(t, result.Required)
	assert.NotNil(t, result.Preferred)
	assert.Empty(t, result.Required)
	assert.False(t, p.Available())
}

func TestExtractSkillsUnparseableReply(t *testing.T) {
	result := stubProcessor("I could not find any skills, sorry!", nil).ExtractSkills(context.Background(), "desc")

	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Required)
	assert.Empty(t, result.Preferred)
}

func TestCalculateMatch(t *testing.T) {
	reply := "```json\n" + `{
		"match_percentage": 75,
		"matching_skills": [{"skill": "Go", "importance": "high"}],
		"missing_skills": [{"skill": "AWS", "importance": "medium"}],
		"job_summary": "Backend role."
	}` + "\n```"

	result := stubProcessor(reply, nil).CalculateMatch(context.Background(), "desc", []string{"Go", "SQL"})

	assert.Empty(t, result.Error)
	assert.InDelta(t, 75, result.MatchPercentage, 0.001)
	assert.Equal(t, "Backend role.", result.JobSummary)
	assert.Len(t, result.MatchingSkills, 1)
	assert.Len(t, result.MissingSkills, 1)
}

func TestCalculateMatchGeneratorError(t *testing.T) {
	result := stubProcessor("", errors.New("quota exceeded")).CalculateMatch(context.Background(), "desc", nil)

	assert.Contains(t, result.Error, "quota exceeded")
	assert.Zero(t, result.MatchPercentage)
	assert.NotNil(t, result.MatchingSkills)
	assert.NotNil(t, result.MissingSkills)
}

func TestGenerateApplicationTips(t *testing.T) {
	reply := `{"resume_tips": ["Lead with Go"], "cover_letter_tips": ["Mention scale"], "interview_preparation": ["Review concurrency"]}`

	result := stubProcessor(reply, nil).GenerateApplicationTips(context.Background(), "desc", &models.Profile{
		Name:   "Sam",
		Skills: "Go, SQL",
	})

	assert.Empty(t, result.Error)
	assert.Equal(t, []string{"Lead with Go"}, result.ResumeTips)
	assert.Equal(t, []string{"Mention scale"}, result.CoverLetterTips)
	assert.Equal(t, []string{"Review concurrency"}, result.InterviewPreparation)
}

func TestGenerateApplicationTipsNilProfile(t *testing.T) {
	reply := `{"resume_tips": [], "cover_letter_tips": [], "interview_preparation": []}`

	result := stubProcessor(reply, nil).GenerateApplicationTips(context.Background(), "desc", nil)

	assert.Empty(t, result.Error)
}

func TestAnalyzeMarketZeroListingsSkipsModel(t *testing.T) {
	called := false
	p := &Processor{generate: func(context.Context, string) (string, error) {
		called = true
		return "{}", nil
	}}

	result := p.AnalyzeMarket(context.Background(), nil, "Berlin")

	assert.False(t, called)
	assert.NotEmpty(t, result.Error)
	assert.NotNil(t, result.Trends)
	assert.NotNil(t, result.InDemandSkills)
}

func TestAnalyzeMarketTruncatesListings(t *testing.T) {
	var prompts []string
	p := &Processor{generate: func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		return `{"market_summary": "ok", "trends": [], "in_demand_skills": [], "salary_insights": ""}`, nil
	}}

	listings := make([]scraper.Job, 30)
	for i := range listings {
		listings[i] = scraper.Job{Title: "T", Company: "C"}
	}

	result := p.AnalyzeMarket(context.Background(), listings, "")

	assert.Empty(t, result.Error)
	assert.Len(t, prompts, 1)
	//20 titles, one per line, not 30
	assert.Equal(t, 20, strings.Count(prompts[0], "\nT"))
}
