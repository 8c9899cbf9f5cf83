// Processor sends structured prompts to the generative model and parses the
// textual replies into typed results. Every failure mode degrades to the
// operation's empty/error result; nothing here raises a fault to the caller.

package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"go-jobsearch-assistant/internal/models"
	"go-jobsearch-assistant/internal/scraper"
)

// marketAnalysisMaxListings bounds prompt size.
const marketAnalysisMaxListings = 20

var errModelUnavailable = errors.New("AI model not available")

// textGenerator is the seam to the model backend: prompt in, free text out.
type textGenerator func(ctx context.Context, prompt string) (string, error)

type Processor struct {
	generate textGenerator //nil when no credential is configured
	closer   func() error
	debug    bool
}

// Close releases the underlying model client, if any.
func (p *Processor) Close() error {
	if p.closer != nil {
		return p.closer()
	}
	return nil
}

// Available reports whether a model backend is configured.
func (p *Processor) Available() bool {
	return p.generate != nil
}

type SkillRating struct {
	Skill     string `json:"skill"`
	Relevance int    `json:"relevance"`
}

type SkillExtraction struct {
	Required  []SkillRating `json:"required"`
	Preferred []SkillRating `json:"preferred"`
	Error     string        `json:"error,omitempty"`
}

type RatedSkill struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"`
}

type Match struct {
	MatchPercentage float64      `json:"match_percentage"`
	MatchingSkills  []RatedSkill `json:"matching_skills"`
	MissingSkills   []RatedSkill `json:"missing_skills"`
	JobSummary      string       `json:"job_summary"`
	Error           string       `json:"error,omitempty"`
}

type Tips struct {
	ResumeTips           []string `json:"resume_tips"`
	CoverLetterTips      []string `json:"cover_letter_tips"`
	InterviewPreparation []string `json:"interview_preparation"`
	Error                string   `json:"error,omitempty"`
}

type SkillDemand struct {
	Skill  string `json:"skill"`
	Demand string `json:"demand"`
}

type MarketAnalysis struct {
	MarketSummary  string        `json:"market_summary"`
	Trends         []string      `json:"trends"`
	InDemandSkills []SkillDemand `json:"in_demand_skills"`
	SalaryInsights string        `json:"salary_insights"`
	Error          string        `json:"error,omitempty"`
}

// ExtractSkills pulls required and preferred skills out of a job description.
func (p *Processor) ExtractSkills(ctx context.Context, jobDescription string) SkillExtraction {
	prompt := fmt.Sprintf(`Extract skills from this job description, categorizing them as either "required" or "preferred".
For each skill, assign a relevance score from 1-10.

Job Description:
%s

Format your response as JSON with the following structure:
{
    "required": [
        {"skill": "skill name", "relevance": 8}
    ],
    "preferred": [
        {"skill": "skill name", "relevance": 6}
    ]
}

Do not include any explanations, only provide the JSON response.`, jobDescription)

	var out SkillExtraction
	if err := p.run(ctx, prompt, &out); err != nil {
		log.Printf("⚠️ Error extracting skills: %v", err)
		return SkillExtraction{
			Required:  []SkillRating{},
			Preferred: []SkillRating{},
			Error:     err.Error(),
		}
	}
	if out.Required == nil {
		out.Required = []SkillRating{}
	}
	if out.Preferred == nil {
		out.Preferred = []SkillRating{}
	}
	return out
}

// CalculateMatch scores how well candidate skills cover a job description.
func (p *Processor) CalculateMatch(ctx context.Context, jobDescription string, candidateSkills []string) Match {
	prompt := fmt.Sprintf(`Compare the job description with the candidate's skills and calculate a match percentage.
Identify skills that match and skills that are missing.

Job Description:
%s

Candidate Skills:
%s

Format your response as JSON with the following structure:
{
    "match_percentage": 75,
    "matching_skills": [
        {"skill": "Python", "importance": "high"}
    ],
    "missing_skills": [
        {"skill": "AWS", "importance": "medium"}
    ],
    "job_summary": "Brief 1-2 sentence summary of the position"
}

Do not include any explanations, only provide the JSON response.`, jobDescription, strings.Join(candidateSkills, ", "))

	var out Match
	if err := p.run(ctx, prompt, &out); err != nil {
		log.Printf("⚠️ Error calculating job match: %v", err)
		return Match{
			MatchingSkills: []RatedSkill{},
			MissingSkills:  []RatedSkill{},
			Error:          err.Error(),
		}
	}
	if out.MatchingSkills == nil {
		out.MatchingSkills = []RatedSkill{}
	}
	if out.MissingSkills == nil {
		out.MissingSkills = []RatedSkill{}
	}
	return out
}

// GenerateApplicationTips suggests resume, cover letter and interview angles
// for one job given the candidate's profile.
func (p *Processor) GenerateApplicationTips(ctx context.Context, jobDescription string, profile *models.Profile) Tips {
	profileText := "Not specified"
	if profile != nil {
		profileText = fmt.Sprintf("Name: %s\nSkills: %s\nExperience: %s\nEducation: %s",
			orDefault(profile.Name), orDefault(profile.Skills),
			orDefault(profile.Experience), orDefault(profile.Education))
	}

	prompt := fmt.Sprintf(`Provide application tips for this job based on the candidate's profile.
Include suggestions for resume customization and cover letter points.

Job Description:
%s

Candidate Profile:
%s

Format your response as JSON with the following structure:
{
    "resume_tips": [
        "Specific tip for resume customization"
    ],
    "cover_letter_tips": [
        "Specific point to address in cover letter"
    ],
    "interview_preparation": [
        "Specific area to prepare for interview questions"
    ]
}

Do not include any explanations, only provide the JSON response.`, jobDescription, profileText)

	var out Tips
	if err := p.run(ctx, prompt, &out); err != nil {
		log.Printf("⚠️ Error generating application tips: %v", err)
		return Tips{
			ResumeTips:           []string{},
			CoverLetterTips:      []string{},
			InterviewPreparation: []string{},
			Error:                err.Error(),
		}
	}
	if out.ResumeTips == nil {
		out.ResumeTips = []string{}
	}
	if out.CoverLetterTips == nil {
		out.CoverLetterTips = []string{}
	}
	if out.InterviewPreparation == nil {
		out.InterviewPreparation = []string{}
	}
	return out
}

// AnalyzeMarket looks across up to 20 listings for trends. Zero listings
// short-circuit to the error shape without invoking the model.
func (p *Processor) AnalyzeMarket(ctx context.Context, listings []scraper.Job, location string) MarketAnalysis {
	if p.generate == nil || len(listings) == 0 {
		log.Println("⚠️ AI model not available or no job listings provided")
		return MarketAnalysis{
			Trends:         []string{},
			InDemandSkills: []SkillDemand{},
			Error:          "AI model not available or no job listings",
		}
	}

	if len(listings) > marketAnalysisMaxListings {
		listings = listings[:marketAnalysisMaxListings]
	}
	titles := make([]string, 0, len(listings))
	companies := make([]string, 0, len(listings))
	for _, job := range listings {
		titles = append(titles, job.Title)
		companies = append(companies, job.Company)
	}
	if location == "" {
		location = "Not specified"
	}

	prompt := fmt.Sprintf(`Analyze these job titles and companies to identify trends in the job market.
Identify in-demand skills, common job requirements, and salary ranges if possible.

Job Titles:
%s

Companies:
%s

Location: %s

Format your response as JSON with the following structure:
{
    "market_summary": "Brief 2-3 sentence overview of the job market",
    "trends": [
        "Specific trend in the job market"
    ],
    "in_demand_skills": [
        {"skill": "Skill name", "demand": "high/medium/low"}
    ],
    "salary_insights": "Brief 1-2 sentence insight about salary ranges if available"
}

Do not include any explanations, only provide the JSON response.`,
		strings.Join(titles, "\n"), strings.Join(companies, ", "), location)

	var out MarketAnalysis
	if err := p.run(ctx, prompt, &out); err != nil {
		log.Printf("⚠️ Error analyzing job market: %v", err)
		return MarketAnalysis{
			Trends:         []string{},
			InDemandSkills: []SkillDemand{},
			Error:          err.Error(),
		}
	}
	if out.Trends == nil {
		out.Trends = []string{}
	}
	if out.InDemandSkills == nil {
		out.InDemandSkills = []SkillDemand{}
	}
	return out
}

// run requests a completion and decodes the JSON payload of the reply into
// out. Decoding into the typed result doubles as schema validation.
func (p *Processor) run(ctx context.Context, prompt string, out interface{}) error {
	if p.generate == nil {
		return errModelUnavailable
	}

	reply, err := p.generate(ctx, prompt)
	if err != nil {
		return err
	}

	payload := extractJSON(reply)
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		if p.debug {
			log.Printf("🐛 Unparseable model reply: %s", reply)
		}
		return fmt.Errorf("parse model reply: %w", err)
	}
	return nil
}

var fencedJSONRe = regexp.MustCompile("(?s)```json(.*?)```")

// extractJSON returns the interior of the first fenced JSON block if there
// is one, otherwise the whole reply, with any stray fence markers stripped.
func extractJSON(reply string) string {
	text := reply
	if m := fencedJSONRe.FindStringSubmatch(reply); m != nil {
		text = m[1]
	}
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func orDefault(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}
