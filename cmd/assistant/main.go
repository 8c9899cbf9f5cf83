package main

import (
	"context"
	"encoding/json"
	"fmt"
	"go-jobsearch-assistant/internal/ai"
	"go-jobsearch-assistant/internal/browser"
	"go-jobsearch-assistant/internal/config"
	"go-jobsearch-assistant/internal/database"
	"go-jobsearch-assistant/internal/dedup"
	"go-jobsearch-assistant/internal/models"
	"go-jobsearch-assistant/internal/notify"
	"go-jobsearch-assistant/internal/scraper"
	"go-jobsearch-assistant/internal/sites"
	"go-jobsearch-assistant/utils"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	defaultUsername = "assistant"
	resultTimeout   = 2 * time.Minute
	stopTimeout     = 10 * time.Second
)

func main() {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Query: %q Location: %q", cfg.Query, cfg.Location)

	//load site registry (defaults + optional YAML overlay)
	registry, err := sites.Load(cfg.SitesPath)
	if err != nil {
		log.Fatalf("❌ Failed to load site registry: %v", err)
	}
	siteKeys := cfg.Sites
	if len(siteKeys) == 0 {
		siteKeys = registry.Keys()
	}

	//open the local store
	store, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer store.Close()
	userID := ensureUser(store)

	//setup context with timeout = 10 mins
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting Job Search Assistant (Go version)...")

	//init AI processor (degrades gracefully without a key)
	processor := ai.NewProcessor(ctx, cfg)
	defer processor.Close()

	//init telegram notifier (optional)
	notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram notifier: %v. Continuing without notifications.", err)
		notifier = nil
	}

	//init browser session
	session, err := browser.NewSession(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init browser: %v", err)
	}
	defer session.Close()

	var debugger *utils.ScreenShotDebugger
	if cfg.Debug {
		debugger = utils.NewScreenShotDebugger()
	}

	pipeline := scraper.NewPipeline(session, registry, debugger)

	//start the background detail worker before searching
	worker := scraper.NewWorker(pipeline)
	worker.Start()

	//run searches across all sites
	var found []scraper.Job
	for _, site := range siteKeys {
		log.Printf("\n▶️ Searching %s for %q", site, cfg.Query)
		jobs := pipeline.SearchJobs(site, cfg.Query, cfg.Location)
		store.LogSearch(userID, cfg.Query, cfg.Location, len(jobs))
		log.Printf("✅ %s finished. Found %d jobs.", site, len(jobs))
		found = append(found, jobs...)
	}

	//drop repeated URLs across the aggregated results, then enqueue
	toEnqueue := dedupeByURL(found)
	if len(toEnqueue) < len(found) {
		log.Printf("🔍 Dropped %d repeated listings", len(found)-len(toEnqueue))
	}
	for _, job := range toEnqueue {
		worker.Enqueue(job, scraper.SearchRequest{Site: job.Source, Query: cfg.Query, Location: cfg.Location})
	}
	queued := len(toEnqueue)
	log.Printf("\n📦 Total jobs queued for enrichment: %d", queued)

	//drain enriched results
	var allJobs []scraper.Job
	for i := 0; i < queued; i++ {
		job := worker.PollResult(resultTimeout)
		if job == nil {
			log.Printf("⚠️ Timed out waiting for enrichment. Got %d/%d results.", len(allJobs), queued)
			break
		}
		allJobs = append(allJobs, *job)
	}

	if !worker.Stop(stopTimeout) {
		log.Println("⚠️ Worker did not stop cleanly.")
	}

	//persist jobs and their extracted skills
	for _, job := range allJobs {
		jobID := store.AddJob(models.Job{
			UserID:      userID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Description: job.Description,
			URL:         job.URL,
			Source:      job.Source,
		})
		if jobID == 0 || job.Description == "" {
			continue
		}
		extraction := processor.ExtractSkills(ctx, job.Description)
		if extraction.Error != "" {
			continue
		}
		for _, s := range extraction.Required {
			store.AddJobSkill(jobID, s.Skill, true)
		}
		for _, s := range extraction.Preferred {
			store.AddJobSkill(jobID, s.Skill, false)
		}
	}

	//profile-based analysis for the best lead
	if profile := store.Profile(userID); profile != nil && len(allJobs) > 0 {
		lead := allJobs[0]
		if lead.Description != "" {
			match := processor.CalculateMatch(ctx, lead.Description, splitSkills(profile.Skills))
			if match.Error == "" {
				log.Printf("🎯 Match for %q @ %s: %.0f%%", lead.Title, lead.Company, match.MatchPercentage)
			}
			tips := processor.GenerateApplicationTips(ctx, lead.Description, profile)
			if tips.Error == "" {
				log.Printf("💡 %d resume tips, %d cover letter tips, %d interview notes",
					len(tips.ResumeTips), len(tips.CoverLetterTips), len(tips.InterviewPreparation))
			}
		}
	}

	//market analysis across everything collected
	analysis := processor.AnalyzeMarket(ctx, allJobs, cfg.Location)
	if analysis.Error == "" && analysis.MarketSummary != "" {
		log.Printf("📈 Market: %s", analysis.MarketSummary)
		for _, s := range analysis.InDemandSkills {
			log.Printf("  • %s (%s demand)", s.Skill, s.Demand)
		}
	}

	//dedup against previously notified jobs
	cache := dedup.NewNotifiedCache(cfg.CachePath)
	var unseenJobs []scraper.Job
	for _, job := range allJobs {
		if job.URL != "" && !cache.Seen(job.URL) {
			unseenJobs = append(unseenJobs, job)
		}
	}
	log.Printf("🔍 Deduplication: %d total -> %d unseen jobs", len(allJobs), len(unseenJobs))

	//send new jobs to telegram
	if notifier != nil && len(unseenJobs) > 0 {
		log.Printf("📊 Found %d NEW jobs to send", len(unseenJobs))
		var sentURLs []string
		for _, job := range unseenJobs {
			if err := notifier.SendJob(job); err != nil {
				log.Printf("⚠️ Failed to send job to Telegram: %v", err)
				continue
			}
			sentURLs = append(sentURLs, job.URL)
			//1 second delay to avoid 429
			time.Sleep(1 * time.Second)
		}
		cache.Remember(sentURLs)
		log.Printf("💾 Marked %d jobs as notified", len(sentURLs))

		statusMsg := fmt.Sprintf("✅ Found %d new jobs, sent %d.", len(unseenJobs), len(sentURLs))
		if err := notifier.SendStatus(statusMsg); err != nil {
			log.Printf("⚠️ Failed to send status to Telegram: %v", err)
		}
	}

	//save results
	saveJobs(allJobs)

	log.Println("🏁 Execution finished.")
}

// ensureUser looks up the local user, creating it on first run.
func ensureUser(store *database.Store) int64 {
	if u := store.UserByUsername(defaultUsername); u != nil {
		return u.ID
	}
	id := store.AddUser(defaultUsername, defaultUsername+"@localhost", "local")
	if id == 0 {
		log.Fatalf("❌ Failed to create local user %q", defaultUsername)
	}
	log.Printf("👤 Created local user %q (id=%d)", defaultUsername, id)
	return id
}

// dedupeByURL keeps the first record per URL; records without a URL all pass.
func dedupeByURL(jobs []scraper.Job) []scraper.Job {
	seenURLs := mapset.NewSet[string]()
	var out []scraper.Job
	for _, job := range jobs {
		if job.URL != "" && !seenURLs.Add(job.URL) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func splitSkills(skills string) []string {
	var out []string
	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func saveJobs(jobs []scraper.Job) {
	if len(jobs) == 0 {
		log.Println("ℹ️ No jobs to save.")
		return
	}

	//create logs directory if not exists
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create logs directory: %v", err)
		return
	}

	//gen filename: job-search-YYYY-MM-DD.json
	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(logDir, filename)

	data, err := json.MarshalIndent(jobs, "", " ")
	if err != nil {
		log.Printf("⚠️ Failed to marshal jobs to JSON: %v", err)
		return
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		log.Printf("⚠️ Failed to write logs file: %v", err)
		return
	}

	log.Printf("📁 Results saved to %s", filePath)
}
