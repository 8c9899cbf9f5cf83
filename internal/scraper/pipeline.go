package scraper

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-jobsearch-assistant/internal/browser"
	"go-jobsearch-assistant/internal/sites"
	"go-jobsearch-assistant/utils"
)

const (
	listingWaitTimeout = 10 * time.Second
	searchPageWait     = 3 * time.Second
	detailPageWait     = 3 * time.Second

	listingHighlight     = "border: 2px solid #FF5733;"
	descriptionHighlight = "background-color: #FFFFCC;"
)

// Pipeline drives the browser session to extract job listings and details.
//
// One mutex serializes each whole operation: the session renders exactly one
// page at a time, and the background worker must not navigate away between a
// foreground navigation and its parse. Locking individual session calls
// would not be enough.
type Pipeline struct {
	session  *browser.Session
	registry *sites.Registry
	debugger *utils.ScreenShotDebugger

	mu sync.Mutex
}

// NewPipeline wires a pipeline over the shared session. debugger may be nil.
func NewPipeline(session *browser.Session, registry *sites.Registry, debugger *utils.ScreenShotDebugger) *Pipeline {
	return &Pipeline{
		session:  session,
		registry: registry,
		debugger: debugger,
	}
}

// SearchJobs runs one search on the given site and returns the listings in
// document order. Every failure mode degrades to an empty list.
func (p *Pipeline) SearchJobs(siteKey, query, location string) []Job {
	profile, ok := p.registry.Lookup(siteKey)
	if !ok {
		log.Printf("❌ Site %q not found in registry", siteKey)
		return nil
	}

	url := profile.SearchURL(query, location)
	log.Printf("🔍 Searching %s: %s", siteKey, url)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.session.Navigate(url, searchPageWait) {
		return nil
	}

	if err := p.session.WaitFor(profile.ListingSelector, listingWaitTimeout); err != nil {
		log.Printf("⚠️ Timeout waiting for job listings on %s", siteKey)
		p.debugger.CaptureAndLog(p.session.Page(), "listings-timeout-"+siteKey,
			fmt.Sprintf("No listings appeared on %s", siteKey))
		return nil
	}

	//human behavior before reading the page
	p.session.Jiggle()

	content, err := p.session.Content()
	if err != nil {
		log.Printf("❌ Error reading page content from %s: %v", siteKey, err)
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.Printf("❌ Error parsing HTML from %s: %v", siteKey, err)
		return nil
	}

	jobs := extractListings(doc, profile)

	//cosmetic: mark extracted cards in the live browser
	for i := range jobs {
		p.session.HighlightNth(profile.ListingSelector, i, listingHighlight)
	}

	log.Printf("📦 Found %d jobs on %s", len(jobs), siteKey)
	return jobs
}

// JobDetails navigates to the job's page and fills in Description. The input
// is returned unchanged when it has no URL or when navigation fails.
func (p *Pipeline) JobDetails(job Job) Job {
	if job.URL == "" {
		log.Println("⚠️ Job URL is missing, cannot get details")
		return job
	}

	fullURL := detailURL(job)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.session.Navigate(fullURL, detailPageWait) {
		return job
	}

	if err := p.session.WaitFor("body", listingWaitTimeout); err != nil {
		log.Printf("⚠️ Timeout waiting for job page %s", fullURL)
		return job
	}

	content, err := p.session.Content()
	if err != nil {
		log.Printf("❌ Error reading job page %s: %v", fullURL, err)
		return job
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		log.Printf("❌ Error parsing job page %s: %v", fullURL, err)
		return job
	}

	sel, matched := findDescription(doc)
	job.Description = visibleText(sel)

	if matched != "" {
		p.session.HighlightFirst(matched, descriptionHighlight)
	}

	return job
}

// detailURL resolves a job's link to an absolute URL. Relative links are
// anchored at the source site's .com domain.
func detailURL(job Job) string {
	if strings.HasPrefix(job.URL, "http") {
		return job.URL
	}
	return fmt.Sprintf("https://%s.com%s", job.Source, job.URL)
}
