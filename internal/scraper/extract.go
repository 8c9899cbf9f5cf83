// Pure extraction helpers over parsed HTML
// Kept free of browser state so they can be tested against synthetic markup

package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"go-jobsearch-assistant/internal/sites"
)

// descriptionSelectors is the ordered fallback chain for job-detail pages,
// most specific first. "main", "article" and finally "body" close the chain
// so a description is always some string, possibly empty.
var descriptionSelectors = []string{
	".job-description",
	"#job-description",
	".description",
	".job-details",
	"section.description",
	"[data-automation='jobDescriptionText']",
	"main",
	"article",
	"body",
}

// extractListings pulls one Job per listing element, in document order.
// Elements without a title are discarded; everything else yields exactly one
// record, repeated URLs included.
func extractListings(doc *goquery.Document, profile sites.Profile) []Job {
	var jobs []Job

	doc.Find(profile.ListingSelector).Each(func(_ int, sel *goquery.Selection) {
		job, ok := extractJob(sel, profile)
		if !ok {
			return
		}
		jobs = append(jobs, job)
	})

	return jobs
}

// extractJob reads a single listing element. The title is mandatory; company
// and location fall back to sentinel values. The job URL comes from the
// title element's href, falling back to the parent element's href.
func extractJob(sel *goquery.Selection, profile sites.Profile) (Job, bool) {
	titleEl := sel.Find(profile.TitleSelector).First()
	if titleEl.Length() == 0 {
		return Job{}, false
	}

	title := cleanText(titleEl.Text())
	if title == "" {
		return Job{}, false
	}

	jobURL, ok := titleEl.Attr("href")
	if !ok {
		jobURL, _ = titleEl.Parent().Attr("href")
	}

	company := UnknownCompany
	if el := sel.Find(profile.CompanySelector).First(); el.Length() > 0 {
		if text := cleanText(el.Text()); text != "" {
			company = text
		}
	}

	location := UnknownLocation
	if el := sel.Find(profile.LocationSelector).First(); el.Length() > 0 {
		if text := cleanText(el.Text()); text != "" {
			location = text
		}
	}

	return Job{
		Title:    title,
		Company:  company,
		Location: location,
		URL:      jobURL,
		Source:   profile.Key,
	}, true
}

// findDescription walks the fallback chain and returns the first matching
// element along with the selector that matched.
func findDescription(doc *goquery.Document) (*goquery.Selection, string) {
	for _, selector := range descriptionSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel, selector
		}
	}
	return nil, ""
}

// visibleText extracts the visible text of an element, joining text blocks
// with newlines and trimming each. Script and style contents are skipped.
func visibleText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, norm.NFC.String(t))
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

// cleanText normalizes to NFC and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
