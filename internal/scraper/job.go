// Shared record types flowing between pipeline, worker, AI and storage

package scraper

// Sentinel values substituted when an optional field cannot be extracted.
const (
	UnknownCompany  = "Unknown Company"
	UnknownLocation = "Unknown Location"
)

// Job is one scraped listing. Description starts empty and is filled in by
// the detail-enrichment step.
type Job struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

// SearchRequest is the immutable set of parameters one search ran with.
type SearchRequest struct {
	Site     string
	Query    string
	Location string
}

// QueueItem pairs a job with the search that produced it. Ownership moves to
// the worker on Enqueue.
type QueueItem struct {
	Job    Job
	Params SearchRequest
}
