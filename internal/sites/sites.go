// Static registry of supported job sites
// Each profile maps a site key to a search URL template and CSS selectors

package sites

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes how to search one job site and pick listings apart.
// URL must contain the {query} placeholder; {location} is optional.
type Profile struct {
	Key              string `yaml:"-"`
	URL              string `yaml:"url"`
	ListingSelector  string `yaml:"job_listing_selector"`
	TitleSelector    string `yaml:"job_title_selector"`
	CompanySelector  string `yaml:"company_selector"`
	LocationSelector string `yaml:"location_selector"`
}

type Registry struct {
	profiles map[string]Profile
}

// Default returns the compiled-in registry.
func Default() *Registry {
	r := &Registry{profiles: map[string]Profile{}}
	r.add(Profile{
		Key:              "linkedin",
		URL:              "https://www.linkedin.com/jobs/search/?keywords={query}&location={location}",
		ListingSelector:  ".job-search-card",
		TitleSelector:    ".base-search-card__title",
		CompanySelector:  ".base-search-card__subtitle",
		LocationSelector: ".job-search-card__location",
	})
	r.add(Profile{
		Key:              "indeed",
		URL:              "https://www.indeed.com/jobs?q={query}&l={location}",
		ListingSelector:  ".job_seen_beacon",
		TitleSelector:    ".jobTitle",
		CompanySelector:  ".companyName",
		LocationSelector: ".companyLocation",
	})
	r.add(Profile{
		Key:              "glassdoor",
		URL:              "https://www.glassdoor.com/Job/jobs.htm?sc.keyword={query}&locT=C&locId=1147401",
		ListingSelector:  ".react-job-listing",
		TitleSelector:    ".job-title",
		CompanySelector:  ".employer-name",
		LocationSelector: ".location",
	})
	return r
}

// Load builds the default registry and overlays profiles from a YAML file
// keyed by site id. An empty path returns the defaults unchanged.
func Load(path string) (*Registry, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites config: %w", err)
	}

	overlay := map[string]Profile{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse sites config: %w", err)
	}

	for key, p := range overlay {
		p.Key = key
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("site %q: %w", key, err)
		}
		r.profiles[key] = p
	}
	return r, nil
}

func (r *Registry) add(p Profile) {
	r.profiles[p.Key] = p
}

func (r *Registry) Lookup(key string) (Profile, bool) {
	p, ok := r.profiles[key]
	return p, ok
}

// Keys returns the registered site keys in stable order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SearchURL substitutes query and location into the URL template.
// Spaces become "+"; an absent location substitutes the empty string.
func (p Profile) SearchURL(query, location string) string {
	return strings.NewReplacer(
		"{query}", plusEncode(query),
		"{location}", plusEncode(location),
	).Replace(p.URL)
}

func (p Profile) validate() error {
	if !strings.Contains(p.URL, "{query}") {
		return fmt.Errorf("url template must contain {query}")
	}
	if p.ListingSelector == "" {
		return fmt.Errorf("job_listing_selector is required")
	}
	return nil
}

func plusEncode(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
}
