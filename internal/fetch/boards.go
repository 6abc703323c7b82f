// Package fetch - boards.go classifies posting source URLs by hosting platform.
package fetch

import (
	"net/url"
	"strings"
)

// Platform is the kind of site hosting a job posting.
type Platform string

const (
	// PlatformJobBoard is an aggregator (LinkedIn, Indeed, Glassdoor, ...).
	PlatformJobBoard Platform = "job_board"
	// PlatformATS is a hosted applicant tracking system (Greenhouse, Lever,
	// Workday). Postings here imply a real hiring workflow.
	PlatformATS Platform = "ats"
	// PlatformCompanySite is a careers page on the company's own domain.
	PlatformCompanySite Platform = "company"
	// PlatformUnknown is anything else, including unparseable URLs.
	PlatformUnknown Platform = "unknown"
)

var jobBoardHosts = []string{
	"linkedin.com",
	"indeed.com",
	"glassdoor.com",
	"ziprecruiter.com",
	"monster.com",
	"simplyhired.com",
	"craigslist.org",
}

var atsHosts = []string{
	"greenhouse.io",
	"lever.co",
	"myworkdayjobs.com",
	"workday.com",
	"ashbyhq.com",
	"smartrecruiters.com",
	"icims.com",
}

// DetectPlatform identifies the hosting platform of a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Host)

	for _, board := range jobBoardHosts {
		if hostMatches(host, board) {
			return PlatformJobBoard
		}
	}
	for _, ats := range atsHosts {
		if hostMatches(host, ats) {
			return PlatformATS
		}
	}

	path := strings.ToLower(parsed.Path)
	if strings.HasPrefix(host, "careers.") || strings.HasPrefix(host, "jobs.") ||
		strings.Contains(path, "/careers") || strings.Contains(path, "/jobs") {
		return PlatformCompanySite
	}

	return PlatformUnknown
}

// CompanyDomain extracts the company's own domain from a posting URL, or ""
// when the posting is hosted on a job board or ATS rather than the company
// site.
func CompanyDomain(urlStr string) string {
	platform := DetectPlatform(urlStr)
	if platform != PlatformCompanySite && platform != PlatformUnknown {
		return ""
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "careers.")
	host = strings.TrimPrefix(host, "jobs.")
	return host
}

func hostMatches(host, known string) bool {
	return host == known || strings.HasSuffix(host, "."+known)
}
