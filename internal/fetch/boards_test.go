package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want Platform
	}{
		{"linkedin", "https://www.linkedin.com/jobs/view/123", PlatformJobBoard},
		{"indeed", "https://indeed.com/viewjob?jk=abc", PlatformJobBoard},
		{"glassdoor", "https://www.glassdoor.com/job-listing/x", PlatformJobBoard},
		{"greenhouse", "https://boards.greenhouse.io/example/jobs/42", PlatformATS},
		{"lever", "https://jobs.lever.co/example/uuid", PlatformATS},
		{"workday", "https://example.wd1.myworkdayjobs.com/careers/job/1", PlatformATS},
		{"careers subdomain", "https://careers.example.com/openings/7", PlatformCompanySite},
		{"careers path", "https://example.com/careers/backend-engineer", PlatformCompanySite},
		{"plain site", "https://example.com/blog/post", PlatformUnknown},
		{"garbage", "not a url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestCompanyDomain(t *testing.T) {
	assert.Equal(t, "example.com", CompanyDomain("https://careers.example.com/jobs/1"))
	assert.Equal(t, "example.com", CompanyDomain("https://www.example.com/careers/1"))

	// Board- and ATS-hosted postings carry no usable company domain.
	assert.Equal(t, "", CompanyDomain("https://www.linkedin.com/jobs/view/123"))
	assert.Equal(t, "", CompanyDomain("https://boards.greenhouse.io/example/jobs/42"))
}

func TestExtractText_RemovesNoise(t *testing.T) {
	html := `<html><body>
		<nav>Home | About</nav>
		<main><p>We are hiring a backend engineer.</p></main>
		<footer>© Example</footer>
	</body></html>`

	text, err := ExtractText(html)
	assert.NoError(t, err)
	assert.Contains(t, text, "backend engineer")
	assert.NotContains(t, text, "Home | About")
}
