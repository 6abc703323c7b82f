package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ghost-job-detector/internal/fetch"
	"github.com/jonathan/ghost-job-detector/internal/types"
)

// fakeFetch serves canned pages by URL. URLs not in the map behave like a
// 404; failAll simulates a transport-level outage.
type fakeFetch struct {
	pages   map[string]*fetch.Result
	failAll bool
	calls   int
}

func (f *fakeFetch) FetchText(_ context.Context, urlStr string) (*fetch.Result, error) {
	f.calls++
	if f.failAll {
		return nil, &fetch.Error{URL: urlStr, Message: "connection refused"}
	}
	if page, ok := f.pages[urlStr]; ok {
		return page, nil
	}
	return &fetch.Result{URL: urlStr, StatusCode: 404}, &fetch.Error{URL: urlStr, Message: "HTTP status 404"}
}

func verificationFacts() *types.JobFacts {
	return &types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Acme Inc.",
		Description: "Build Go services.",
	}
}

func TestVerificationCorroboratedPosting(t *testing.T) {
	fetcher := &fakeFetch{pages: map[string]*fetch.Result{
		"https://acme.com/careers": {
			URL:        "https://acme.com/careers",
			StatusCode: 200,
			Text: "Acme open positions. Apply today. Benefits included.\n" +
				"Backend Engineer, Platform team.",
		},
	}}
	v := NewCompanySiteVerification(fetcher, time.Minute)

	result := v.Evaluate(context.Background(), verificationFacts())

	require.Equal(t, types.StatusOK, result.Status)
	assert.InDelta(t, 0.2, result.Probability, 1e-9)
	assert.Contains(t, result.PositiveFactors(), "Posting corroborated on company careers site")
}

func TestVerificationCareersPageWithoutRole(t *testing.T) {
	fetcher := &fakeFetch{pages: map[string]*fetch.Result{
		"https://globex.com/careers": {
			URL:        "https://globex.com/careers",
			StatusCode: 200,
			Text:       "Join our team. Apply for open roles.",
		},
	}}
	v := NewCompanySiteVerification(fetcher, time.Minute)

	result := v.Evaluate(context.Background(), &types.JobFacts{
		Title:       "Backend Engineer",
		Company:     "Globex LLC",
		Description: "Build Go services.",
	})

	require.Equal(t, types.StatusOK, result.Status)
	assert.InDelta(t, 0.45, result.Probability, 1e-9)
}

func TestVerificationNoTraceOnCareersPage(t *testing.T) {
	fetcher := &fakeFetch{pages: map[string]*fetch.Result{
		"https://acme.com/careers": {
			URL:        "https://acme.com/careers",
			StatusCode: 200,
			Text:       "Welcome to our website.",
		},
	}}
	v := NewCompanySiteVerification(fetcher, time.Minute)

	result := v.Evaluate(context.Background(), verificationFacts())

	require.Equal(t, types.StatusOK, result.Status)
	assert.InDelta(t, 0.6, result.Probability, 1e-9)
	assert.Contains(t, result.RiskFactors(), "Company careers site shows no trace of this posting")
}

func TestVerificationNoCareersPageFound(t *testing.T) {
	fetcher := &fakeFetch{} // every path 404s
	v := NewCompanySiteVerification(fetcher, time.Minute)

	result := v.Evaluate(context.Background(), verificationFacts())

	require.Equal(t, types.StatusOK, result.Status)
	assert.InDelta(t, 0.65, result.Probability, 1e-9)
	assert.Contains(t, result.RiskFactors(), "No careers page found on company domain")
	assert.Equal(t, len(careerPaths), fetcher.calls)
}

func TestVerificationDomainUnreachable(t *testing.T) {
	fetcher := &fakeFetch{failAll: true}
	v := NewCompanySiteVerification(fetcher, time.Minute)

	result := v.Evaluate(context.Background(), verificationFacts())

	assert.Equal(t, types.StatusUnavailable, result.Status)
	assert.Contains(t, result.Reason, "unreachable")
}

func TestVerificationDomainSpacing(t *testing.T) {
	fetcher := &fakeFetch{}
	v := NewCompanySiteVerification(fetcher, 30*time.Second)

	clock := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	v.SetClock(func() time.Time { return clock })

	first := v.Evaluate(context.Background(), verificationFacts())
	require.Equal(t, types.StatusOK, first.Status)

	// Inside the spacing window the probe short-circuits, no fetch happens.
	callsBefore := fetcher.calls
	second := v.Evaluate(context.Background(), verificationFacts())
	assert.Equal(t, types.StatusUnavailable, second.Status)
	assert.Contains(t, second.Reason, "probed too recently")
	assert.Equal(t, callsBefore, fetcher.calls)

	clock = clock.Add(31 * time.Second)
	third := v.Evaluate(context.Background(), verificationFacts())
	assert.Equal(t, types.StatusOK, third.Status)
}

func TestVerificationResetClearsSpacing(t *testing.T) {
	fetcher := &fakeFetch{}
	v := NewCompanySiteVerification(fetcher, time.Hour)

	first := v.Evaluate(context.Background(), verificationFacts())
	require.Equal(t, types.StatusOK, first.Status)

	v.Reset()
	second := v.Evaluate(context.Background(), verificationFacts())
	assert.Equal(t, types.StatusOK, second.Status)
}

func TestVerificationUnavailableWithoutFetcher(t *testing.T) {
	v := NewCompanySiteVerification(nil, 0)

	result := v.Evaluate(context.Background(), verificationFacts())
	assert.Equal(t, types.StatusUnavailable, result.Status)
}

func TestVerificationUnavailableWithoutDomain(t *testing.T) {
	v := NewCompanySiteVerification(&fakeFetch{}, 0)

	result := v.Evaluate(context.Background(), &types.JobFacts{
		Title:     "Backend Engineer",
		Company:   "",
		SourceURL: "https://www.linkedin.com/jobs/view/123",
	})
	assert.Equal(t, types.StatusUnavailable, result.Status)
}

func TestPresenceScore(t *testing.T) {
	facts := verificationFacts()

	full := presenceScore("Acme careers. Apply now. Open positions. Benefits. Backend Engineer.", facts)
	assert.InDelta(t, 1.0, full, 1e-9)

	none := presenceScore("Welcome to our website.", facts)
	assert.InDelta(t, 0.0, none, 1e-9)
}
