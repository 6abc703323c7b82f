package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 60, Window: time.Minute, Burst: 2},
		},
	}
}

func TestLimiterBurstThenDeny(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)

	allowed, info := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 60, info.Limit)
	assert.GreaterOrEqual(t, info.RetryAfter, time.Duration(0))
}

func TestLimiterIsolatesClients(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for range 2 {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		require.True(t, allowed)
	}
	denied, _ := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.False(t, denied)

	allowed, _ := l.Allow("5.6.7.8", "/analyze", "POST")
	assert.True(t, allowed)
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for range 1000 {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	ec := MatchEndpoint("/analyze", "POST", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 30, ec.Limit)

	// Health check is never limited.
	ec = MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 0, ec.Limit)

	// Unknown endpoints fall back to the default bucket.
	assert.Nil(t, MatchEndpoint("/nope", "GET", configs))

	// Method must match.
	assert.Nil(t, MatchEndpoint("/analyze", "GET", configs))
}
