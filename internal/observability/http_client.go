package observability

import (
	"net/http"
	"time"

	sentryhttpclient "github.com/getsentry/sentry-go/httpclient"
)

func WrapRoundTripper(base http.RoundTripper, tracePropagationTargets ...string) http.RoundTripper {
	return sentryhttpclient.NewSentryRoundTripper(
		base,
		sentryhttpclient.WithTracePropagationTargets(tracePropagationTargets),
	)
}

// NewHTTPClient builds an outbound client whose requests show up as spans.
func NewHTTPClient(timeout time.Duration, tracePropagationTargets ...string) *http.Client {
	client := &http.Client{
		Transport: WrapRoundTripper(http.DefaultTransport, tracePropagationTargets...),
	}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}
