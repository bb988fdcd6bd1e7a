package utils

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sigweihq/wcconnect/pkg/constants"
)

// CreateHTTPClientWithTimeouts returns an HTTP client bounded by timeout for the whole request
func CreateHTTPClientWithTimeouts(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			TLSHandshakeTimeout:   constants.TLSHandshakeTimeout,
			ResponseHeaderTimeout: constants.ResponseHeaderTimeout,
			ExpectContinueTimeout: constants.ExpectContinueTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // Disable redirects to prevent redirect-based SSRF
		},
	}
}

// ValidateRPCURL validates that an RPC URL is secure
// Returns error if URL doesn't use HTTPS or WSS (except for localhost/127.0.0.1 for testing)
func ValidateRPCURL(url string) error {
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "wss://") {
		return nil
	}

	// Allow plain http/ws against localhost for local nodes and tests
	for _, scheme := range []string{"http://", "ws://"} {
		if strings.HasPrefix(url, scheme+"localhost") ||
			strings.HasPrefix(url, scheme+"127.0.0.1") ||
			strings.HasPrefix(url, scheme+"[::1]") {
			return nil
		}
	}

	return fmt.Errorf("RPC URL must use HTTPS: %s", url)
}

// IsTemplatedURL reports whether url still contains a placeholder such as ${INFURA_API_KEY}
func IsTemplatedURL(url string) bool {
	return strings.Contains(url, "${")
}
