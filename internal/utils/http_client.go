package utils

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the client used for backend calls. A zero timeout
// leaves requests bounded only by the transport's own limits.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
