package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriterFramesMultilineData(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewSSEWriter(rec)

	require.NoError(t, w.Write("results", "<p>a</p>\n<p>b</p>"))
	require.NoError(t, w.Close())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		"event: results\ndata: <p>a</p>\ndata: <p>b</p>\n\ndata: [DONE]\n\n",
		rec.Body.String())
}

func TestNewHTTPClientTimeout(t *testing.T) {
	assert.Zero(t, NewHTTPClient(0).Timeout)
	assert.Equal(t, 3*time.Second, NewHTTPClient(3*time.Second).Timeout)
}
