package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noFlushWriter struct {
	header http.Header
}

func (w *noFlushWriter) Header() http.Header { return w.header }

func (w *noFlushWriter) Write(b []byte) (int, error) { return len(b), nil }

func (w *noFlushWriter) WriteHeader(int) {}

func TestSSEWriter(t *testing.T) {
	w := httptest.NewRecorder()

	sse, err := NewSSEWriter(w)
	require.NoError(t, err)
	require.NoError(t, sse.WriteEvent("item", map[string]int{"index": 1}))
	sse.WriteError("SESSION_EXPIRED", "expired")

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.True(t, w.Flushed)
	assert.Equal(t,
		"event: item\ndata: {\"index\":1}\n\n"+
			"event: error\ndata: {\"error\":\"SESSION_EXPIRED\",\"message\":\"expired\"}\n\n",
		w.Body.String())
}

func TestSSEWriter_RequiresFlusher(t *testing.T) {
	_, err := NewSSEWriter(&noFlushWriter{header: http.Header{}})
	assert.Error(t, err)
}
