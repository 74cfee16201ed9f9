package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
)

func TestRedactingLogFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := redactingLogFormatter{
		LogFormatter: &middleware.DefaultLogFormatter{Logger: log.New(&buf, "", 0), NoColor: true},
	}

	req := httptest.NewRequest("GET", "/ws?token=secret-token-value&x=1", nil)
	entry := formatter.NewLogEntry(req)
	entry.Write(http.StatusSwitchingProtocols, 0, http.Header{}, 0, nil)

	require.NotContains(t, buf.String(), "secret-token-value")
	require.Contains(t, buf.String(), "token=REDACTED")
	require.Equal(t, "secret-token-value", req.URL.Query().Get("token"), "the handler still sees the real token")
}

func TestRedactRequest_LeavesPlainRequestsAlone(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard?page=2", nil)
	require.Same(t, req, redactRequest(req))
}
