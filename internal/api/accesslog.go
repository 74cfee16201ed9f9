package api

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// redactedQueryParams never reach the access log in clear text.
var redactedQueryParams = []string{"token"}

// redactingLogFormatter wraps chi's formatter and masks credentials carried
// in the query string, such as the websocket access token.
type redactingLogFormatter struct {
	middleware.LogFormatter
}

func newAccessLogger() func(http.Handler) http.Handler {
	return middleware.RequestLogger(redactingLogFormatter{
		LogFormatter: &middleware.DefaultLogFormatter{
			Logger: log.New(os.Stdout, "", log.LstdFlags),
		},
	})
}

func (f redactingLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return f.LogFormatter.NewLogEntry(redactRequest(r))
}

func redactRequest(r *http.Request) *http.Request {
	q := r.URL.Query()
	changed := false
	for _, name := range redactedQueryParams {
		if q.Has(name) {
			q.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return r
	}

	u := *r.URL
	u.RawQuery = q.Encode()
	clone := r.WithContext(r.Context())
	clone.URL = &u
	clone.RequestURI = u.RequestURI()
	return clone
}
