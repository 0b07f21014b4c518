package logx

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.77:5555":        "203.0.113.0",
		"203.0.113.77":             "203.0.113.0",
		"127.0.0.1:80":             "127.0.0.1",
		"[2001:db8:1:2:3:4:5:6]:9": "2001:db8:1:2::",
		"not an ip":                "unknown_ip",
	}

	for in, want := range cases {
		assert.Equal(t, want, anonymizeIP(in), in)
	}
}

func TestHelpersWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(false, &buf)

	Info("Bin created.", "bin_id", "abc")
	Error(errors.New("boom"), "Save failed.", "bin_id", "abc")
	Debug("hidden at info level")
	Warn("odd fields", "only-key")

	out := buf.String()
	assert.Contains(t, out, `"message":"Bin created."`)
	assert.Contains(t, out, `"bin_id":"abc"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.NotContains(t, out, "hidden at info level")
	assert.Contains(t, out, "odd number of fields")
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(false, &buf)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger())
	r.Get("/bins/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/bins/abc", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	r.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"route":"/bins/{id}"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"remote_ip":"198.51.100.0"`)
	assert.Contains(t, out, `"level":"warn"`)
}
