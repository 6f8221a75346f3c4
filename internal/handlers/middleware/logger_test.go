package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	level string
	msg   string
	args  []any
}

type recorder struct {
	records []record
}

func (r *recorder) Info(msg string, v ...any)  { r.records = append(r.records, record{"info", msg, v}) }
func (r *recorder) Warn(msg string, v ...any)  { r.records = append(r.records, record{"warn", msg, v}) }
func (r *recorder) Error(msg string, v ...any) { r.records = append(r.records, record{"error", msg, v}) }

func TestLoggerMiddleware(t *testing.T) {
	serve := func(t *testing.T, status int) *recorder {
		rec := &recorder{}

		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, err := w.Write([]byte("hi"))
			require.NoError(t, err, "should write response")
		})

		srv := httptest.NewServer(LoggerMiddleware(rec)(h))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/api/drinks")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, status, resp.StatusCode, "unexpected status. Resp: %s", string(body))
		require.Equal(t, "hi", string(body))
		return rec
	}

	t.Run("log fields", func(t *testing.T) {
		rec := serve(t, http.StatusCreated)

		require.Len(t, rec.records, 1, "logger should be called once")
		got := rec.records[0]
		require.Equal(t, "info", got.level)
		require.Equal(t, "got HTTP request", got.msg)
		require.Len(t, got.args, 10, "logger should log 10 fields")
		require.Equal(t, "method", got.args[0])
		require.Equal(t, "GET", got.args[1])
		require.Equal(t, "uri", got.args[2])
		require.Equal(t, "/api/drinks", got.args[3])
		require.Equal(t, "duration", got.args[4])
		require.NotEmpty(t, got.args[5], "duration should not be empty")
		require.Equal(t, "status", got.args[6])
		require.Equal(t, http.StatusCreated, got.args[7])
		require.Equal(t, "size", got.args[8])
		require.Equal(t, 2, got.args[9], "size should be 2 (length of 'hi')")
	})

	t.Run("client error is warning", func(t *testing.T) {
		rec := serve(t, http.StatusConflict)

		require.Len(t, rec.records, 1)
		require.Equal(t, "warn", rec.records[0].level)
	})

	t.Run("server error is error", func(t *testing.T) {
		rec := serve(t, http.StatusInternalServerError)

		require.Len(t, rec.records, 1)
		require.Equal(t, "error", rec.records[0].level)
	})
}
