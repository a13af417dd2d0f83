package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/slokaweb/versefetch"
	vhttp "github.com/slokaweb/versefetch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ versefetch.Fetcher = (*vhttp.Fetcher)(nil)

// noDelays removes the backoff sleeps so retry tests run instantly.
var noDelays = []time.Duration{0, 0, 0, 0}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body on 200", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>ok</body></html>"))
		}))
		defer srv.Close()

		f := vhttp.NewFetcher(vhttp.WithRetryDelays(noDelays))
		defer f.Close()

		body, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, body, "ok")
	})

	t.Run("retries transient statuses until success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch calls.Add(1) {
			case 1, 2:
				w.WriteHeader(http.StatusServiceUnavailable)
			default:
				_, _ = w.Write([]byte("recovered"))
			}
		}))
		defer srv.Close()

		f := vhttp.NewFetcher(vhttp.WithRetryDelays(noDelays))
		defer f.Close()

		body, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "recovered", body)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("exhausts attempts on persistent transient failure", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		f := vhttp.NewFetcher(vhttp.WithRetryDelays(noDelays), vhttp.WithMaxAttempts(3))
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		assert.Equal(t, versefetch.EUNAVAILABLE, versefetch.ErrorCode(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("does not retry non-transient 4xx", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		f := vhttp.NewFetcher(vhttp.WithRetryDelays(noDelays))
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		assert.Equal(t, versefetch.EUNAVAILABLE, versefetch.ErrorCode(err))
		assert.Contains(t, versefetch.ErrorMessage(err), "HTTP 404")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("sends identity and content negotiation headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAccept, gotLang string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			gotLang = r.Header.Get("Accept-Language")
		}))
		defer srv.Close()

		f := vhttp.NewFetcher(
			vhttp.WithRetryDelays(noDelays),
			vhttp.WithUserAgents([]string{"test-agent/1.0"}),
		)
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "test-agent/1.0", gotUA)
		assert.Equal(t, "test-agent/1.0", f.UserAgent())
		assert.Equal(t, "text/html,application/xhtml+xml,application/xml", gotAccept)
		assert.Equal(t, "en-US,en;q=0.5", gotLang)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		f := vhttp.NewFetcher(vhttp.WithRetryDelays(noDelays))
		defer f.Close()

		_, err := f.Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})
}

func TestFetcher_UserAgentFromPool(t *testing.T) {
	t.Parallel()

	f := vhttp.NewFetcher()
	defer f.Close()

	assert.Contains(t, vhttp.DefaultUserAgents, f.UserAgent())
}
