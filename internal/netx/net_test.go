package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	t.Run("success returns body and content type", func(t *testing.T) {
		var gotUA string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<html></html>"))
		}))
		defer ts.Close()

		body, ct, err := Get(context.Background(), ts.Client(), ts.URL, 1024)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(body) != "<html></html>" {
			t.Fatalf("body = %q", body)
		}
		if ct != "text/html; charset=utf-8" {
			t.Fatalf("content type = %q", ct)
		}
		if gotUA != DefaultUserAgent {
			t.Fatalf("User-Agent = %q, want %q", gotUA, DefaultUserAgent)
		}
	})

	t.Run("body truncated at limit", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer ts.Close()

		body, _, err := Get(context.Background(), ts.Client(), ts.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(body) != 10 {
			t.Fatalf("len(body) = %d, want 10", len(body))
		}
	})

	t.Run("non-2xx -> StatusError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		_, _, err := Get(context.Background(), ts.Client(), ts.URL, 10)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if se.Code != http.StatusForbidden {
			t.Fatalf("code = %d", se.Code)
		}
	})

	t.Run("context deadline", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		_, _, err := Get(ctx, ts.Client(), ts.URL, 10)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if _, _, err := Get(context.Background(), nil, "://bad", 10); err == nil {
			t.Fatal("expected error")
		}
	})
}
