package productmeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Noise &amp; Cancel Headphones">
<meta property="og:description" content="Wireless, 30h battery">
<meta property="og:image" content="https://shop.test/img/h.jpg">
<meta property="product:price:amount" content="199,90">
<meta property="product:price:currency" content="eur">
</head><body><meta property="og:title" content="ignored"></body></html>`

func TestParse_OpenGraph(t *testing.T) {
	m := Parse(strings.NewReader(page))
	assert.Equal(t, "Noise & Cancel Headphones", m.Title)
	assert.Equal(t, "Wireless, 30h battery", m.Description)
	assert.Equal(t, "https://shop.test/img/h.jpg", m.ImageURL)
	require.NotNil(t, m.Price)
	assert.InDelta(t, 199.90, *m.Price, 1e-9)
	assert.Equal(t, "EUR", m.Currency)
}

func TestParse_TitleFallback(t *testing.T) {
	m := Parse(strings.NewReader(`<html><head><title> Plain page </title><meta name="description" content="d"></head></html>`))
	assert.Equal(t, "Plain page", m.Title)
	assert.Equal(t, "d", m.Description)
	assert.Nil(t, m.Price)
}

func TestParse_BadPriceIgnored(t *testing.T) {
	m := Parse(strings.NewReader(`<head><meta property="product:price:amount" content="call us"></head>`))
	assert.Nil(t, m.Price)
}

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestFetch_HTML(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	m, err := NewFetcher(WithHTTPClient(ts.Client())).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Noise & Cancel Headphones", m.Title)
}

func TestFetch_NonHTMLIsNoMetadata(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title":"x"}`))
	})

	m, err := NewFetcher(WithHTTPClient(ts.Client())).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestFetch_TimeoutIsNoMetadata(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	m, err := NewFetcher(WithHTTPClient(ts.Client()), WithTimeout(50*time.Millisecond)).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestFetch_StatusError(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewFetcher(WithHTTPClient(ts.Client())).Fetch(context.Background(), ts.URL)
	require.Error(t, err)
}

func TestFetch_EmptyPage(t *testing.T) {
	ts := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head></head><body>hi</body></html>`))
	})

	m, err := NewFetcher(WithHTTPClient(ts.Client())).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Nil(t, m)
}
