// Package productmeta extracts product details from a shop page so a
// wishlist item can be prefilled from a pasted link.
package productmeta

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatherly/internal/netx"
	"golang.org/x/net/html"
)

const (
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBytes covers the <head> of any sane page.
	DefaultMaxBytes = 1 << 20
)

// Metadata is what a page tells about itself. Any field may be empty.
type Metadata struct {
	Title       string
	Description string
	ImageURL    string
	Price       *float64
	Currency    string
}

func (m *Metadata) empty() bool {
	return m.Title == "" && m.Description == "" && m.ImageURL == "" && m.Price == nil
}

type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }
func WithTimeout(d time.Duration) Option   { return func(f *Fetcher) { f.timeout = d } }
func WithMaxBytes(n int64) Option          { return func(f *Fetcher) { f.maxBytes = n } }

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{client: http.DefaultClient, timeout: DefaultTimeout, maxBytes: DefaultMaxBytes}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch returns nil without error when the page cannot tell anything: it
// timed out, is not HTML or carries no recognised tags. Transport and
// status failures are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	body, contentType, err := netx.Get(ctx, f.client, url, f.maxBytes)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !isHTML(contentType) {
		return nil, nil
	}

	m := Parse(bytes.NewReader(body))
	if m.empty() {
		return nil, nil
	}
	return m, nil
}

func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "text/html" || mt == "application/xhtml+xml"
}

// Parse scans the document for Open Graph and product meta tags. The
// <title> element is used when og:title is missing. Parsing stops at
// </head>.
func Parse(r io.Reader) *Metadata {
	m := &Metadata{}
	var title string
	inTitle := false

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return finish(m, title)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "title":
				inTitle = true
			case "meta":
				if hasAttr {
					applyMeta(m, attrs(z))
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "title":
				inTitle = false
			case "head":
				return finish(m, title)
			}
		case html.TextToken:
			if inTitle && title == "" {
				title = strings.TrimSpace(string(z.Text()))
			}
		}
	}
}

func finish(m *Metadata, title string) *Metadata {
	if m.Title == "" {
		m.Title = title
	}
	return m
}

func attrs(z *html.Tokenizer) map[string]string {
	out := map[string]string{}
	for {
		k, v, more := z.TagAttr()
		out[strings.ToLower(string(k))] = string(v)
		if !more {
			return out
		}
	}
}

func applyMeta(m *Metadata, a map[string]string) {
	key := a["property"]
	if key == "" {
		key = a["name"]
	}
	content := strings.TrimSpace(html.UnescapeString(a["content"]))
	if content == "" {
		return
	}

	switch strings.ToLower(key) {
	case "og:title":
		m.Title = content
	case "og:description":
		m.Description = content
	case "description":
		if m.Description == "" {
			m.Description = content
		}
	case "og:image", "og:image:url":
		if m.ImageURL == "" {
			m.ImageURL = content
		}
	case "product:price:amount", "og:price:amount":
		if p, ok := parsePrice(content); ok {
			m.Price = &p
		}
	case "product:price:currency", "og:price:currency":
		m.Currency = strings.ToUpper(content)
	}
}

// parsePrice accepts "19.99" and "19,99".
func parsePrice(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil || p < 0 {
		return 0, false
	}
	return p, true
}
