package webpage

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/snonux/dowel/internal/config"
	"codeberg.org/snonux/dowel/internal/transport"
)

// DefaultSelector is used when a profile has no web_selector.
const DefaultSelector = "body"

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

var whitespace = regexp.MustCompile(`\s+`)

// Resolver fetches URLs through the transport port. Messages that are not
// URLs pass through unchanged.
type Resolver struct {
	transport transport.Port
	log       *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(tp transport.Port, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{transport: tp, log: log}
}

// Resolve implements aiclient.ContentResolver. An empty result means the
// page could not be fetched or the selector matched nothing.
func (r *Resolver) Resolve(ctx context.Context, message string, profile config.AIProfile) string {
	target, ok := NormalizeURL(message)
	if !ok {
		return message
	}

	html, err := r.fetch(ctx, target)
	if err != nil {
		r.log.Warn("Failed to fetch page", "url", target, "error", err)
		return ""
	}
	if html == "" {
		return ""
	}

	content, err := Extract(html, profile.WebSelector, profile.WebMode)
	if err != nil {
		r.log.Warn("Failed to parse page", "url", target, "error", err)
		return ""
	}
	return content
}

func (r *Resolver) fetch(ctx context.Context, target string) (string, error) {
	resp, err := r.transport.Request(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    target,
		Header: http.Header{"Accept": {acceptHTML}},
	})
	if err != nil {
		return "", err
	}
	if resp.Status != http.StatusOK {
		r.log.Debug("Page fetch returned non-200", "url", target, "status", resp.Status)
		return "", nil
	}
	return string(resp.Body), nil
}

// Extract selects the first node matching selector. In markdown mode the
// inner HTML is kept so the model can preserve structure; otherwise only
// the text is returned. Whitespace runs collapse to one space.
func Extract(html, selector, mode string) (string, error) {
	if selector == "" {
		selector = DefaultSelector
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", nil
	}

	var out string
	if mode == config.WebModeMarkdown {
		out, err = sel.Html()
		if err != nil {
			return "", err
		}
	} else {
		sel.Find("script, style, noscript").Remove()
		out = sel.Text()
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(out, " ")), nil
}

// NormalizeURL reports whether s looks like a web address and returns it
// with a scheme. Bare host names such as example.com/page are accepted.
func NormalizeURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", false
	}

	candidate := s
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	host := u.Hostname()
	if host == "localhost" || net.ParseIP(host) != nil {
		return u.String(), true
	}

	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return "", false
	}
	for _, label := range labels {
		if label == "" {
			return "", false
		}
	}
	// The top level domain must be alphabetic, so "3.14" stays text.
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return "", false
	}
	for _, r := range tld {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", false
		}
	}
	return u.String(), true
}
