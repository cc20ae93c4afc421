package loadtask

import (
	"fmt"
	"net/url"
	"strings"
)

// runUnsupportedHTTPS synthesizes the minimal in-memory "HTTPS
// unsupported" page §4.8/§7 describe: a plain HTML document linking
// out through t.ProxyURL (ShowNoHTTPSPage's FrogFind link), so the
// user can still reach the page's content without this browser ever
// speaking TLS. With ProxyURL cleared, falls back to linking the same
// URL rewritten to http://, which only reaches sites that also serve
// plaintext.
func (t *Task) runUnsupportedHTTPS(gen int, rawURL string) {
	t.setState(gen, UnsupportedHTTPS)
	link, label := rawURL, "Continue without encryption"
	if t.ProxyURL != "" {
		link, label = t.ProxyURL+rawURL, "Visit this site via FrogFind"
	} else {
		link = rewriteToHTTP(rawURL)
	}
	page := fmt.Sprintf(
		"<html><head><title>HTTPS not supported</title></head><body>"+
			"<p>This browser does not support encrypted connections.</p>"+
			"<p><a href=\"%s\">%s</a></p>"+
			"</body></html>",
		link, label,
	)
	t.appendContent(gen, []byte(page))
}

// rewriteToHTTP rewrites an https:// URL to the same URL under
// http://.
func rewriteToHTTP(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.Replace(rawURL, "https://", "http://", 1)
	}
	u.Scheme = "http"
	return u.String()
}
