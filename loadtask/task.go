// Package loadtask implements the load-task coordinator of §4.8: two
// independent slots, one for the current page and one for a
// sub-resource (typically an image), each wrapping a local file or
// HTTP fetch behind a non-blocking Load/HasContent/GetContent/Stop
// contract so the single-threaded cooperative main loop (§5) never
// blocks waiting on network I/O. A background goroutine per Task does
// the actual blocking read and hands bytes to the tick loop through a
// mutex-guarded buffer; nothing here is safe for concurrent calls from
// more than one tick-loop goroutine.
package loadtask

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// State is the load task's lifecycle, matching the network driver
// contract's state set (§6).
type State int

const (
	Stopped State = iota
	Connecting
	Downloading
	Finished
	Error
	UnsupportedHTTPS
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Connecting:
		return "Connecting"
	case Downloading:
		return "Downloading"
	case Finished:
		return "Finished"
	case Error:
		return "Error"
	case UnsupportedHTTPS:
		return "UnsupportedHTTPS"
	default:
		return "Unknown"
	}
}

const (
	defaultHTTPTimeout  = 20 * time.Second
	defaultImageTimeout = 10 * time.Second
	maxRedirects        = 10

	// defaultProxyURL is the FrogFind rewriting proxy ShowNoHTTPSPage
	// links HTTPS requests through (§4.8, §7).
	defaultProxyURL = "http://frogfind.com/read.php?a="
)

// Task is one load slot: page content or a sub-resource.
type Task struct {
	// Client performs HTTP fetches. Redirects are disabled on it so
	// Task can apply its own 301/302/307/308 handling (§4.8).
	Client *http.Client
	// Timeout is the idle-silence timeout (§5): a fetch aborts if no
	// bytes arrive for this long. Zero means defaultHTTPTimeout.
	Timeout time.Duration
	// Open reads a local file; overridable for tests.
	Open func(name string) (io.ReadCloser, error)
	// ProxyURL is the rewriting-proxy prefix an HTTPS request is
	// rewritten through (§4.8, §7), since this browser never speaks
	// TLS itself: the synthesized "HTTPS unsupported" page links to
	// ProxyURL+rawURL instead of the page itself. Empty falls back to
	// linking the same URL with its scheme swapped to http://, which
	// only reaches sites that also serve plaintext.
	ProxyURL string

	mu    sync.Mutex
	state State
	err   error
	buf   bytes.Buffer

	cancel context.CancelFunc
	// generation is bumped by Stop/Load so a fetch goroutine from a
	// superseded Load can't clobber state after the task has moved on
	// (e.g. a cancelled HTTP request finishing its error path after
	// Stop already set Stopped).
	generation int
}

// NewTask creates a Task configured for page-content fetches (the
// 20-second idle timeout).
func NewTask() *Task {
	return &Task{
		Client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		Timeout:  defaultHTTPTimeout,
		Open:     func(name string) (io.ReadCloser, error) { return os.Open(name) },
		ProxyURL: defaultProxyURL,
	}
}

// State reports the task's current lifecycle state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Done reports whether the task has reached a terminal state and will
// not append any more content.
func (t *Task) Done() bool {
	switch t.State() {
	case Finished, Error, UnsupportedHTTPS:
		return true
	default:
		return false
	}
}

// Err returns the error that produced State() == Error, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// HasContent reports whether GetContent would return any bytes right
// now.
func (t *Task) HasContent() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Len() > 0
}

// GetContent copies up to len(p) bytes of whatever has arrived so far
// into p, never blocking, and reports how many bytes it wrote.
func (t *Task) GetContent(p []byte) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Read(p)
	return n
}

// Stop aborts any in-flight fetch and resets the task to Stopped. It
// bumps the task's generation so a fetch goroutine already in flight
// can no longer mutate state once it notices the cancellation.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.generation++
	t.state = Stopped
	t.err = nil
	t.buf.Reset()
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (t *Task) setState(gen int, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	t.state = s
}

func (t *Task) setError(gen int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	t.state = Error
	t.err = err
}

func (t *Task) appendContent(gen int, p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return
	}
	t.buf.Write(p)
}

// Load starts fetching rawURL in the background: classifies the
// scheme per §4.8 (http/https/file/bare) and either reads a local
// file, synthesizes the HTTPS-unsupported page, or issues an HTTP
// request, following redirects up to maxRedirects.
func (t *Task) Load(rawURL string) error {
	t.Stop()

	t.mu.Lock()
	gen := t.generation
	t.mu.Unlock()
	t.setState(gen, Connecting)

	u, err := url.Parse(rawURL)
	if err != nil && !strings.Contains(rawURL, "://") {
		// A bare "host:port" is not a valid URL; classify it as bare.
		u, err = &url.URL{}, nil
	}
	if err != nil {
		t.setError(gen, fmt.Errorf("loadtask: parse %s: %w", rawURL, err))
		return t.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()

	switch strings.ToLower(u.Scheme) {
	case "https":
		t.runUnsupportedHTTPS(gen, rawURL)
	case "http":
		go t.runHTTP(ctx, gen, rawURL, 0)
	case "file":
		go t.runLocal(ctx, gen, u.Path)
	case "":
		go t.runBare(ctx, gen, rawURL)
	default:
		err := fmt.Errorf("loadtask: unsupported scheme %q", u.Scheme)
		t.setError(gen, err)
		return err
	}
	return nil
}

// runBare implements "bare → local first, else http" (§4.8).
func (t *Task) runBare(ctx context.Context, gen int, path string) {
	if rc, err := t.Open(path); err == nil {
		t.streamLocal(ctx, gen, rc)
		return
	}
	t.runHTTP(ctx, gen, "http://"+path, 0)
}

func (t *Task) runLocal(ctx context.Context, gen int, path string) {
	rc, err := t.Open(path)
	if err != nil {
		t.setError(gen, fmt.Errorf("loadtask: open %s: %w", path, err))
		return
	}
	t.streamLocal(ctx, gen, rc)
}

func (t *Task) streamLocal(ctx context.Context, gen int, rc io.ReadCloser) {
	defer rc.Close()
	t.setState(gen, Downloading)
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := rc.Read(buf)
		if n > 0 {
			t.appendContent(gen, buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				t.setState(gen, Finished)
			} else {
				t.setError(gen, fmt.Errorf("loadtask: read: %w", err))
			}
			return
		}
	}
}

func (t *Task) runHTTP(ctx context.Context, gen int, rawURL string, redirectCount int) {
	if redirectCount > maxRedirects {
		t.setError(gen, fmt.Errorf("loadtask: too many redirects starting from %s", rawURL))
		return
	}
	t.setState(gen, Connecting)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		t.setError(gen, fmt.Errorf("loadtask: build request for %s: %w", rawURL, err))
		return
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		t.setError(gen, fmt.Errorf("loadtask: request %s: %w", rawURL, err))
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		loc := resp.Header.Get("Location")
		if loc == "" {
			t.setError(gen, fmt.Errorf("loadtask: redirect from %s carried no Location", rawURL))
			return
		}
		next, err := resolveRedirect(rawURL, loc)
		if err != nil {
			t.setError(gen, err)
			return
		}
		t.runHTTP(ctx, gen, next, redirectCount+1)
		return
	}

	t.setState(gen, Downloading)
	reader := newIdleTimeoutReader(ctx, resp.Body, t.timeoutOrDefault())
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			t.appendContent(gen, buf[:n])
		}
		if err != nil {
			if err == io.EOF {
				t.setState(gen, Finished)
			} else {
				t.setError(gen, fmt.Errorf("loadtask: read %s: %w", rawURL, err))
			}
			return
		}
	}
}

func (t *Task) timeoutOrDefault() time.Duration {
	if t.Timeout > 0 {
		return t.Timeout
	}
	return defaultHTTPTimeout
}

func resolveRedirect(base, loc string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("loadtask: parse redirect base %s: %w", base, err)
	}
	locURL, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("loadtask: parse redirect target %s: %w", loc, err)
	}
	return baseURL.ResolveReference(locURL).String(), nil
}
