package loadtask

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func waitFor(t *testing.T, task *Task, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if task.Done() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("task did not reach a terminal state within %s (state=%s)", timeout, task.State())
}

func drainAll(task *Task) []byte {
	var out []byte
	buf := make([]byte, 256)
	for task.HasContent() {
		n := task.GetContent(buf)
		if n == 0 {
			break
		}
		out = append(out, buf[:n]...)
	}
	return out
}

func TestLoadLocalFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "page-*.html")
	if err != nil {
		t.Fatal(err)
	}
	content := "<html><body>hello</body></html>"
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	f.Close()

	task := NewTask()
	if err := task.Load(f.Name()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, time.Second)

	if task.State() != Finished {
		t.Fatalf("state = %s, want Finished", task.State())
	}
	if got := string(drainAll(task)); got != content {
		t.Fatalf("content = %q, want %q", got, content)
	}
}

func TestLoadLocalFileMissingIsError(t *testing.T) {
	task := NewTask()
	if err := task.Load("file:///does/not/exist.html"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, time.Second)
	if task.State() != Error {
		t.Fatalf("state = %s, want Error", task.State())
	}
	if task.Err() == nil {
		t.Fatal("expected a non-nil Err()")
	}
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>ok</html>")
	}))
	defer srv.Close()

	task := NewTask()
	if err := task.Load(srv.URL); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, 2*time.Second)

	if task.State() != Finished {
		t.Fatalf("state = %s, want Finished", task.State())
	}
	if got := string(drainAll(task)); got != "<html>ok</html>" {
		t.Fatalf("content = %q", got)
	}
}

func TestLoadHTTPFollowsRedirect(t *testing.T) {
	var target string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		io.WriteString(w, "redirected")
	}))
	defer srv.Close()
	target = srv.URL + "/new"

	task := NewTask()
	if err := task.Load(srv.URL + "/old"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, 2*time.Second)

	if task.State() != Finished {
		t.Fatalf("state = %s, want Finished", task.State())
	}
	if got := string(drainAll(task)); got != "redirected" {
		t.Fatalf("content = %q, want %q", got, "redirected")
	}
}

func TestLoadHTTPSIsSynthesized(t *testing.T) {
	task := NewTask()
	if err := task.Load("https://example.com/secret"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, time.Second)

	if task.State() != UnsupportedHTTPS {
		t.Fatalf("state = %s, want UnsupportedHTTPS", task.State())
	}
	page := string(drainAll(task))
	want := defaultProxyURL + "https://example.com/secret"
	if !strings.Contains(page, want) {
		t.Fatalf("expected synthesized page to link through the proxy %q, got %q", want, page)
	}
}

func TestLoadHTTPSFallsBackToHTTPWithNoProxy(t *testing.T) {
	task := NewTask()
	task.ProxyURL = ""
	if err := task.Load("https://example.com/secret"); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, time.Second)

	if task.State() != UnsupportedHTTPS {
		t.Fatalf("state = %s, want UnsupportedHTTPS", task.State())
	}
	page := string(drainAll(task))
	if !strings.Contains(page, "http://example.com/secret") {
		t.Fatalf("expected synthesized page to link to the http:// equivalent, got %q", page)
	}
}

func TestLoadBareFallsBackToHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "bare-fetched")
	}))
	defer srv.Close()
	bareHost := strings.TrimPrefix(srv.URL, "http://")

	task := NewTask()
	if err := task.Load(bareHost); err != nil {
		t.Fatal(err)
	}
	waitFor(t, task, 2*time.Second)

	if task.State() != Finished {
		t.Fatalf("state = %s, want Finished", task.State())
	}
	if got := string(drainAll(task)); got != "bare-fetched" {
		t.Fatalf("content = %q, want %q", got, "bare-fetched")
	}
}

func TestStopCancelsInFlightFetch(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	task := NewTask()
	task.Timeout = 5 * time.Second
	if err := task.Load(srv.URL); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	task.Stop()

	if task.State() != Stopped {
		t.Fatalf("state = %s, want Stopped", task.State())
	}
}

func TestCoordinatorOpenURLStopsContentTask(t *testing.T) {
	c := NewCoordinator()
	c.Content.Load("https://example.com/img.png")
	waitFor(t, c.Content, time.Second)

	f, err := os.CreateTemp(t.TempDir(), "page-*.html")
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("<html></html>")
	f.Close()

	if err := c.OpenURL(f.Name()); err != nil {
		t.Fatal(err)
	}
	if c.Content.State() != Stopped {
		t.Fatalf("content state = %s, want Stopped", c.Content.State())
	}
}
