package robots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestManager_DisallowedPath(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := &Manager{HTTPClient: srv.Client()}
	if m.Allowed(context.Background(), srv.URL+"/private/page") {
		t.Fatal("expected /private/ to be disallowed")
	}
	if !m.Allowed(context.Background(), srv.URL+"/public/page") {
		t.Fatal("expected /public/ to be allowed")
	}
}

func TestManager_CachesPerHost(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt32(&hits, 1)
			fmt.Fprint(w, "User-agent: *\nDisallow:\n")
		}
	}))
	defer srv.Close()

	m := &Manager{HTTPClient: srv.Client()}
	for i := 0; i < 5; i++ {
		m.Allowed(context.Background(), fmt.Sprintf("%s/page/%d", srv.URL, i))
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("expected one robots.txt fetch, got %d", got)
	}
}

func TestManager_ConcurrentFirstUse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		}
	}))
	defer srv.Close()

	// A fresh Manager is shared by every goroutine of a crawl chunk, so the
	// very first lookups race to initialize it.
	m := &Manager{HTTPClient: srv.Client()}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if !m.Allowed(context.Background(), fmt.Sprintf("%s/page/%d", srv.URL, i)) {
				t.Errorf("expected /page/%d to be allowed", i)
			}
			if m.Allowed(context.Background(), srv.URL+"/private/x") {
				t.Error("expected /private/ to be disallowed")
			}
		}(i)
	}
	wg.Wait()
}

func TestManager_FetchFailureAllows(t *testing.T) {
	t.Parallel()
	m := &Manager{}
	if !m.Allowed(context.Background(), "http://127.0.0.1:1/page") {
		t.Fatal("expected allow when robots.txt is unreachable")
	}
}

func TestManager_BadURLAllows(t *testing.T) {
	t.Parallel()
	m := &Manager{}
	if !m.Allowed(context.Background(), "::not-a-url::") {
		t.Fatal("expected allow for unparsable URL")
	}
}
