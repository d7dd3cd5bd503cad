package devserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vera-byte/vgo-diet/internal/devserver"
)

func TestProxyForwardsPathsUnchanged(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotAuth = r.URL.Path, r.URL.RawQuery, r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"code":200}`)
	}))
	defer backend.Close()

	s, err := devserver.New(devserver.Config{Port: "0", Target: backend.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}
	front := httptest.NewServer(s.Handler())
	defer front.Close()

	tests := []struct {
		path  string
		query string
	}{
		{path: "/api/food/list", query: "keyword=rice"},
		{path: "/images/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			target := front.URL + tt.path
			if tt.query != "" {
				target += "?" + tt.query
			}
			req, _ := http.NewRequest(http.MethodGet, target, nil)
			req.Header.Set("Authorization", "T1")
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if gotPath != tt.path || gotQuery != tt.query || gotAuth != "T1" {
				t.Errorf("backend saw %q ?%q auth=%q", gotPath, gotQuery, gotAuth)
			}
			if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
				t.Error("missing CORS header")
			}
		})
	}
}

func TestHealthAndPreflight(t *testing.T) {
	s, err := devserver.New(devserver.Config{Port: "0", Target: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	front := httptest.NewServer(s.Handler())
	defer front.Close()

	resp, err := http.Get(front.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	resp.Body.Close()
	if body["status"] != "healthy" {
		t.Errorf("health = %v", body)
	}

	req, _ := http.NewRequest(http.MethodOptions, front.URL+"/api/user/login", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status = %d", resp.StatusCode)
	}
}

func TestBackendDown(t *testing.T) {
	s, err := devserver.New(devserver.Config{Port: "0", Target: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	front := httptest.NewServer(s.Handler())
	defer front.Close()

	resp, err := http.Get(front.URL + "/api/user/info")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestInvalidTarget(t *testing.T) {
	for _, target := range []string{"", "localhost:8080", "://bad"} {
		if _, err := devserver.New(devserver.Config{Target: target}, nil); err == nil {
			t.Errorf("New(%q) should fail", target)
		}
	}
}
