package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"1.2.3", []int{1, 2, 3}, false},
		{"v0.1.5", []int{0, 1, 5}, false},
		{"v1.4", []int{1, 4}, false},
		{"v1.0.0-dirty", []int{1, 0, 0}, false},
		{"v2.3.4-rc1+build", []int{2, 3, 4}, false},
		{"dev", nil, true},
		{"", nil, true},
		{"1..2", nil, true},
	}

	for _, tt := range tests {
		got, err := parseVersion(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Errorf("parseVersion(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestReleaseNewerThan(t *testing.T) {
	tests := []struct {
		release string
		current string
		want    bool
	}{
		{"v0.2.0", "v0.1.5", true},
		{"v0.1.5", "v0.1.5", false},
		{"v0.1.4", "v0.1.5", false},
		{"v1.10", "v1.9", true},
		{"v1.2", "v1.2.0", false},
		{"v1.2.1", "v1.2", true},
		{"v0.1.6", "v0.1.5-dirty", true},
		{"v0.1.5", "dev", false},
		{"invalid", "v0.1.5", false},
	}

	for _, tt := range tests {
		r := Release{Version: tt.release}
		if got := r.NewerThan(tt.current); got != tt.want {
			t.Errorf("Release{%q}.NewerThan(%q) = %v, want %v", tt.release, tt.current, got, tt.want)
		}
	}
}

func newTestChecker(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client(), Log: zerolog.Nop()}
}

func TestChecker_Check(t *testing.T) {
	body := `{"tag_name":"v1.3.0","html_url":"https://example.com/releases/v1.3.0","draft":false}`

	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    string
		wantErr bool
	}{
		{"newer", http.StatusOK, body, "v1.2.9", "v1.3.0", false},
		{"same", http.StatusOK, body, "1.3.0", "", false},
		{"dev build", http.StatusOK, body, "dev", "", false},
		{"server error", http.StatusInternalServerError, "", "v1.0.0", "", true},
		{"bad json", http.StatusOK, "{", "v1.0.0", "", true},
		{"no tag", http.StatusOK, `{"html_url":"x"}`, "v1.0.0", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChecker(t, tt.status, tt.body)
			rel, err := c.Check(context.Background(), tt.current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check error = %v, wantErr %v", err, tt.wantErr)
			}
			switch {
			case tt.want == "" && rel != nil:
				t.Fatalf("expected no update, got %+v", rel)
			case tt.want != "" && (rel == nil || rel.Version != tt.want):
				t.Fatalf("release = %+v, want %s", rel, tt.want)
			}
			if rel != nil && rel.URL != "https://example.com/releases/v1.3.0" {
				t.Fatalf("url = %q", rel.URL)
			}
		})
	}
}

func TestChecker_StartBackgroundCheck(t *testing.T) {
	c := newTestChecker(t, http.StatusOK, `{"tag_name":"v2.0.0","html_url":"u"}`)
	got := make(chan Release, 1)
	c.StartBackgroundCheck(context.Background(), "v1.0.0", func(r Release) { got <- r })

	select {
	case r := <-got:
		if r.Version != "v2.0.0" {
			t.Fatalf("notified %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("background check never notified")
	}
}
