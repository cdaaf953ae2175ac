package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const requestTimeout = 10 * time.Second

type ghRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries the releases endpoint.
type Checker struct {
	URL    string
	Client *http.Client
	Log    zerolog.Logger
}

// NewChecker returns a Checker for the public releases endpoint.
func NewChecker(logger zerolog.Logger) *Checker {
	return &Checker{
		URL:    ReleaseURL,
		Client: &http.Client{Timeout: requestTimeout},
		Log:    logger.With().Str("component", "update").Logger(),
	}
}

// Latest fetches the newest release regardless of the running version.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases api: %s", resp.Status)
	}

	var rel ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if rel.TagName == "" {
		return nil, fmt.Errorf("release has no tag_name")
	}
	return &Release{Version: rel.TagName, URL: rel.HTMLURL}, nil
}

// Check returns the latest release when it is newer than current, or nil.
func (c *Checker) Check(ctx context.Context, current string) (*Release, error) {
	if current == "dev" {
		return nil, nil
	}
	rel, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if !rel.NewerThan(current) {
		c.Log.Debug().Str("latest", rel.Version).Str("current", current).Msg("up to date")
		return nil, nil
	}
	c.Log.Info().Str("latest", rel.Version).Str("current", current).Msg("update available")
	return rel, nil
}

// StartBackgroundCheck runs one check off the calling goroutine and calls
// notify when a newer release exists.
func (c *Checker) StartBackgroundCheck(ctx context.Context, current string, notify func(Release)) {
	go func() {
		rel, err := c.Check(ctx, current)
		if err != nil {
			c.Log.Debug().Err(err).Msg("background update check failed")
			return
		}
		if rel != nil {
			notify(*rel)
		}
	}()
}
