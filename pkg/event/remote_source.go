package event

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// RemoteSource reads events from another EduFlex deployment over HTTP. It
// satisfies Source so the schedule engine does not care whether events live
// in the local database or upstream.
type RemoteSource struct {
	baseURL string
	client  *http.Client
}

func NewRemoteSource(baseURL string) *RemoteSource {
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *RemoteSource) EventsGlobal(ctx context.Context, filter ListFilter) ([]Event, error) {
	return r.fetch(ctx, "/api/events", filter)
}

func (r *RemoteSource) EventsForUser(ctx context.Context, userID int, filter ListFilter) ([]Event, error) {
	return r.fetch(ctx, fmt.Sprintf("/api/events/user/%d", userID), filter)
}

func (r *RemoteSource) EventsForCourse(ctx context.Context, courseID int, filter ListFilter) ([]Event, error) {
	return r.fetch(ctx, fmt.Sprintf("/api/events/course/%d", courseID), filter)
}

func (r *RemoteSource) fetch(ctx context.Context, path string, filter ListFilter) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+filterQuery(filter), nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events from %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned %d for %s", resp.StatusCode, path)
	}

	events := DecodeEvents(resp.Body)
	log.Debugf("fetched %d events from upstream %s", len(events), path)
	return events, nil
}

func filterQuery(filter ListFilter) string {
	params := url.Values{}
	if len(filter.Types) > 0 {
		names := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			names[i] = string(t)
		}
		params.Set("types", strings.Join(names, ","))
	}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}
