package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dataprep/internal/dataset/adapter/file"
	"dataprep/internal/dataset/domain/model"
	"dataprep/internal/shared/logger"
)

// Loader fetches named datasets from a dataset hub that serves JSONL over
// HTTP: GET <baseURL>/datasets/<name>?split=<split>.
type Loader struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

// NewLoader creates a hub loader for the given base URL.
func NewLoader(baseURL string, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Loader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		log:     log.WithComponent("hub"),
	}
}

// Load fetches a dataset by name. An empty split fetches the default split.
func (l *Loader) Load(ctx context.Context, name, split string) ([]*model.Record, error) {
	if l.baseURL == "" {
		return nil, fmt.Errorf("dataset hub base URL is not configured")
	}
	if name == "" {
		return nil, fmt.Errorf("dataset name must not be empty")
	}

	endpoint := fmt.Sprintf("%s/datasets/%s", l.baseURL, url.PathEscape(name))
	if split != "" {
		endpoint += "?split=" + url.QueryEscape(split)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build hub request: %w", err)
	}
	req.Header.Set("Accept", "application/jsonl")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned status %d for dataset %q", resp.StatusCode, name)
	}

	records, err := file.ReadJSONL(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset %q: %w", name, err)
	}
	l.log.Infof("fetched %d records for dataset %q", len(records), name)
	return records, nil
}
