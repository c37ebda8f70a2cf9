package scenario

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/airlift/auth"
	"github.com/kilianp07/airlift/core/model"
)

// maxRemoteSize bounds the scenario documents accepted from a remote source.
const maxRemoteSize = 8 << 20

// RemoteConfig points at an HTTP endpoint serving scenario documents.
type RemoteConfig struct {
	URL       string    `json:"url"`
	TimeoutMS int       `json:"timeout_ms"`
	Auth      auth.Conf `json:"auth"`
}

// RemoteSource fetches scenarios over HTTP, authenticating with OAuth2
// client credentials when configured.
type RemoteSource struct {
	url    string
	client *http.Client
	creds  *auth.ClientCred
}

// NewRemoteSource builds a source from its configuration.
func NewRemoteSource(cfg RemoteConfig) (*RemoteSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote: url required")
	}
	timeout := 10 * time.Second
	if cfg.TimeoutMS > 0 {
		timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}
	s := &RemoteSource{url: cfg.URL, client: &http.Client{Timeout: timeout}}
	if cfg.Auth.Enabled() {
		if err := cfg.Auth.Validate(); err != nil {
			return nil, err
		}
		s.creds = auth.NewClientCred(cfg.Auth)
	}
	return s, nil
}

// Fetch downloads the scenario named id. The token is refreshed once when
// the server rejects it.
func (s *RemoteSource) Fetch(ctx context.Context, id string) (model.Scenario, error) {
	resp, err := s.get(ctx, id)
	if err != nil {
		return model.Scenario{}, err
	}
	if resp.StatusCode == http.StatusUnauthorized && s.creds != nil {
		_ = resp.Body.Close()
		if _, err := s.creds.ForceRefresh(ctx); err != nil {
			return model.Scenario{}, err
		}
		if resp, err = s.get(ctx, id); err != nil {
			return model.Scenario{}, err
		}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return model.Scenario{}, fmt.Errorf("remote: fetch %s: status %d", id, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return model.Scenario{}, fmt.Errorf("remote: read %s: %w", id, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("remote %s: %w", id, err)
	}
	if sc.ID == "" {
		sc.ID = id
	}
	return sc, nil
}

func (s *RemoteSource) get(ctx context.Context, id string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.creds != nil {
		if err := s.creds.SetAuthHeader(ctx, req); err != nil {
			return nil, err
		}
	}
	return s.client.Do(req)
}
