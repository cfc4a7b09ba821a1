package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// HTTPConnectorConfig describes one REST watchlist source.
type HTTPConnectorConfig struct {
	ID          string              `yaml:"id"`
	Category    domain.Category     `yaml:"category"`
	BaseURL     string              `yaml:"base_url"`
	APIKey      string              `yaml:"api_key"`
	EntityTypes []domain.EntityType `yaml:"entity_types"`
	Timeout     time.Duration       `yaml:"timeout"`
}

// HTTPConnector adapts a REST source to the uniform connector contract. The
// wire shape is a simple search endpoint returning {"candidates": [...]};
// sources with other protocols get their own adapter implementation.
type HTTPConnector struct {
	cfg    HTTPConnectorConfig
	client *http.Client
}

// candidatePayload is the wire shape of one candidate record.
type candidatePayload struct {
	ID          string            `json:"id"`
	Names       []string          `json:"names"`
	DateOfBirth string            `json:"date_of_birth"`
	Nationality string            `json:"nationality"`
	Identifiers map[string]string `json:"identifiers"`
}

type searchPayload struct {
	Candidates []candidatePayload `json:"candidates"`
}

// NewHTTPConnector builds a connector for one configured REST source.
func NewHTTPConnector(cfg HTTPConnectorConfig) (*HTTPConnector, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("connector id is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("connector %s: base_url is required", cfg.ID)
	}
	if cfg.Category == "" {
		return nil, fmt.Errorf("connector %s: category is required", cfg.ID)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPConnector{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (h *HTTPConnector) ID() string {
	return h.cfg.ID
}

func (h *HTTPConnector) Category() domain.Category {
	return h.cfg.Category
}

func (h *HTTPConnector) AppliesTo(t domain.EntityType) bool {
	if len(h.cfg.EntityTypes) == 0 {
		return true
	}
	for _, et := range h.cfg.EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Call issues one search against the source and normalizes the response.
func (h *HTTPConnector) Call(ctx context.Context, req Request) (*NormalizedResponse, error) {
	httpReq, err := h.buildRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyStatus(h.cfg.ID, resp.StatusCode, resp.Header)
	}

	var payload searchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candidates := make([]domain.CandidateRecord, 0, len(payload.Candidates))
	for _, c := range payload.Candidates {
		candidates = append(candidates, domain.CandidateRecord{
			ID:          c.ID,
			Source:      h.cfg.ID,
			Category:    h.cfg.Category,
			Names:       c.Names,
			DateOfBirth: c.DateOfBirth,
			Nationality: c.Nationality,
			Identifiers: c.Identifiers,
		})
	}

	return &NormalizedResponse{
		ConnectorID: h.cfg.ID,
		Candidates:  candidates,
		RetrievedAt: time.Now(),
	}, nil
}

func (h *HTTPConnector) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	query := url.Values{}
	query.Set("name", req.Name)
	if len(req.Aliases) > 0 {
		query.Set("aliases", strings.Join(req.Aliases, ","))
	}
	if req.DateOfBirth != "" {
		query.Set("dob", req.DateOfBirth)
	}
	if req.Nationality != "" {
		query.Set("nationality", req.Nationality)
	}
	for scheme, value := range req.Identifiers {
		query.Add("identifier", scheme+":"+value)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(h.cfg.BaseURL, "/")+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if h.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)
	}
	return httpReq, nil
}
