package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"phoenix/domain/frame"
	apperrors "phoenix/internal/errors"
)

// APIConnector pulls JSON records from an HTTP endpoint
type APIConnector struct {
	httpClient *http.Client
}

func NewAPIConnector() *APIConnector {
	return &APIConnector{httpClient: &http.Client{Timeout: 30 * time.Second}}
}

func (c *APIConnector) Type() string { return "api" }

func (c *APIConnector) Connect(ctx context.Context, config Config) (*frame.Frame, error) {
	if config.URL == "" {
		return nil, apperrors.InvalidInput("api source requires a url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.URL, nil)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("bad api url: %v", err))
	}
	for key, value := range config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ExternalServiceError("api source", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ExternalServiceError("api source", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.ExternalServiceError("api source",
			fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	return FrameFromJSONRecords(body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n]) + "..."
}
