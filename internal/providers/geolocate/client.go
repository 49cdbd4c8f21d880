package geolocate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// API Docs: https://developers.google.com/maps/documentation/geolocation/overview
// Sample request: POST https://www.googleapis.com/geolocation/v1/geolocate?key=KEY
const (
	baseGeolocateURL = "https://www.googleapis.com/geolocation/v1/geolocate"

	// A position request waits at most this long for a fix.
	positionTimeout = 10 * time.Second
)

// Sentinel errors for the failure causes a caller can act on.
var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrTimeout          = errors.New("geolocation request timed out")
	ErrUnsupported      = errors.New("geolocation is not available")
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a position provider client.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: positionTimeout},
		baseURL:    baseGeolocateURL,
		apiKey:     apiKey,
	}
}

// CurrentPosition requests a single fresh fix. Cached results are
// bypassed on every call.
func (c *Client) CurrentPosition() (*Position, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if c.apiKey != "" {
		q := u.Query()
		q.Set("key", c.apiKey)
		u.RawQuery = q.Encode()
	}

	body, err := json.Marshal(PositionRequest{ConsiderIP: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)

		switch resp.StatusCode {
		case http.StatusForbidden:
			return nil, ErrPermissionDenied
		case http.StatusNotFound, http.StatusNotImplemented:
			return nil, ErrUnsupported
		}

		var apiErr ErrorAPIResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(raw))
	}

	var apiResp PositionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Position{
		Latitude:  apiResp.Location.Lat,
		Longitude: apiResp.Location.Lng,
		Accuracy:  apiResp.Accuracy,
	}, nil
}
