package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout bounds a single catalog request.
const DefaultTimeout = 10 * time.Second

// Client talks to the Art Institute of Chicago API.
// A single failed or empty response is terminal; the client never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a catalog client. rps caps outbound requests per second
// (the public API asks for polite usage); rps <= 0 disables the limiter.
func NewClient(baseURL string, rps int) *Client {
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), rps)
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: limiter,
	}
}

type artworkResponse struct {
	Data struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"data"`
}

// Lookup fetches an artwork by id. A 404 maps to ErrArtworkNotFound; any
// transport failure or server error maps to ErrUnavailable.
func (c *Client) Lookup(ctx context.Context, externalID int64) (*Artwork, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	reqURL := fmt.Sprintf("%s/artworks/%d?fields=id,title", c.baseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrArtworkNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var body artworkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if body.Data.ID == 0 {
		return nil, ErrArtworkNotFound
	}

	return &Artwork{ID: body.Data.ID, Title: body.Data.Title}, nil
}
