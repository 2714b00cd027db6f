package imagepipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client represents an image pipeline API client. The pipeline exposes
// two endpoints: background removal and garment compositing. Both take
// a user photo and return an image reference or an error payload.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new image pipeline client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient := &http.Client{
		Timeout: config.RequestTimeout,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// RemoveBackground sends the normalized photo for background removal
func (c *Client) RemoveBackground(ctx context.Context, req RemoveBackgroundRequest) (*ImageResponse, error) {
	resp, err := c.doRequest(ctx, "remove-background", req, ErrRemovalFailed)
	if err != nil {
		return nil, err
	}

	var imageResp ImageResponse
	if err := json.Unmarshal(resp, &imageResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal remove-background response: %w", err)
	}

	return &imageResp, nil
}

// Compose sends the flattened selections and the user photo for compositing
func (c *Client) Compose(ctx context.Context, req ComposeRequest) (*ImageResponse, error) {
	resp, err := c.doRequest(ctx, "compose", req, ErrCompositeFailed)
	if err != nil {
		return nil, err
	}

	var imageResp ImageResponse
	if err := json.Unmarshal(resp, &imageResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal compose response: %w", err)
	}

	return &imageResp, nil
}

// doRequest performs an HTTP request to the image pipeline API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}, failErr error) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
			return nil, fmt.Errorf("%w: unexpected status code %d", failErr, resp.StatusCode)
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errResp.Message)
		default:
			return nil, fmt.Errorf("%w: %s", failErr, errResp.Message)
		}
	}

	return body, nil
}
