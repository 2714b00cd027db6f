package imagepipe

import "time"

// Config represents the configuration for the image pipeline client
type Config struct {
	// BaseURL is the image pipeline API base URL
	BaseURL string

	// APIKey authenticates requests to the pipeline
	APIKey string

	// RequestTimeout bounds each remote call. The storefront client had
	// no timeout at all; the server sets one explicitly.
	RequestTimeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidRequest
	}
	return nil
}
