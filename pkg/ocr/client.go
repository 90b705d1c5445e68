// Package ocr wraps the external ID-document extraction service. The
// caller contract is strict: extraction never fails. Any internal error
// resolves to an empty result and the registration flow falls back to
// manual entry.
package ocr

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Fields are the optional identity fields extracted from an ID document.
// Either or both may be empty.
type Fields struct {
	Name     string `json:"name,omitempty"`
	ICNumber string `json:"ic_number,omitempty"`
}

// Extractor abstracts the OCR collaborator so the registration flow can
// be tested with a stub returning deterministic fields.
type Extractor interface {
	ExtractIDFields(imageDataURL string) Fields
}

// Client calls an HTTP OCR endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// Config holds OCR client configuration.
type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// NewClient creates an OCR client. An empty endpoint yields a client that
// always returns empty fields.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type extractRequest struct {
	Image string `json:"image"`
}

// ExtractIDFields sends the image to the OCR endpoint and returns
// whatever fields it recognized. All failures resolve to empty fields.
func (c *Client) ExtractIDFields(imageDataURL string) Fields {
	if c.endpoint == "" || imageDataURL == "" {
		return Fields{}
	}

	body, err := json.Marshal(extractRequest{Image: imageDataURL})
	if err != nil {
		return Fields{}
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return Fields{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Fields{}
	}

	var fields Fields
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return Fields{}
	}
	return fields
}
