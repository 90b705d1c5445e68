// Package mailer sends visitor notification emails through an HTTP relay.
// Sends are fire-and-forget: failures are logged by the caller's worker
// and never surface to the registration or approval flow.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Message is one outbound email for the relay.
type Message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// relayResponse is the relay's acknowledgement envelope.
type relayResponse struct {
	OK bool `json:"ok"`
}

// Gateway abstracts the notification sink so flows can be tested with a
// recording stub.
type Gateway interface {
	Send(msg Message) error
}

// RelayGateway posts messages to a configured HTTP relay endpoint.
type RelayGateway struct {
	endpoint string
	from     string
	client   *http.Client
}

// RelayConfig holds configuration for the HTTP relay gateway.
type RelayConfig struct {
	Endpoint string
	From     string
	Timeout  time.Duration
}

// NewRelayGateway creates a relay gateway client.
func NewRelayGateway(cfg RelayConfig) *RelayGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &RelayGateway{
		endpoint: cfg.Endpoint,
		from:     cfg.From,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts one message to the relay.
func (g *RelayGateway) Send(msg Message) error {
	if msg.From == "" {
		msg.From = g.from
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail message: %w", err)
	}

	resp, err := g.client.Post(g.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post to mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}

	var ack relayResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return fmt.Errorf("failed to decode mail relay response: %w", err)
	}
	if !ack.OK {
		return fmt.Errorf("mail relay rejected message to %s", msg.To)
	}
	return nil
}

// NoopGateway is used when no relay endpoint is configured. It warns once
// and then silently drops every message.
type NoopGateway struct {
	warnOnce sync.Once
	warn     func()
}

// NewNoopGateway creates a no-op gateway. warn is called the first time a
// send is dropped.
func NewNoopGateway(warn func()) *NoopGateway {
	return &NoopGateway{warn: warn}
}

// Send drops the message.
func (g *NoopGateway) Send(Message) error {
	g.warnOnce.Do(func() {
		if g.warn != nil {
			g.warn()
		}
	})
	return nil
}
