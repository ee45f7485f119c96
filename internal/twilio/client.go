package twilio

import (
	"fmt"
	"strings"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsAppPrefix = "whatsapp:"

// Client sends caretaker messages through Twilio. A sender number prefixed
// with "whatsapp:" switches every recipient to WhatsApp addressing.
type Client struct {
	client *twilio.RestClient
	from   string
}

// New creates a Twilio client bound to the configured sender number. Without
// credentials the client is returned unconfigured.
func New(accountSID, authToken, from string) *Client {
	if accountSID == "" || authToken == "" {
		return &Client{from: from}
	}
	return &Client{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		from:   from,
	}
}

// Configured reports whether messages can be sent.
func (c *Client) Configured() bool {
	return c != nil && c.client != nil && strings.TrimSpace(c.from) != ""
}

// SendMessage sends body to the recipient number and returns the message SID.
func (c *Client) SendMessage(to, body string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("twilio client not initialised")
	}

	whatsApp := strings.HasPrefix(strings.TrimSpace(c.from), whatsAppPrefix)
	sender := normalizeAddress(c.from, whatsApp)
	if sender == "" {
		return "", fmt.Errorf("twilio sender number is not configured")
	}
	recipient := normalizeAddress(to, whatsApp)
	if recipient == "" {
		return "", fmt.Errorf("recipient number missing or invalid")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send message error: %w", err)
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// normalizeAddress turns a loosely formatted phone number into E.164, with
// the WhatsApp channel prefix when requested.
func normalizeAddress(number string, whatsApp bool) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(number), whatsAppPrefix)

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}

	e164 := "+" + digits.String()
	if whatsApp {
		return whatsAppPrefix + e164
	}
	return e164
}
