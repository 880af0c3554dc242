package notify

// Package notify sends customer-facing messages through an external
// message gateway.  The primary channel is a templated message (alimtalk
// style); when the gateway rejects or fails the templated send, the same
// content is rendered into plain text and retried over the SMS channel.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier delivers a templated message to a phone number.
type Notifier interface {
	SendTemplated(ctx context.Context, phone, templateID string, vars map[string]string) error
}

// Template IDs registered with the gateway.
const (
	TemplateVerification = "verify_code"
	TemplateConfirmed    = "reservation_confirmed"
	TemplateCancelled    = "reservation_cancelled"
)

// fallback bodies used when the templated channel fails; #{name} style
// placeholders are substituted from vars.
var fallbackBodies = map[string]string{
	TemplateVerification: "[Wellstation] verification code #{code} (valid 3 minutes)",
	TemplateConfirmed:    "[Wellstation] #{name}, your #{category} reservation for #{time} is confirmed.",
	TemplateCancelled:    "[Wellstation] #{name}, your #{category} reservation for #{time} was cancelled. #{reason}",
}

// GatewayClient talks to the message gateway over HTTP.
type GatewayClient struct {
	TemplateURL string
	SMSURL      string
	APIKey      string
	Sender      string
	HTTP        *http.Client
	Log         zerolog.Logger
}

// NewGatewayClient builds a client with a bounded request timeout.
func NewGatewayClient(templateURL, smsURL, apiKey, sender string, log zerolog.Logger) *GatewayClient {
	return &GatewayClient{
		TemplateURL: templateURL,
		SMSURL:      smsURL,
		APIKey:      apiKey,
		Sender:      sender,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		Log:         log,
	}
}

// SendTemplated posts the template request and falls back to plain SMS
// when the templated channel fails.  The send succeeds if either channel
// accepts the message.
func (g *GatewayClient) SendTemplated(ctx context.Context, phone, templateID string, vars map[string]string) error {
	if g.TemplateURL == "" && g.SMSURL == "" {
		// no gateway configured; log and treat as delivered so local
		// development does not block booking flows
		g.Log.Info().Str("phone", maskPhone(phone)).Str("template", templateID).
			Fields(map[string]interface{}{"vars": vars}).Msg("notify gateway not configured, skipping send")
		return nil
	}

	tplErr := g.postJSON(ctx, g.TemplateURL, map[string]interface{}{
		"to":          phone,
		"from":        g.Sender,
		"template_id": templateID,
		"variables":   vars,
	})
	if tplErr == nil {
		g.Log.Debug().Str("phone", maskPhone(phone)).Str("template", templateID).Msg("templated message sent")
		return nil
	}

	g.Log.Warn().Err(tplErr).Str("phone", maskPhone(phone)).Str("template", templateID).
		Msg("templated send failed, falling back to sms")

	body := renderFallback(templateID, vars)
	if smsErr := g.postJSON(ctx, g.SMSURL, map[string]interface{}{
		"to":   phone,
		"from": g.Sender,
		"text": body,
	}); smsErr != nil {
		return fmt.Errorf("notify: template: %v; sms fallback: %w", tplErr, smsErr)
	}
	g.Log.Debug().Str("phone", maskPhone(phone)).Str("template", templateID).Msg("sms fallback sent")
	return nil
}

func (g *GatewayClient) postJSON(ctx context.Context, url string, payload map[string]interface{}) error {
	if url == "" {
		return fmt.Errorf("endpoint not configured")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.APIKey)
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}
	return nil
}

// renderFallback substitutes #{key} placeholders in the registered
// fallback body. Unknown templates degrade to a key=value dump.
func renderFallback(templateID string, vars map[string]string) string {
	body, ok := fallbackBodies[templateID]
	if !ok {
		parts := make([]string, 0, len(vars))
		for k, v := range vars {
			parts = append(parts, k+"="+v)
		}
		return "[Wellstation] " + strings.Join(parts, " ")
	}
	for k, v := range vars {
		body = strings.ReplaceAll(body, "#{"+k+"}", v)
	}
	// leftover placeholders render as empty
	for {
		start := strings.Index(body, "#{")
		if start < 0 {
			break
		}
		end := strings.Index(body[start:], "}")
		if end < 0 {
			break
		}
		body = body[:start] + body[start+end+1:]
	}
	return strings.TrimSpace(body)
}

// maskPhone hides the middle digits in log output.
func maskPhone(phone string) string {
	if len(phone) < 7 {
		return "***"
	}
	return phone[:3] + strings.Repeat("*", len(phone)-7) + phone[len(phone)-4:]
}
