package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/assetdocs/accessd/pkg/slogx"
)

// TwilioConfig carries the credentials for the Twilio SMS sender.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string // E.164 sending number
}

// Configured reports whether all credentials are present.
func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

// TwilioSMSSender delivers SMS through the Twilio Messages API.
type TwilioSMSSender struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilioSMSSender(cfg TwilioConfig) *TwilioSMSSender {
	return &TwilioSMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type twilioResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    int    `json:"error_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (t *TwilioSMSSender) Send(ctx context.Context, phone, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", t.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", t.cfg.From)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var tr twilioResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		if tr.ErrorMessage != "" {
			return fmt.Errorf("twilio api status %d: %s", resp.StatusCode, tr.ErrorMessage)
		}
		return fmt.Errorf("twilio api status %d", resp.StatusCode)
	}

	slogx.FromContext(ctx).Debug("sms sent",
		slog.String("sid", tr.SID),
		slog.String("status", tr.Status),
	)
	return nil
}
