package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bharatrohan/hangar/internal/config"
	"bharatrohan/hangar/internal/constants"
	"bharatrohan/hangar/internal/models/dtos"
)

// Notifier delivers a maintenance notice to an external channel
type Notifier interface {
	Notify(ctx context.Context, notice dtos.MaintenanceNotice) error
}

// CliqProvider posts maintenance notices to a Zoho Cliq channel through the
// webhook-token API:
// POST {base}/channelsbyname/{channel}/message?zapikey={token}
type CliqProvider struct {
	BaseURL      string
	Channel      string
	APIKey       string
	DashboardURL string
	Client       *http.Client
}

var _ Notifier = (*CliqProvider)(nil)

// NewCliqProvider creates a provider from the alert configuration.
// The client timeout mirrors the notify timeout as a second bound.
func NewCliqProvider(cfg config.AlertConfig) *CliqProvider {
	return &CliqProvider{
		BaseURL:      cfg.NotifyBaseURL,
		Channel:      cfg.NotifyChannel,
		APIKey:       cfg.NotifyAPIKey,
		DashboardURL: cfg.DashboardURL,
		Client: &http.Client{
			Timeout: cfg.NotifyTimeout,
		},
	}
}

type cliqMessage struct {
	Text string `json:"text"`
}

// Notify sends one message. Any transport error or non-2xx status is returned
// as a *ProviderError; the body of a failed response is included for diagnostics.
func (p *CliqProvider) Notify(ctx context.Context, notice dtos.MaintenanceNotice) error {
	if p.Channel == "" || p.APIKey == "" {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "cliq channel and api key must be configured",
		}
	}

	body, err := json.Marshal(cliqMessage{Text: FormatMaintenanceMessage(notice, p.DashboardURL)})
	if err != nil {
		return fmt.Errorf("failed to marshal cliq message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/channelsbyname/%s/message?zapikey=%s",
		strings.TrimRight(p.BaseURL, "/"),
		url.PathEscape(p.Channel),
		url.QueryEscape(p.APIKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build cliq request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "cliq request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &ProviderError{
			Code:       constants.ErrCodeUpstreamRejected,
			Message:    fmt.Sprintf("cliq returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))),
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}

// FormatMaintenanceMessage renders the chat text for a notice. dashboardURL
// may be empty, in which case no link is added.
func FormatMaintenanceMessage(notice dtos.MaintenanceNotice, dashboardURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "⚠️ Maintenance due: %s %s\n", notice.ModelName, notice.SerialNum)
	fmt.Fprintf(&b, "Drone has reached %.1f flight hours (interval: every %sh, service #%d).\n",
		notice.TotalHours, formatHours(notice.IntervalHours), notice.Multiple)
	if len(notice.NewMultiples) > 1 {
		fmt.Fprintf(&b, "%d intervals were crossed since the last check.\n", len(notice.NewMultiples))
	}
	b.WriteString("Log a maintenance note on the fleet dashboard once serviced")
	if dashboardURL != "" {
		fmt.Fprintf(&b, ": %s/models/%s/%s",
			strings.TrimRight(dashboardURL, "/"),
			url.PathEscape(notice.ModelName),
			url.PathEscape(notice.SerialNum),
		)
	}
	b.WriteString(".")

	return b.String()
}

func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%.1f", h)
}
