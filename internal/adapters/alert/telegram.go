package alert

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// TelegramSink delivers alerts as HTML-formatted bot messages.
type TelegramSink struct {
	token  string
	chatID string
	client *http.Client

	// Overridable for tests.
	baseURL string
}

func NewTelegramSink(token, chatID string) *TelegramSink {
	return &TelegramSink{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: deliveryTimeout},
		baseURL: "https://api.telegram.org",
	}
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) Deliver(ctx context.Context, title, message string, severity domain.Severity) error {
	text := fmt.Sprintf("<b>%s %s</b>\n%s",
		severityMarker(severity), escapeHTML(title), escapeHTML(message))

	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {text},
		"parse_mode": {"HTML"},
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send: status %d", resp.StatusCode)
	}
	return nil
}

func severityMarker(severity domain.Severity) string {
	switch severity {
	case domain.SeverityError:
		return "⛔" // no entry
	case domain.SeverityWarning:
		return "⚠️" // warning sign
	default:
		return "ℹ️" // information
	}
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

var _ ports.AlertSink = (*TelegramSink)(nil)
