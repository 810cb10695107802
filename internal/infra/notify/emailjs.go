package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"gearlend/internal/domain/reservation"
	"gearlend/internal/pkg/config"
	"gearlend/internal/pkg/errs"
	"gearlend/internal/usecase/commands"
)

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSNotifier delivers approval and reminder mail through the EmailJS
// REST API. A circuit breaker shields the request path from a flapping
// provider; callers already treat send failures as non-fatal, so an open
// breaker just means a fast no.
type EmailJSNotifier struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	cfg     config.EmailConfig
	logger  *slog.Logger
}

// NewNotifier returns the EmailJS implementation, or a log-only fallback when
// no service is configured.
func NewNotifier(cfg config.EmailConfig, logger *slog.Logger) commands.Notifier {
	if cfg.ServiceID == "" {
		logger.Info("email service not configured, notifications will be logged only")
		return &LogNotifier{logger: logger}
	}
	return NewEmailJSNotifier(cfg, logger)
}

func NewEmailJSNotifier(cfg config.EmailConfig, logger *slog.Logger) *EmailJSNotifier {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "emailjs",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("email circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &EmailJSNotifier{client: client, breaker: breaker, cfg: cfg, logger: logger}
}

type emailJSPayload struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams map[string]any `json:"template_params"`
}

func (n *EmailJSNotifier) SendApprovalNotification(ctx context.Context, to commands.Recipient, items []commands.ApprovedItem, start, end time.Time) error {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.PoolName, item.Quantity))
	}
	return n.send(ctx, n.cfg.ApprovalTemplateID, map[string]any{
		"to_email":   n.resolveEmail(to),
		"to_name":    to.Username,
		"items":      strings.Join(lines, "\n"),
		"start_date": start.Format("2006-01-02"),
		"end_date":   end.Format("2006-01-02"),
	})
}

func (n *EmailJSNotifier) SendDueReminder(ctx context.Context, to commands.Recipient, itemName string, returnDate time.Time, due reservation.DueClass, overdueDays int) error {
	return n.send(ctx, n.cfg.ReminderTemplateID, map[string]any{
		"to_email":     n.resolveEmail(to),
		"to_name":      to.Username,
		"item_name":    itemName,
		"return_date":  returnDate.Format("2006-01-02"),
		"due_class":    string(due),
		"overdue_days": overdueDays,
	})
}

func (n *EmailJSNotifier) send(ctx context.Context, templateID string, params map[string]any) error {
	payload := emailJSPayload{
		ServiceID:      n.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         n.cfg.PublicKey,
		AccessToken:    n.cfg.PrivateKey,
		TemplateParams: params,
	}

	_, err := n.breaker.Execute(func() (interface{}, error) {
		resp, err := n.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(emailJSEndpoint)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, errs.Newf("emailjs returned %d: %s", resp.StatusCode(), resp.String())
		}
		return nil, nil
	})
	if err != nil {
		return errs.Wrap(err, "failed to send email")
	}
	return nil
}

// resolveEmail fills in accounts registered without an address.
func (n *EmailJSNotifier) resolveEmail(to commands.Recipient) string {
	if to.Email != "" {
		return to.Email
	}
	return fmt.Sprintf("%s@%s", to.Username, n.cfg.MailDomain)
}

// LogNotifier records what would have been sent. Used when EmailJS is not
// configured, and handy in development.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendApprovalNotification(ctx context.Context, to commands.Recipient, items []commands.ApprovedItem, start, end time.Time) error {
	n.logger.Info("approval notification (not sent)",
		"to", to.Username, "items", len(items),
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
	return nil
}

func (n *LogNotifier) SendDueReminder(ctx context.Context, to commands.Recipient, itemName string, returnDate time.Time, due reservation.DueClass, overdueDays int) error {
	n.logger.Info("due reminder (not sent)",
		"to", to.Username, "item", itemName,
		"return_date", returnDate.Format("2006-01-02"), "due_class", string(due))
	return nil
}
