// Package mail sends plain-text messages through the Gmail API as the
// configured sender.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	netmail "net/mail"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"workspace_gateway/internal/apierr"
	"workspace_gateway/internal/app"
	"workspace_gateway/internal/auth"
	"workspace_gateway/internal/config"
)

const opSend = "send email"

// ServiceFactory builds the underlying Gmail service on first use
type ServiceFactory func(ctx context.Context) (*gmail.Service, error)

// ProviderFactory builds the Gmail service from the provider's delegated client
func ProviderFactory(p *auth.Provider) ServiceFactory {
	return func(ctx context.Context) (*gmail.Service, error) {
		httpClient, err := p.Client(config.ServiceGmail)
		if err != nil {
			return nil, err
		}
		return gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	}
}

// Service sends mail on behalf of one sender
type Service struct {
	service func() (*gmail.Service, error)
	sender  string
}

// NewService creates a mail Service sending as sender
func NewService(factory ServiceFactory, sender string) *Service {
	return &Service{
		service: sync.OnceValues(func() (*gmail.Service, error) {
			return factory(context.Background())
		}),
		sender: sender,
	}
}

// Send delivers a plain-text message. To, subject and text are required.
func (s *Service) Send(ctx context.Context, req app.EmailRequest) (*app.SendResult, error) {
	if err := validateEmail(req); err != nil {
		return nil, err
	}
	if s.sender == "" {
		return nil, apierr.Configuration(opSend, "GMAIL_USER environment variable is required")
	}

	service, err := s.service()
	if err != nil {
		return nil, apierr.FromGoogle(opSend, err)
	}

	raw := base64.URLEncoding.EncodeToString(buildMessage(s.sender, req))

	log.Debug().
		Str("operation", opSend).
		Str("to", req.To).
		Msg("Sending email")

	sent, err := service.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return nil, apierr.FromGoogle(opSend, fmt.Errorf("failed to send email: %w", err))
	}

	log.Info().
		Str("operation", opSend).
		Str("message_id", sent.Id).
		Msg("Email sent")

	return &app.SendResult{
		ID:       sent.Id,
		ThreadID: sent.ThreadId,
		LabelIDs: sent.LabelIds,
	}, nil
}

func validateEmail(req app.EmailRequest) error {
	var missing []string
	if strings.TrimSpace(req.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(req.Text) == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return apierr.Validation(opSend, "missing required email fields: %s", strings.Join(missing, ", "))
	}

	// Headers are written verbatim, so line breaks would inject new ones.
	if strings.ContainsAny(req.To, "\r\n") || strings.ContainsAny(req.Subject, "\r\n") {
		return apierr.Validation(opSend, "to and subject must be a single line")
	}
	if _, err := netmail.ParseAddressList(req.To); err != nil {
		return apierr.Validation(opSend, "invalid recipient %q: %v", req.To, err)
	}
	return nil
}

// buildMessage renders an RFC 2822 message with a UTF-8 plain-text body
func buildMessage(from string, req app.EmailRequest) []byte {
	var b strings.Builder

	b.WriteString("From: ")
	b.WriteString(from)
	b.WriteString("\r\n")

	b.WriteString("To: ")
	b.WriteString(req.To)
	b.WriteString("\r\n")

	b.WriteString("Subject: ")
	b.WriteString(mime.QEncoding.Encode("utf-8", req.Subject))
	b.WriteString("\r\n")

	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")

	b.WriteString(req.Text)

	return []byte(b.String())
}
