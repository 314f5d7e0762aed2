package resets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

const resetSubject = "Password Reset Code"

// Mailer delivers reset codes to users.
type Mailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}

func resetBody(code string) string {
	return fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password.", code)
}

// sesAPI is the subset of *ses.Client we use.
type sesAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends plain-text mail through Amazon SES.
type SESMailer struct {
	client sesAPI
	sender string
}

// loadSESConfig is a seam for tests.
var loadSESConfig = func(ctx context.Context, region string) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(region))
}

// NewSESMailer builds a mailer from the default AWS credential chain.
func NewSESMailer(ctx context.Context, region, sender string) (*SESMailer, error) {
	cfg, err := loadSESConfig(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (m *SESMailer) SendResetCode(ctx context.Context, to, code string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(resetSubject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(resetBody(code))},
			},
		},
		Source: aws.String(m.sender),
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// LogMailer writes codes to the log. Used when no sender is configured.
type LogMailer struct {
	logger logging.Logger
}

func NewLogMailer(logger logging.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendResetCode(ctx context.Context, to, code string) error {
	m.logger.Info(ctx, "password reset code issued", "to", to, "code", code)
	return nil
}
