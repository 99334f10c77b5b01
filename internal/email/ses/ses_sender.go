package ses

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"expensedesk/internal/email"
	"expensedesk/internal/port"
)

type sesSender struct {
	client *sesv2.Client
	from   string
	name   string
	appURL string
}

// NewSESSender creates an SES-backed EmailSender.
func NewSESSender(ctx context.Context, region, fromAddress, fromName, appURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	from := (&mail.Address{Name: fromName, Address: fromAddress}).String()
	return &sesSender{
		client: sesv2.NewFromConfig(cfg),
		from:   from,
		name:   fromName,
		appURL: appURL,
	}, nil
}

func (s *sesSender) SendSubmissionReceipt(ctx context.Context, input port.ReceiptInput) error {
	r, err := email.RenderReceipt(input, s.appURL, s.name)
	if err != nil {
		return err
	}
	to := (&mail.Address{Name: input.ToName, Address: input.ToEmail}).String()

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(r.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(r.HTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(r.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
		EmailTags: []types.MessageTag{
			{Name: aws.String("kind"), Value: aws.String("submission-receipt")},
		},
	})
	if err != nil {
		return fmt.Errorf("ses.SendSubmissionReceipt: %w", err)
	}
	return nil
}
