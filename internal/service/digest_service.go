package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"screenbreak/internal/models"
)

// DigestService sends the weekly leaderboard digest via Amazon SES
type DigestService struct {
	client      *sesv2.Client
	leaderboard *LeaderboardService
	fromEmail   string
	fromName    string
	toEmail     string
	enabled     bool
	logger      *zap.Logger
}

// NewDigestService creates a new digest service. If fromEmail or toEmail is
// empty the service is disabled and sending is a no-op.
func NewDigestService(leaderboard *LeaderboardService, awsRegion, fromEmail, fromName, toEmail string, logger *zap.Logger) (*DigestService, error) {
	if fromEmail == "" || toEmail == "" {
		logger.Info("digest service disabled: sender or recipient not configured")
		return &DigestService{
			leaderboard: leaderboard,
			enabled:     false,
			logger:      logger,
		}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("digest service enabled",
		zap.String("from", fromEmail),
		zap.String("to", toEmail),
		zap.String("region", awsRegion))

	return &DigestService{
		client:      sesv2.NewFromConfig(cfg),
		leaderboard: leaderboard,
		fromEmail:   fromEmail,
		fromName:    fromName,
		toEmail:     toEmail,
		enabled:     true,
		logger:      logger,
	}, nil
}

// IsEnabled returns whether the digest service will send email
func (s *DigestService) IsEnabled() bool {
	return s.enabled
}

// SendWeeklyDigest renders the current leaderboard and emails it
func (s *DigestService) SendWeeklyDigest(ctx context.Context) error {
	entries, err := s.leaderboard.GetLeaderboard()
	if err != nil {
		return fmt.Errorf("failed to build leaderboard for digest: %w", err)
	}

	if !s.enabled {
		s.logger.Info("skipping digest send (service disabled)",
			zap.Int("families", len(entries)))
		return nil
	}

	subject := "ScreenBreak weekly leaderboard"
	htmlBody, textBody := renderDigest(entries)

	return s.sendEmail(ctx, subject, htmlBody, textBody)
}

// renderDigest builds the HTML and plain-text digest bodies
func renderDigest(entries []models.LeaderboardEntry) (string, string) {
	var htmlRows strings.Builder
	var textRows strings.Builder

	for _, entry := range entries {
		htmlRows.WriteString(fmt.Sprintf(
			"<tr><td>%d</td><td>%s</td><td>%d</td><td>%d</td></tr>\n",
			entry.Rank, entry.FamilyName, entry.TotalCredits, entry.WeeklyChallenges))
		textRows.WriteString(fmt.Sprintf("%d. %s - %d credits (%d this week)\n",
			entry.Rank, entry.FamilyName, entry.TotalCredits, entry.WeeklyChallenges))
	}
	if len(entries) == 0 {
		htmlRows.WriteString("<tr><td colspan=\"4\">No families yet</td></tr>\n")
		textRows.WriteString("No families yet\n")
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #34a853; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		table { width: 100%%; border-collapse: collapse; }
		td, th { padding: 8px; border-bottom: 1px solid #ddd; text-align: left; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Weekly Family Leaderboard</h1>
		</div>
		<table>
			<tr><th>Rank</th><th>Family</th><th>Total credits</th><th>This week</th></tr>
			%s
		</table>
		<div class="footer">
			<p>This is an automated email from ScreenBreak. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, htmlRows.String())

	textBody := fmt.Sprintf(`Weekly Family Leaderboard

%s
---
This is an automated email from ScreenBreak. Please do not reply.
`, textRows.String())

	return htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *DigestService) sendEmail(ctx context.Context, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send digest to %s: %w", s.toEmail, err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.logger.Info("digest sent",
		zap.String("to", s.toEmail),
		zap.String("message_id", messageID))

	return nil
}
