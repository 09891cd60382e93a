package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"cinephile/internal/game"
	"cinephile/internal/models"
)

// EmailService sends the results-share email via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. An empty fromEmail yields
// a disabled service that skips every send, so share-by-email degrades
// cleanly on deployments without SES.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// modeLabels are the display names used in the share grid
var modeLabels = map[models.Mode]string{
	models.ModeCredits: "Credits",
	models.ModePoster:  "Poster",
	models.ModeYear:    "Year",
}

// BuildShareGrid renders the emoji summary of a day's games, one line
// per mode: misses are red, the winning round green, unused rounds white.
func BuildShareGrid(state *models.DailyState) string {
	var lines []string
	for _, mode := range models.Modes {
		gs := state.Game(mode)
		var row strings.Builder
		switch {
		case gs.Completed && gs.Won:
			row.WriteString(strings.Repeat("🟥", gs.Round-1))
			row.WriteString("🟩")
			row.WriteString(strings.Repeat("⬜", game.MaxRounds-gs.Round))
		case gs.Completed:
			row.WriteString(strings.Repeat("🟥", game.MaxRounds))
		default:
			row.WriteString(strings.Repeat("🟥", gs.Round-1))
			row.WriteString(strings.Repeat("⬜", game.MaxRounds-gs.Round+1))
		}
		lines = append(lines, fmt.Sprintf("%s %s", modeLabels[mode], row.String()))
	}
	return strings.Join(lines, "\n")
}

// SendResultsEmail sends today's share summary to a recipient
func (s *EmailService) SendResultsEmail(ctx context.Context, toEmail, date, genre string, state *models.DailyState, stats *models.Stats) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): results share to %s", toEmail)
		return nil
	}

	grid := BuildShareGrid(state)
	subject := fmt.Sprintf("Cinephile %s: my results", date)

	htmlGrid := strings.ReplaceAll(grid, "\n", "<br>")
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #1a1a2e; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.grid { font-size: 20px; line-height: 1.4; }
		.button { display: inline-block; padding: 12px 30px; background-color: #e94560; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Cinephile %s</h1>
		</div>
		<div class="content">
			<p>Today's genre was <strong>%s</strong>.</p>
			<p class="grid">%s</p>
			<p>Current streak: <strong>%d</strong> · Total score: <strong>%d</strong></p>
			<p style="text-align: center;">
				<a href="%s" class="button">Play Today's Puzzle</a>
			</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Cinephile. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, date, genre, htmlGrid, stats.Streak, stats.TotalScore, s.appBaseURL)

	textBody := fmt.Sprintf(`Cinephile %s

Today's genre was %s.

%s

Current streak: %d
Total score: %d

Play today's puzzle: %s

---
This is an automated email from Cinephile. Please do not reply.
`, date, genre, grid, stats.Streak, stats.TotalScore, s.appBaseURL)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
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
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message id: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
