package services

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"profitpilot/models"
)

// DiscordBotService pushes profitability alerts to a Discord channel.
// Missing credentials disable it; every send becomes a typed error the
// alert service logs and moves past.
type DiscordBotService struct {
	session   *discordgo.Session
	channelID string
	log       *zap.Logger
	enabled   bool
}

func NewDiscordBotService(token, channelID string, log *zap.Logger) (*DiscordBotService, error) {
	if token == "" || channelID == "" {
		log.Info("discord credentials not provided, notifications disabled")
		return &DiscordBotService{enabled: false, log: log}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	user, err := session.User("@me")
	if err != nil {
		return nil, fmt.Errorf("failed to get bot user: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Info("discord bot connected",
		zap.String("bot_id", user.ID), zap.String("channel", channelID))

	return &DiscordBotService{
		session:   session,
		channelID: channelID,
		log:       log,
		enabled:   true,
	}, nil
}

func (d *DiscordBotService) Enabled() bool {
	return d != nil && d.enabled
}

func (d *DiscordBotService) Close() {
	if d.enabled && d.session != nil {
		d.session.Close()
	}
}

// SendAlert posts an alert event as an embed.
func (d *DiscordBotService) SendAlert(event *models.AlertEvent) error {
	if !d.enabled {
		return fmt.Errorf("discord bot not enabled")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🚨 " + event.RuleName,
		Description: event.Message,
		Color:       colorForRule(event.RuleType),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Product",
				Value:  event.Product,
				Inline: true,
			},
			{
				Name:   "Value",
				Value:  fmt.Sprintf("%.2f", event.Value),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Alert ID: %s", event.ID),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if event.Threshold != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Threshold",
			Value:  fmt.Sprintf("%.2f", event.Threshold),
			Inline: true,
		})
	}

	if _, err := d.session.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("failed to send Discord message: %w", err)
	}

	d.log.Info("alert sent to discord", zap.String("rule", event.RuleName))
	return nil
}

// SendPortfolioReport posts a bulk run summary.
func (d *DiscordBotService) SendPortfolioReport(record *models.BulkReportRecord) error {
	if !d.enabled {
		return fmt.Errorf("discord bot not enabled")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📊 Portfolio Report",
		Description: "Bulk profitability run completed",
		Color:       3066993, // Green
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Products",
				Value:  fmt.Sprintf("%d", record.ProductCount),
				Inline: true,
			},
			{
				Name:   "Errors",
				Value:  fmt.Sprintf("%d", record.ErrorCount),
				Inline: true,
			},
			{
				Name:   "Avg Margin",
				Value:  fmt.Sprintf("%.2f%%", record.Aggregates.AvgMargin),
				Inline: true,
			},
			{
				Name:   "Avg ROI",
				Value:  fmt.Sprintf("%.2f%%", record.Aggregates.AvgROI),
				Inline: true,
			},
			{
				Name:   "Total Profit",
				Value:  fmt.Sprintf("%.2f", record.Aggregates.TotalProfit),
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if _, err := d.session.ChannelMessageSendEmbed(d.channelID, embed); err != nil {
		return fmt.Errorf("failed to send portfolio report: %w", err)
	}

	return nil
}

// SendMessage sends a plain text message to the channel.
func (d *DiscordBotService) SendMessage(message string) error {
	if !d.enabled {
		return fmt.Errorf("discord bot not enabled")
	}

	if _, err := d.session.ChannelMessageSend(d.channelID, message); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func colorForRule(ruleType string) int {
	switch ruleType {
	case models.RuleTierCritical, models.RuleNeverBreaks:
		return 15158332 // Red
	case models.RuleMarginBelow:
		return 15105570 // Orange
	case models.RuleHealthRed:
		return 15844367 // Gold
	default:
		return 3447003 // Blue
	}
}
