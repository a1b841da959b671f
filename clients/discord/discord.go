package discord

import (
	"fmt"
	"tradebridge/clients/notifier"
	"tradebridge/config"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient forwards urgent platform notifications to a Discord channel.
// Implements notifier.Notifier. Without a bot token it degrades to a no-op.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	channelID := cfg.Discord.ChannelID

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord forwarding disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
		}
	}

	logger.Info("discord forwarder initialized", zap.String("channelID", channelID))

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: channelID,
	}
}

// SendAlert posts the notification to the configured channel.
// Implements notifier.Notifier.
func (dc *DiscordClient) SendAlert(alert notifier.Alert) {
	if dc.session == nil || dc.channelID == "" {
		dc.logger.Debug("discord forwarder not configured, skipping alert")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Platform notification",
		Description: alert.Message,
		Color:       priorityColor(alert.Priority),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("priority: %s", alert.Priority),
		},
	}

	_, err := dc.session.ChannelMessageSendEmbed(dc.channelID, embed)
	if err != nil {
		dc.logger.Error("failed to send discord alert", zap.Error(err))
		return
	}

	dc.logger.Info("forwarded notification to discord", zap.String("priority", alert.Priority))
}

// Close shuts down the Discord session.
func (dc *DiscordClient) Close() error {
	if dc.session == nil {
		return nil
	}
	return dc.session.Close()
}

// priorityColor maps notification priority to the embed strip color.
func priorityColor(priority string) int {
	switch priority {
	case "urgent":
		return 0xdc3545
	case "high":
		return 0xffc107
	default:
		return 0x0dcaf0
	}
}
