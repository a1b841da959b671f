package clients

import (
	"tradebridge/clients/discord"
	"tradebridge/clients/notifier"
	"tradebridge/clients/platformapi"
	"tradebridge/clients/platformevents"
	"tradebridge/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Discord        *discord.DiscordClient
	Notifier       notifier.Notifier // Combined notifier for all channels
	PlatformAPI    *platformapi.PlatformApiClient
	PlatformEvents *platformevents.PlatformEventsClient
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	discordClient := discord.NewDiscordClient(logger, cfg)

	return &Clients{
		Logger:      logger,
		Discord:     discordClient,
		Notifier:    notifier.NewMultiNotifier(discordClient),
		PlatformAPI: platformapi.NewPlatformApiClient(logger, cfg),
		PlatformEvents: platformevents.NewPlatformEventsClient(
			logger,
			cfg.Channel.WebsocketURL,
			cfg.Channel.MessageBufferSize,
		),
	}
}
