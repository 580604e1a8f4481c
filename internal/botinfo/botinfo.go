package botinfo

import (
	"context"

	"github.com/meubot/meubot-web/internal/discord"
	"github.com/meubot/meubot-web/pkg/logger"
	"github.com/meubot/meubot-web/pkg/metrics"
)

// BotInfo is the aggregated read-only view served by /bot-info.
// Content fields (description, features, commands) always come from the
// defaults document; live fields win when upstream data is available.
type BotInfo struct {
	Username    string   `json:"username"`
	Avatar      *string  `json:"avatar"`
	Tag         string   `json:"tag"`
	Verified    bool     `json:"verified"`
	Public      bool     `json:"public"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Commands    []string `json:"commands"`
	GuildCount  *int     `json:"guildCount"`
}

// Defaults returns the static document served when every upstream fails.
// The marketing page must always render something.
func Defaults() *BotInfo {
	return &BotInfo{
		Username:    "MeuBot",
		Avatar:      nil,
		Tag:         "MeuBot#1234",
		Verified:    false,
		Public:      true,
		Description: "Seu assistente inteligente no Discord",
		Features: []string{
			"Moderação automática",
			"Economia com carteira e banco",
			"Níveis e ranking de atividade",
			"Comandos personalizados",
		},
		Commands: []string{"/ajuda", "/saldo", "/daily", "/rank", "/loja"},
		GuildCount: nil,
	}
}

type discordAPI interface {
	ApplicationRPC(ctx context.Context, id string) (*discord.ApplicationRPC, error)
	User(ctx context.Context, id string) (*discord.User, error)
}

// Service assembles BotInfo from the Discord API on top of the defaults.
type Service struct {
	discord discordAPI
}

func NewService(d discordAPI) *Service {
	return &Service{discord: d}
}

// Fetch never fails: any upstream error degrades to the defaults document.
func (s *Service) Fetch(ctx context.Context, botID string) *BotInfo {
	info := Defaults()

	app, err := s.discord.ApplicationRPC(ctx, botID)
	if err != nil {
		logger.Warnf("bot-info: application lookup failed for %s: %v", botID, err)
		metrics.BotInfoFallbacks.Inc()
		return info
	}

	info.Verified = app.VerifyKey != ""
	info.Public = app.BotPublic
	if app.ApproximateGuildCount > 0 {
		count := app.ApproximateGuildCount
		info.GuildCount = &count
	}

	// by-id user lookup is best effort; the RPC document alone is enough
	user, err := s.discord.User(ctx, botID)
	if err != nil {
		logger.Debugf("bot-info: user lookup failed for %s: %v", botID, err)
		return info
	}
	if user.Username != "" {
		info.Username = user.Username
		info.Tag = user.Username + "#" + user.Discriminator
	}
	if url := discord.AvatarURL(user.ID, user.Avatar); url != "" {
		info.Avatar = &url
	}
	return info
}
