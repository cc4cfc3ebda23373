// Package notify composes scheduled meal announcements and delivers them
// through the incoming webhook.
package notify

import (
	"context"
	"log/slog"

	"menubot/internal/domain"
	"menubot/internal/menu"
)

// Fixed announcement copy per meal.
const (
	lunchText  = "🍚 오늘의 점심 메뉴입니다! 맛있게 드세요!"
	dinnerText = "🌙 오늘의 저녁 메뉴입니다! 7,800원의 행복!"
)

// ComposerConfig carries the optional sender identity and the pieces needed
// to construct interactive buttons.
type ComposerConfig struct {
	Username string
	IconURL  string
	BaseURL  string // externally reachable address; empty disables buttons
	Token    string // shared secret embedded into button contexts
	Logger   *slog.Logger
}

// Composer builds the outbound payload for a meal announcement. When today's
// menu is absent it composes nothing: no menu, no post.
type Composer struct {
	resolver *menu.Resolver
	client   *WebhookClient
	cfg      ComposerConfig
	logger   *slog.Logger
}

func NewComposer(resolver *menu.Resolver, client *WebhookClient, cfg ComposerConfig) *Composer {
	return &Composer{resolver: resolver, client: client, cfg: cfg, logger: cfg.Logger}
}

// Compose resolves today's menu for the meal and shapes the webhook payload.
// Returns (nil, nil) when the menu is not published yet.
func (c *Composer) Compose(ctx context.Context, meal domain.Meal) (*domain.OutboundMessage, error) {
	row, ok, err := c.resolver.Row(ctx, 0)
	if err != nil {
		return nil, err
	}

	url := row.ImageURL(meal)
	if !ok || url == "" {
		c.logger.Info("no menu to announce", "meal", meal, "date", c.resolver.Date(0))
		return nil, nil
	}

	text := lunchText
	if meal == domain.MealDinner {
		text = dinnerText
	}

	var actions []domain.Action
	if c.cfg.BaseURL != "" {
		tally := domain.ParseTally(row.Feedback(meal))
		actions = VoteActions(c.cfg.BaseURL, c.cfg.Token, row.Date, meal, url,
			tally.Count(domain.VoteUp), tally.Count(domain.VoteDown))
	}

	return &domain.OutboundMessage{
		Text:        text,
		Username:    c.cfg.Username,
		IconURL:     c.cfg.IconURL,
		Attachments: []domain.Attachment{MenuAttachment(meal, url, actions)},
	}, nil
}

// Post composes and delivers the announcement for the meal. Absent menus are
// a logged no-op; delivery failures are returned for the caller to log, never
// retried.
func (c *Composer) Post(ctx context.Context, meal domain.Meal) error {
	msg, err := c.Compose(ctx, meal)
	if err != nil {
		return err
	}
	if msg == nil {
		return nil
	}

	if err := c.client.Send(ctx, msg); err != nil {
		return err
	}
	c.logger.Info("announcement posted", "meal", meal)
	return nil
}
