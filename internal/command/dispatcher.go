// Package command parses inbound slash-command text and shapes the reply.
// Successful lookups are channel-visible; help, absence, and failure notices
// are always ephemeral.
package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"menubot/internal/domain"
	"menubot/internal/menu"
	"menubot/internal/notify"
)

const helpText = `사용할 수 있는 명령어입니다:
- !점심 — 오늘의 점심 메뉴
- !저녁 — 오늘의 저녁 메뉴
- !내일점심 — 내일의 점심 메뉴
- !내일저녁 — 내일의 저녁 메뉴
- !주간메뉴 — 이번 주 (월~금) 메뉴 표`

// Dispatcher is a single-shot state machine over one command invocation.
// It holds no memory between invocations.
type Dispatcher struct {
	resolver *menu.Resolver
	token    string
	logger   *slog.Logger
}

func NewDispatcher(resolver *menu.Resolver, token string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{resolver: resolver, token: token, logger: logger}
}

// Dispatch authenticates, parses, and answers one command. The token check
// happens before any store access; a mismatch returns domain.ErrUnauthorized
// and the HTTP layer answers 401.
func (d *Dispatcher) Dispatch(ctx context.Context, token, text string) (domain.Reply, error) {
	if token != d.token {
		return domain.Reply{}, domain.ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, "!/")
	text = strings.TrimSpace(text)

	if strings.Contains(text, "주간메뉴") {
		return d.weekly(ctx), nil
	}

	offset, prefix := 0, "오늘"
	if rest, ok := strings.CutPrefix(text, "내일"); ok {
		offset, prefix = 1, "내일"
		text = strings.TrimSpace(rest)
	}

	var meal domain.Meal
	switch {
	case strings.Contains(text, "점심"):
		meal = domain.MealLunch
	case strings.Contains(text, "저녁"):
		meal = domain.MealDinner
	default:
		return domain.Ephemeral(helpText), nil
	}

	return d.meal(ctx, meal, offset, prefix), nil
}

func (d *Dispatcher) weekly(ctx context.Context) domain.Reply {
	table, err := d.resolver.BuildWeekTable(ctx)
	if err != nil {
		d.logger.Error("weekly digest failed", "err", err)
		return domain.Ephemeral("주간 메뉴를 불러오지 못했어요. 잠시 후 다시 시도해주세요.")
	}
	return domain.InChannel("📅 이번 주 메뉴입니다!\n\n" + table)
}

func (d *Dispatcher) meal(ctx context.Context, meal domain.Meal, offset int, prefix string) domain.Reply {
	url, ok, err := d.resolver.Resolve(ctx, meal, offset)
	if err != nil {
		d.logger.Error("menu lookup failed", "meal", meal, "offset", offset, "err", err)
		return domain.Ephemeral("메뉴를 불러오지 못했어요. 잠시 후 다시 시도해주세요.")
	}
	if !ok {
		return domain.Ephemeral(fmt.Sprintf("%s %s 메뉴가 아직 등록되지 않았어요.", prefix, meal.Label()))
	}

	att := notify.MenuAttachment(meal, url, nil)
	return domain.InChannel(fmt.Sprintf("%s의 %s 메뉴입니다!", prefix, meal.Label()), att)
}
