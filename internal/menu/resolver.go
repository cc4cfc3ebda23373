// Package menu holds the lookup logic layered on the tabular store: resolving
// a single meal's image URL for a date offset, and aggregating a week of rows
// into a digest table.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"menubot/internal/domain"
)

// Resolver answers "what is the menu for today+offset" questions. A missing
// row or an empty cell is Absent, not an error; only a store failure is
// surfaced as an error.
type Resolver struct {
	store  domain.MenuStore
	loc    *time.Location
	logger *slog.Logger
	now    func() time.Time // injectable clock
}

func NewResolver(store domain.MenuStore, loc *time.Location, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the resolver's clock. Test hook.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Date returns the row key for today+offset in the anchored timezone.
func (r *Resolver) Date(dayOffset int) string {
	return r.now().In(r.loc).AddDate(0, 0, dayOffset).Format(domain.DateFormat)
}

// Row returns the full row for today+dayOffset. ok=false with a nil error
// means no row exists for that date.
func (r *Resolver) Row(ctx context.Context, dayOffset int) (domain.MenuRow, bool, error) {
	date := r.Date(dayOffset)

	row, err := r.store.FindRow(ctx, date)
	if errors.Is(err, domain.ErrRowNotFound) {
		r.logger.Info("no menu row for date", "date", date)
		return domain.MenuRow{}, false, nil
	}
	if err != nil {
		return domain.MenuRow{}, false, fmt.Errorf("lookup %s: %w", date, err)
	}
	return row, true, nil
}

// Resolve looks up the image URL for the given meal at today+dayOffset.
// ok=false with a nil error means the menu is simply not published yet.
func (r *Resolver) Resolve(ctx context.Context, meal domain.Meal, dayOffset int) (string, bool, error) {
	row, ok, err := r.Row(ctx, dayOffset)
	if err != nil || !ok {
		return "", false, err
	}

	url := row.ImageURL(meal)
	if url == "" {
		r.logger.Info("menu cell empty", "date", row.Date, "meal", meal)
		return "", false, nil
	}
	return url, true, nil
}
