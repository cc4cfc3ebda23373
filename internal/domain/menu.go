package domain

import "context"

// Meal identifies which of the two daily meals a row cell, an announcement,
// or a vote refers to.
type Meal string

const (
	MealLunch  Meal = "lunch"
	MealDinner Meal = "dinner"
)

func (m Meal) Valid() bool {
	return m == MealLunch || m == MealDinner
}

// Label is the Korean display name used in user-facing copy.
func (m Meal) Label() string {
	if m == MealDinner {
		return "저녁"
	}
	return "점심"
}

// DateFormat is the row key layout used throughout the sheet (column A).
const DateFormat = "2006-01-02"

// MenuRow is one calendar date's record in the tabular store. Rows are
// published externally; this system only reads menu cells and rewrites
// feedback cells.
type MenuRow struct {
	Date           string `json:"date"`
	LunchURL       string `json:"lunch_image_url,omitempty"`
	DinnerURL      string `json:"dinner_image_url,omitempty"`
	LunchFeedback  string `json:"lunch_feedback,omitempty"`
	DinnerFeedback string `json:"dinner_feedback,omitempty"`
}

// ImageURL returns the menu image cell for the given meal. Empty means the
// menu has not been published yet.
func (r MenuRow) ImageURL(meal Meal) string {
	if meal == MealDinner {
		return r.DinnerURL
	}
	return r.LunchURL
}

// Feedback returns the raw feedback tally cell for the given meal.
func (r MenuRow) Feedback(meal Meal) string {
	if meal == MealDinner {
		return r.DinnerFeedback
	}
	return r.LunchFeedback
}

// MenuStore is the interface to the external tabular store. Implementations
// must return ErrRowNotFound (possibly wrapped) when a date has no row;
// any other error means the store itself was unreachable and callers degrade
// to "no menu available" behavior.
type MenuStore interface {
	// FindRow looks up the single row keyed by date (DateFormat).
	FindRow(ctx context.Context, date string) (MenuRow, error)

	// ListRows reads every data row in one batch call.
	ListRows(ctx context.Context) ([]MenuRow, error)

	// WriteFeedback replaces the feedback cell for (date, meal).
	WriteFeedback(ctx context.Context, date string, meal Meal, tally string) error
}
