package menu

import (
	"context"
	"fmt"
	"strings"
	"time"

	"menubot/internal/domain"
)

// Placeholder rendered for a weekday whose menu is not in the sheet yet.
const Placeholder = "미등록"

var weekdayLabels = [5]string{"월", "화", "수", "목", "금"}

// BuildWeekTable renders Monday through Friday of the current ISO week as a
// three-column markdown table. The store is hit exactly once; missing dates
// render as the placeholder, never shrink the table. A failed batch read
// fails the whole digest.
func (r *Resolver) BuildWeekTable(ctx context.Context) (string, error) {
	rows, err := r.store.ListRows(ctx)
	if err != nil {
		return "", fmt.Errorf("weekly digest: %w", err)
	}

	byDate := make(map[string]domain.MenuRow, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	monday := WeekOf(r.now(), r.loc)

	var sb strings.Builder
	sb.WriteString("| 요일 | 점심 | 저녁 |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for i := 0; i < 5; i++ {
		day := monday.AddDate(0, 0, i)
		row := byDate[day.Format(domain.DateFormat)]
		fmt.Fprintf(&sb, "| %s (%d일) | %s | %s |\n",
			weekdayLabels[i], day.Day(),
			linkOrPlaceholder(row.LunchURL, "점심 보기"),
			linkOrPlaceholder(row.DinnerURL, "저녁 보기"),
		)
	}
	return sb.String(), nil
}

func linkOrPlaceholder(url, label string) string {
	if url == "" {
		return Placeholder
	}
	return fmt.Sprintf("[%s](%s)", label, url)
}

// WeekOf returns the Monday of t's week in the given location.
func WeekOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return t.AddDate(0, 0, -((int(t.Weekday()) + 6) % 7))
}
