package menu

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"menubot/internal/domain"
)

func TestBuildWeekTable_AlwaysFiveRows(t *testing.T) {
	r := newTestResolver(&fakeStore{rows: map[string]domain.MenuRow{}})

	table, err := r.BuildWeekTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(table), "\n")
	// 2 header lines + 5 weekday rows, regardless of sheet contents.
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), table)
	}
	for _, label := range []string{"월", "화", "수", "목", "금"} {
		if !strings.Contains(table, "| "+label+" (") {
			t.Errorf("missing weekday row %q", label)
		}
	}
}

func TestBuildWeekTable_OnlyWednesdayPopulated(t *testing.T) {
	r := newTestResolver(&fakeStore{rows: map[string]domain.MenuRow{
		"2025-06-04": {
			Date:      "2025-06-04",
			LunchURL:  "https://img/wed-lunch.png",
			DinnerURL: "https://img/wed-dinner.png",
		},
	}})

	table, err := r.BuildWeekTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(table, "https://img/wed-lunch.png") ||
		!strings.Contains(table, "https://img/wed-dinner.png") {
		t.Errorf("wednesday links missing:\n%s", table)
	}
	// The other four weekdays render both cells as the placeholder.
	if got := strings.Count(table, Placeholder); got != 8 {
		t.Errorf("expected 8 placeholder cells, got %d:\n%s", got, table)
	}
}

func TestBuildWeekTable_MondayToFridayOrder(t *testing.T) {
	r := newTestResolver(&fakeStore{rows: map[string]domain.MenuRow{}})

	table, err := r.BuildWeekTable(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Week of Monday 2025-06-02: ordinals 2..6 in order.
	last := -1
	for _, want := range []string{"월 (2일)", "화 (3일)", "수 (4일)", "목 (5일)", "금 (6일)"} {
		idx := strings.Index(table, want)
		if idx < 0 {
			t.Fatalf("missing day label %q:\n%s", want, table)
		}
		if idx < last {
			t.Errorf("day %q out of order", want)
		}
		last = idx
	}
}

func TestBuildWeekTable_BatchFailureFailsWholeDigest(t *testing.T) {
	r := newTestResolver(&fakeStore{listErr: errors.New("quota exceeded")})

	if _, err := r.BuildWeekTable(context.Background()); err == nil {
		t.Fatal("batch read failure must fail the whole digest, not yield partial rows")
	}
}

func TestWeekOf(t *testing.T) {
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2025, 6, 2, 9, 0, 0, 0, kst), "2025-06-02"}, // monday
		{time.Date(2025, 6, 4, 9, 0, 0, 0, kst), "2025-06-02"}, // wednesday
		{time.Date(2025, 6, 8, 9, 0, 0, 0, kst), "2025-06-02"}, // sunday
		{time.Date(2025, 6, 9, 9, 0, 0, 0, kst), "2025-06-09"}, // next monday
	}
	for _, c := range cases {
		if got := WeekOf(c.day, kst).Format(domain.DateFormat); got != c.want {
			t.Errorf("WeekOf(%s): got %s, want %s", c.day.Format(domain.DateFormat), got, c.want)
		}
	}
}
