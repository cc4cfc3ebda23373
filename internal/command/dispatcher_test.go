package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"menubot/internal/domain"
	"menubot/internal/menu"
)

var kst = time.FixedZone("KST", 9*60*60)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type fakeStore struct {
	rows      map[string]domain.MenuRow
	listErr   error
	findErr   error
	findCalls int
}

func (f *fakeStore) FindRow(ctx context.Context, date string) (domain.MenuRow, error) {
	f.findCalls++
	if f.findErr != nil {
		return domain.MenuRow{}, f.findErr
	}
	row, ok := f.rows[date]
	if !ok {
		return domain.MenuRow{}, fmt.Errorf("date %s: %w", date, domain.ErrRowNotFound)
	}
	return row, nil
}

func (f *fakeStore) ListRows(ctx context.Context) ([]domain.MenuRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	rows := make([]domain.MenuRow, 0, len(f.rows))
	for _, row := range f.rows {
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *fakeStore) WriteFeedback(ctx context.Context, date string, meal domain.Meal, tally string) error {
	return nil
}

const token = "slash-token"

// newDispatcher anchors the clock to Monday 2025-06-02 noon KST.
func newDispatcher(store *fakeStore) *Dispatcher {
	resolver := menu.NewResolver(store, kst, testLogger()).WithClock(func() time.Time {
		return time.Date(2025, 6, 2, 12, 0, 0, 0, kst)
	})
	return NewDispatcher(resolver, token, testLogger())
}

func TestDispatch_BadTokenRejectedBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{rows: map[string]domain.MenuRow{}}
	d := newDispatcher(store)

	_, err := d.Dispatch(context.Background(), "wrong", "!점심")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.findCalls != 0 {
		t.Errorf("token mismatch must be rejected before any store access, saw %d calls", store.findCalls)
	}
}

func TestDispatch_TodayLunchInChannel(t *testing.T) {
	// End-to-end scenario: row 2025-06-02 has lunch set, dinner empty.
	store := &fakeStore{rows: map[string]domain.MenuRow{
		"2025-06-02": {Date: "2025-06-02", LunchURL: "https://img/lunch.png"},
	}}
	d := newDispatcher(store)

	reply, err := d.Dispatch(context.Background(), token, "!점심")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyInChannel {
		t.Errorf("successful lookup must be channel-visible, got %s", reply.Type)
	}
	if !strings.Contains(reply.Text, "오늘") || !strings.Contains(reply.Text, "점심") {
		t.Errorf("reply text: %q", reply.Text)
	}
	if len(reply.Attachments) != 1 || reply.Attachments[0].ImageURL != "https://img/lunch.png" {
		t.Errorf("attachments: %+v", reply.Attachments)
	}
}

func TestDispatch_TodayDinnerUnregisteredEphemeral(t *testing.T) {
	store := &fakeStore{rows: map[string]domain.MenuRow{
		"2025-06-02": {Date: "2025-06-02", LunchURL: "https://img/lunch.png"},
	}}
	d := newDispatcher(store)

	reply, err := d.Dispatch(context.Background(), token, "!저녁")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyEphemeral {
		t.Errorf("absence notice must be ephemeral, got %s", reply.Type)
	}
	if !strings.Contains(reply.Text, "등록되지 않았") {
		t.Errorf("reply text: %q", reply.Text)
	}
}

func TestDispatch_TomorrowModifier(t *testing.T) {
	// No row for tomorrow: ephemeral absence with the tomorrow prefix.
	store := &fakeStore{rows: map[string]domain.MenuRow{}}
	d := newDispatcher(store)

	for _, text := range []string{"!내일점심", "!내일저녁", "! 내일 점심"} {
		reply, err := d.Dispatch(context.Background(), token, text)
		if err != nil {
			t.Fatal(err)
		}
		if reply.Type != domain.ReplyEphemeral {
			t.Errorf("%q: expected ephemeral, got %s", text, reply.Type)
		}
		if !strings.Contains(reply.Text, "내일") {
			t.Errorf("%q: absence reply must carry the tomorrow prefix, got %q", text, reply.Text)
		}
	}
}

func TestDispatch_TomorrowLooksUpShiftedDate(t *testing.T) {
	store := &fakeStore{rows: map[string]domain.MenuRow{
		"2025-06-03": {Date: "2025-06-03", LunchURL: "https://img/tue.png"},
	}}
	d := newDispatcher(store)

	reply, err := d.Dispatch(context.Background(), token, "!내일점심")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyInChannel {
		t.Fatalf("got %s: %q", reply.Type, reply.Text)
	}
	if !strings.Contains(reply.Text, "내일") {
		t.Errorf("reply prefix must change for tomorrow: %q", reply.Text)
	}
	if reply.Attachments[0].ImageURL != "https://img/tue.png" {
		t.Errorf("attachments: %+v", reply.Attachments)
	}
}

func TestDispatch_UnknownCommandHelpEphemeral(t *testing.T) {
	d := newDispatcher(&fakeStore{rows: map[string]domain.MenuRow{}})

	for _, text := range []string{"!도움말", "hello", "", "!내일"} {
		reply, err := d.Dispatch(context.Background(), token, text)
		if err != nil {
			t.Fatal(err)
		}
		if reply.Type != domain.ReplyEphemeral {
			t.Errorf("%q: help must never be in-channel, got %s", text, reply.Type)
		}
		for _, cmd := range []string{"점심", "저녁", "주간메뉴"} {
			if !strings.Contains(reply.Text, cmd) {
				t.Errorf("%q: help should enumerate %q", text, cmd)
			}
		}
	}
}

func TestDispatch_WeeklyDigestInChannel(t *testing.T) {
	// Only Wednesday populated: full 5-row table, others unregistered.
	store := &fakeStore{rows: map[string]domain.MenuRow{
		"2025-06-04": {Date: "2025-06-04", LunchURL: "https://img/w-l.png", DinnerURL: "https://img/w-d.png"},
	}}
	d := newDispatcher(store)

	reply, err := d.Dispatch(context.Background(), token, "!주간메뉴")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyInChannel {
		t.Errorf("digest must be channel-visible, got %s", reply.Type)
	}
	if got := strings.Count(reply.Text, menu.Placeholder); got != 8 {
		t.Errorf("expected 8 unregistered cells, got %d:\n%s", got, reply.Text)
	}
	if !strings.Contains(reply.Text, "https://img/w-l.png") || !strings.Contains(reply.Text, "https://img/w-d.png") {
		t.Errorf("wednesday links missing:\n%s", reply.Text)
	}
	for _, label := range []string{"월", "화", "수", "목", "금"} {
		if !strings.Contains(reply.Text, "| "+label+" (") {
			t.Errorf("missing weekday row %q", label)
		}
	}
}

func TestDispatch_WeeklyDigestFailureEphemeral(t *testing.T) {
	d := newDispatcher(&fakeStore{listErr: errors.New("quota exceeded")})

	reply, err := d.Dispatch(context.Background(), token, "!주간메뉴")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyEphemeral {
		t.Errorf("digest failure must be ephemeral, got %s", reply.Type)
	}
}

func TestDispatch_StoreFailureEphemeral(t *testing.T) {
	d := newDispatcher(&fakeStore{findErr: errors.New("network down")})

	reply, err := d.Dispatch(context.Background(), token, "!점심")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Type != domain.ReplyEphemeral {
		t.Errorf("failure notice must be ephemeral, got %s", reply.Type)
	}
}
