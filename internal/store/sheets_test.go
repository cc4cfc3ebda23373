package store

import (
	"os"
	"path/filepath"
	"testing"

	"menubot/internal/config"
	"menubot/internal/domain"
)

func TestRowFromValues_FullRow(t *testing.T) {
	row := rowFromValues([]any{"2025-06-02", "https://img/l.png", "https://img/d.png", "up:alice|down:", "up:|down:bob"})
	want := domain.MenuRow{
		Date:           "2025-06-02",
		LunchURL:       "https://img/l.png",
		DinnerURL:      "https://img/d.png",
		LunchFeedback:  "up:alice|down:",
		DinnerFeedback: "up:|down:bob",
	}
	if row != want {
		t.Errorf("got %+v, want %+v", row, want)
	}
}

func TestRowFromValues_ShortRow(t *testing.T) {
	// The API omits trailing empty cells.
	row := rowFromValues([]any{"2025-06-02", "https://img/l.png"})
	if row.Date != "2025-06-02" || row.LunchURL != "https://img/l.png" {
		t.Errorf("got %+v", row)
	}
	if row.DinnerURL != "" || row.LunchFeedback != "" || row.DinnerFeedback != "" {
		t.Errorf("missing cells must map to empty strings: %+v", row)
	}
}

func TestRowFromValues_TrimsWhitespace(t *testing.T) {
	row := rowFromValues([]any{" 2025-06-02 ", " https://img/l.png "})
	if row.Date != "2025-06-02" || row.LunchURL != "https://img/l.png" {
		t.Errorf("got %+v", row)
	}
}

func TestFeedbackColumn(t *testing.T) {
	if got := feedbackColumn(domain.MealLunch); got != "D" {
		t.Errorf("lunch feedback column: %q", got)
	}
	if got := feedbackColumn(domain.MealDinner); got != "E" {
		t.Errorf("dinner feedback column: %q", got)
	}
}

func TestCredentials_InlineWinsOverFile(t *testing.T) {
	key, source, err := credentials(config.StoreConfig{
		CredentialsJSON: `{"type":"service_account"}`,
		CredentialsFile: "/nonexistent/creds.json",
	})
	if err != nil {
		t.Fatal(err)
	}
	if source != "inline" {
		t.Errorf("inline key must win, got source %q", source)
	}
	if string(key) != `{"type":"service_account"}` {
		t.Errorf("key: %s", key)
	}
}

func TestCredentials_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	key, source, err := credentials(config.StoreConfig{CredentialsFile: path})
	if err != nil {
		t.Fatal(err)
	}
	if source != path {
		t.Errorf("source: %q", source)
	}
	if len(key) == 0 {
		t.Error("empty key")
	}
}

func TestCredentials_NoneConfigured(t *testing.T) {
	if _, _, err := credentials(config.StoreConfig{}); err == nil {
		t.Fatal("expected error when no credentials are configured")
	}
}
