// Package store adapts a Google Sheet into the keyed tabular store the rest
// of the bot works against: one row per date, columns mapped by a fixed named
// schema, at most one API call per operation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"menubot/internal/config"
	"menubot/internal/domain"
	"menubot/internal/metrics"
)

// Column layout of the sheet. Replaces the magic numeric offsets the store
// grew up with; resolved in exactly one place.
const (
	colDate = iota // A
	colLunchURL
	colDinnerURL
	colLunchFeedback
	colDinnerFeedback
	colCount
)

// dataRange covers every data row; row 1 is the header.
const dataRange = "A2:E"

// feedbackColumn returns the A1-notation column letter of a meal's feedback
// cell.
func feedbackColumn(meal domain.Meal) string {
	if meal == domain.MealDinner {
		return "E"
	}
	return "D"
}

// Sheets implements domain.MenuStore against the Google Sheets API.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	logger        *slog.Logger
}

// New authenticates with a service-account key and opens the configured
// spreadsheet. The inline JSON key takes precedence over the key file path,
// matching how the bot's hosting environment injects credentials.
func New(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Sheets, error) {
	key, source, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("google credentials loaded", "source", source)

	jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.Worksheet,
		logger:        logger,
	}, nil
}

func credentials(cfg config.StoreConfig) ([]byte, string, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), "inline", nil
	}
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, "", fmt.Errorf("read credentials file: %w", err)
		}
		return data, cfg.CredentialsFile, nil
	}
	return nil, "", fmt.Errorf("no google credentials: set store.credentialsJson or store.credentialsFile")
}

// ListRows reads every data row in a single values call.
func (s *Sheets) ListRows(ctx context.Context) ([]domain.MenuRow, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.worksheet+"!"+dataRange).
		Context(ctx).Do()
	if err != nil {
		metrics.StoreErrors.Inc()
		return nil, fmt.Errorf("read sheet values: %w", err)
	}

	rows := make([]domain.MenuRow, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := rowFromValues(raw)
		if row.Date == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FindRow scans the date column for an exact match, like the original
// find-by-value sheet query.
func (s *Sheets) FindRow(ctx context.Context, date string) (domain.MenuRow, error) {
	row, _, err := s.findRow(ctx, date)
	return row, err
}

// WriteFeedback rewrites the feedback cell of the matched row in RAW mode.
func (s *Sheets) WriteFeedback(ctx context.Context, date string, meal domain.Meal, tally string) error {
	_, num, err := s.findRow(ctx, date)
	if err != nil {
		return err
	}

	cell := fmt.Sprintf("%s!%s%d", s.worksheet, feedbackColumn(meal), num)
	vr := &sheets.ValueRange{Values: [][]any{{tally}}}
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, cell, vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		metrics.StoreErrors.Inc()
		return fmt.Errorf("write feedback cell %s: %w", cell, err)
	}

	s.logger.Info("feedback written", "date", date, "meal", meal, "cell", cell)
	return nil
}

// findRow returns the row and its 1-based sheet row number (offset past the
// header).
func (s *Sheets) findRow(ctx context.Context, date string) (domain.MenuRow, int, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, s.worksheet+"!"+dataRange).
		Context(ctx).Do()
	if err != nil {
		metrics.StoreErrors.Inc()
		return domain.MenuRow{}, 0, fmt.Errorf("read sheet values: %w", err)
	}

	for i, raw := range resp.Values {
		row := rowFromValues(raw)
		if row.Date == date {
			return row, i + 2, nil
		}
	}
	return domain.MenuRow{}, 0, fmt.Errorf("date %s: %w", date, domain.ErrRowNotFound)
}

// rowFromValues maps one raw sheet row onto the named column schema. Trailing
// empty cells are simply absent from the API response.
func rowFromValues(raw []any) domain.MenuRow {
	return domain.MenuRow{
		Date:           cell(raw, colDate),
		LunchURL:       cell(raw, colLunchURL),
		DinnerURL:      cell(raw, colDinnerURL),
		LunchFeedback:  cell(raw, colLunchFeedback),
		DinnerFeedback: cell(raw, colDinnerFeedback),
	}
}

func cell(raw []any, idx int) string {
	if idx >= len(raw) {
		return ""
	}
	s, ok := raw[idx].(string)
	if !ok {
		s = fmt.Sprint(raw[idx])
	}
	return strings.TrimSpace(s)
}
