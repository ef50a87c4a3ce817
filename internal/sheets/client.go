// Package sheets implements the record store over the Google Sheets API.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"gourmetbot/core/logger"

	"log/slog"
)

// Config holds Google Sheets access settings.
type Config struct {
	CredentialsFile string `yaml:"credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SHEETS_SPREADSHEET_ID"`
}

// Client is a RowStore over a single spreadsheet. Row indexes are
// 1-based and include the header row, matching how the sheet reads in
// the spreadsheet UI.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewClient builds the Sheets API client from a service account
// credentials file and verifies the spreadsheet is reachable.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("sheets: spreadsheet_id is required")
	}
	svc, err := gsheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("sheets: service init: %w", err)
	}
	c := &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}

	start := time.Now()
	meta, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: open spreadsheet: %w", err)
	}
	logger.Sheets.Info("spreadsheet opened",
		slog.String("event", "sheets.open"),
		slog.Int("tabs", len(meta.Sheets)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return c, nil
}

// EnsureSheet creates the named sheet with the given header row when it
// does not exist yet. Used for Users, which the bot itself populates.
func (c *Client) EnsureSheet(ctx context.Context, title string, header []string) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: list tabs: %w", err)
	}
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			AddSheet: &gsheets.AddSheetRequest{
				Properties: &gsheets.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: add tab %s: %w", title, err)
	}
	if len(header) > 0 {
		if err := c.Append(ctx, title, header); err != nil {
			return err
		}
	}
	logger.Sheets.Info("sheet created",
		slog.String("event", "sheets.create"),
		slog.String("table", title),
	)
	return nil
}

// Rows reads the whole sheet including the header row.
func (c *Client) Rows(ctx context.Context, table string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, table).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", table, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		rows[i] = toStrings(raw)
	}
	return rows, nil
}

// Row reads a single 1-based row. A missing or empty row yields nil.
func (c *Client) Row(ctx context.Context, table string, index int) ([]string, error) {
	if index < 1 {
		return nil, nil
	}
	rng := fmt.Sprintf("%s!%d:%d", table, index, index)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s row %d: %w", table, index, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

// Append adds a row after the last non-empty row of the sheet.
func (c *Client) Append(ctx context.Context, table string, row []string) error {
	values := &gsheets.ValueRange{Values: [][]interface{}{toAnys(row)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, table, values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", table, err)
	}
	return nil
}

// UpdateCell overwrites one cell addressed by 1-based row and column.
func (c *Client) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", table, columnLetter(col), row)
	values := &gsheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, values).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: update %s: %w", rng, err)
	}
	return nil
}

// FindRow scans one column for an exact value and returns the first
// matching row with its values, or index 0 when nothing matches. The
// API offers no search primitive, so this is a column read plus a scan.
func (c *Client) FindRow(ctx context.Context, table string, col int, value string) (int, []string, error) {
	letter := columnLetter(col)
	rng := fmt.Sprintf("%s!%s:%s", table, letter, letter)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, nil, fmt.Errorf("sheets: scan %s column %s: %w", table, letter, err)
	}
	for i, raw := range resp.Values {
		cells := toStrings(raw)
		if len(cells) > 0 && strings.TrimSpace(cells[0]) == value {
			row, err := c.Row(ctx, table, i+1)
			if err != nil {
				return 0, nil, err
			}
			return i + 1, row, nil
		}
	}
	return 0, nil, nil
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toAnys(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
