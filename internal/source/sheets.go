package source

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/octobees/marketplace-catalog/internal/entity"
)

// valuesGetter reads a cell range. It is satisfied by the Sheets API wrapper
// and by test stubs.
type valuesGetter interface {
	GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

type sheetsValues struct {
	svc *sheets.Service
}

func (s sheetsValues) GetValues(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// SheetsSource reads listings from a Google spreadsheet whose first row is the
// header.
type SheetsSource struct {
	values        valuesGetter
	spreadsheetID string
	readRange     string
	decoder       RecordDecoder
}

// NewSheetsSource builds a Sheets client. An empty apiKey uses the default
// application credentials with a read-only scope.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange, apiKey string, decoder RecordDecoder) (*SheetsSource, error) {
	opts := []option.ClientOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		opts = append(opts, option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newSheetsSource(sheetsValues{svc: svc}, spreadsheetID, readRange, decoder), nil
}

func newSheetsSource(values valuesGetter, spreadsheetID, readRange string, decoder RecordDecoder) *SheetsSource {
	return &SheetsSource{
		values:        values,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		decoder:       decoder,
	}
}

func (s *SheetsSource) Name() string { return "sheets" }

// Fetch reads the range and decodes every non-blank row.
func (s *SheetsSource) Fetch(ctx context.Context) ([]entity.Listing, error) {
	rows, err := s.values.GetValues(ctx, s.spreadsheetID, s.readRange)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrSourceUnavailable, s.readRange, err)
	}
	return s.decodeRows(rows), nil
}

func (s *SheetsSource) decodeRows(rows [][]any) []entity.Listing {
	listings := make([]entity.Listing, 0)
	if len(rows) == 0 {
		return listings
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = NormalizeKey(cellString(cell))
	}

	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		blank := true
		for i, key := range header {
			if key == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = cellString(row[i])
			}
			if strings.TrimSpace(value) != "" {
				blank = false
			}
			record[key] = value
		}
		if blank {
			continue
		}
		listings = append(listings, s.decoder.Decode(record))
	}
	return listings
}

func cellString(cell any) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}

var _ Source = (*SheetsSource)(nil)
