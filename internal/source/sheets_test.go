package source

import (
	"context"
	"errors"
	"testing"
)

type stubValues struct {
	rows     [][]any
	err      error
	gotID    string
	gotRange string
}

func (s *stubValues) GetValues(_ context.Context, spreadsheetID, readRange string) ([][]any, error) {
	s.gotID = spreadsheetID
	s.gotRange = readRange
	return s.rows, s.err
}

func TestSheetsSource_Fetch(t *testing.T) {
	stub := &stubValues{rows: [][]any{
		{"Name", "Category", "Area", "Image URL", "Rating", "Notes"},
		{"Sunset Hotel", "1.Hotels", "2.Bodija", "https://img.example/a.jpg", 4.5, "pool"},
		{"Short Row", "3.Cafes"},
		{"", "", "", ""},
		{},
		{"No Category", "", "5.Ring Road"},
	}}
	src := newSheetsSource(stub, "sheet-1", "Listings!A:Z", RecordDecoder{})

	listings, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotID != "sheet-1" || stub.gotRange != "Listings!A:Z" {
		t.Fatalf("unexpected request: %s %s", stub.gotID, stub.gotRange)
	}
	if len(listings) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(listings))
	}

	first := listings[0]
	if first.Name != "Sunset Hotel" || first.Rating != "4.5" || first.Extra["notes"] != "pool" {
		t.Fatalf("unexpected first listing: %+v", first)
	}
	if len(first.Images) != 1 {
		t.Fatalf("expected image parsed from header alias, got %v", first.Images)
	}
	if listings[1].Category != "3.Cafes" || listings[1].Area != "" {
		t.Fatalf("expected short row padded, got %+v", listings[1])
	}
	if listings[2].CategoryKey() != "other.other" {
		t.Fatalf("expected fallback key, got %q", listings[2].CategoryKey())
	}
}

func TestSheetsSource_EmptySheet(t *testing.T) {
	src := newSheetsSource(&stubValues{}, "id", "A:Z", RecordDecoder{})
	listings, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if listings == nil || len(listings) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", listings)
	}
}

func TestSheetsSource_Error(t *testing.T) {
	src := newSheetsSource(&stubValues{err: errors.New("403 forbidden")}, "id", "A:Z", RecordDecoder{})
	if _, err := src.Fetch(context.Background()); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
