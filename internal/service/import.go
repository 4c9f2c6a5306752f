package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
	"github.com/octobees/marketplace-catalog/internal/repository"
	"github.com/octobees/marketplace-catalog/internal/source"
)

var requiredCSVHeaders = []string{source.KeyName, source.KeyCategory, source.KeyArea}

// ImportService replaces the stored listing snapshot from curator CSV files.
type ImportService struct {
	repo        repository.ListingsRepository
	invalidator invalidator
	decoder     source.RecordDecoder
	logger      *zap.Logger
}

// NewImportService wires the service. inv may be nil when nothing is cached.
func NewImportService(repo repository.ListingsRepository, inv invalidator, decoder source.RecordDecoder, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, invalidator: inv, decoder: decoder, logger: logger}
}

// ImportListingsCSV parses r and swaps the stored snapshot for its rows. Rows
// without a name are skipped; rows without category or area are kept.
func (s *ImportService) ImportListingsCSV(ctx context.Context, r io.Reader) (dto.ImportResult, error) {
	if s.repo == nil {
		return dto.ImportResult{}, ErrStorageUnavailable
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return dto.ImportResult{}, CSVValidationError{Message: "csv file is empty"}
		}
		return dto.ImportResult{}, CSVValidationError{Message: fmt.Sprintf("read csv header: %v", err)}
	}

	columns, err := buildHeaderIndex(header)
	if err != nil {
		return dto.ImportResult{}, err
	}

	var (
		listings []entity.Listing
		skipped  int
		rowNum   = 1
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return dto.ImportResult{}, CSVValidationError{Message: fmt.Sprintf("malformed csv on row %d: %v", rowNum, err)}
		}

		record := make(map[string]string, len(columns))
		for i, key := range columns {
			if key == "" || i >= len(row) {
				continue
			}
			record[key] = row[i]
		}
		if strings.TrimSpace(record[source.KeyName]) == "" {
			skipped++
			continue
		}
		listings = append(listings, s.decoder.Decode(record))
	}

	if len(listings) == 0 {
		return dto.ImportResult{}, CSVValidationError{Message: "csv contains no listings"}
	}

	result, err := s.repo.ReplaceAll(ctx, listings)
	if err != nil {
		return dto.ImportResult{}, fmt.Errorf("store imported listings: %w", err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			s.logger.Warn("snapshot invalidation after import failed", zap.Error(err))
		}
	}
	s.logger.Info("listings imported",
		zap.Int("imported", result.Inserted),
		zap.Int("skipped", skipped),
		zap.Int("replaced", result.Deleted),
	)

	return dto.ImportResult{Imported: result.Inserted, Skipped: skipped, Replaced: result.Deleted}, nil
}

// buildHeaderIndex returns the canonical key of every column. Duplicate
// columns keep the first occurrence.
func buildHeaderIndex(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, col := range header {
		key := source.NormalizeKey(strings.TrimPrefix(col, "\ufeff"))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		columns[i] = key
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := seen[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return columns, nil
}
