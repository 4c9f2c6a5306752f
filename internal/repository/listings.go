package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/marketplace-catalog/internal/dto"
	"github.com/octobees/marketplace-catalog/internal/entity"
)

// ErrListingNotFound indicates there is no stored listing with the given id.
var ErrListingNotFound = errors.New("listing not found")

// insertBatchSize keeps multi-row inserts well below the bind parameter limit.
const insertBatchSize = 200

const listingsTable = "listings"

var listingColumns = []string{
	"id", "name", "category", "area", "price_from", "rating", "image_url",
	"images", "phone", "phone_e164", "address", "description", "extra",
}

const listingsSchema = `
CREATE TABLE IF NOT EXISTS listings (
    id          UUID PRIMARY KEY,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    area        TEXT NOT NULL DEFAULT '',
    price_from  TEXT NOT NULL DEFAULT '',
    rating      TEXT NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL DEFAULT '',
    images      TEXT[] NOT NULL DEFAULT '{}',
    phone       TEXT NOT NULL DEFAULT '',
    phone_e164  TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    extra       JSONB NOT NULL DEFAULT '{}'::jsonb,
    imported_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS listings_category_position_idx ON listings (category, position);
CREATE INDEX IF NOT EXISTS listings_area_position_idx ON listings (area, position);
`

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var _ pgxPool = (*pgxpool.Pool)(nil)

// ListingsRepository describes persistence operations for imported listings.
type ListingsRepository interface {
	EnsureSchema(ctx context.Context) error
	ReplaceAll(ctx context.Context, listings []entity.Listing) (ReplaceResult, error)
	All(ctx context.Context) ([]entity.Listing, error)
	List(ctx context.Context, query dto.ListingQuery) ([]entity.Listing, error)
	Count(ctx context.Context, query dto.ListingQuery) (int, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
}

// ReplaceResult summarises a snapshot replacement.
type ReplaceResult struct {
	Deleted  int
	Inserted int
}

// PGXListingsRepository implements ListingsRepository using pgx.
type PGXListingsRepository struct {
	pool pgxPool
}

// NewPGXListingsRepository wires a pgx backed repository.
func NewPGXListingsRepository(pool *pgxpool.Pool) *PGXListingsRepository {
	return &PGXListingsRepository{pool: pool}
}

// EnsureSchema creates the listings table and its indexes when missing.
func (r *PGXListingsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, listingsSchema); err != nil {
		return fmt.Errorf("ensure listings schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps the stored snapshot for listings in one transaction. Input
// order is kept in the position column.
func (r *PGXListingsRepository) ReplaceAll(ctx context.Context, listings []entity.Listing) (ReplaceResult, error) {
	var result ReplaceResult

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start replace listings tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM "+listingsTable)
	if err != nil {
		return result, fmt.Errorf("clear listings: %w", err)
	}
	result.Deleted = int(tag.RowsAffected())

	for start := 0; start < len(listings); start += insertBatchSize {
		end := min(start+insertBatchSize, len(listings))

		builder := psql.Insert(listingsTable).Columns(append([]string{"position"}, listingColumns...)...)
		for i := start; i < end; i++ {
			values, err := listingValues(listings[i])
			if err != nil {
				return result, err
			}
			builder = builder.Values(append([]any{i}, values...)...)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return result, fmt.Errorf("build insert listings: %w", err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return result, fmt.Errorf("insert listings batch at %d: %w", start, err)
		}
		result.Inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit replace listings tx: %w", err)
	}
	return result, nil
}

// All returns the stored snapshot in import order.
func (r *PGXListingsRepository) All(ctx context.Context) ([]entity.Listing, error) {
	query, args, err := psql.Select(listingColumns...).From(listingsTable).OrderBy("position").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select listings: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// List returns one page of listings filtered by raw category and area.
func (r *PGXListingsRepository) List(ctx context.Context, q dto.ListingQuery) ([]entity.Listing, error) {
	q = q.Normalize()
	builder := applyListingFilter(psql.Select(listingColumns...).From(listingsTable), q).
		OrderBy("position").
		Limit(uint64(q.PerPage)).
		Offset(uint64(q.Offset()))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list listings: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// Count returns the number of listings matching the query filters. Paging is
// ignored.
func (r *PGXListingsRepository) Count(ctx context.Context, q dto.ListingQuery) (int, error) {
	query, args, err := applyListingFilter(psql.Select("COUNT(*)").From(listingsTable), q).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count listings: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return total, nil
}

// Get returns one stored listing.
func (r *PGXListingsRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query, args, err := psql.Select(listingColumns...).From(listingsTable).Where(squirrel.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get listing: %w", err)
	}
	listing, err := scanListing(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return &listing, nil
}

func applyListingFilter(builder squirrel.SelectBuilder, q dto.ListingQuery) squirrel.SelectBuilder {
	if q.Category != "" {
		builder = builder.Where(squirrel.Eq{"category": q.Category})
	}
	if q.Area != "" {
		builder = builder.Where(squirrel.Eq{"area": q.Area})
	}
	return builder
}

func listingValues(l entity.Listing) ([]any, error) {
	id := uuid.New()
	if l.ID != nil {
		id = *l.ID
	}
	images := l.Images
	if images == nil {
		images = []string{}
	}
	extra := l.Extra
	if extra == nil {
		extra = map[string]string{}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return nil, fmt.Errorf("encode listing extra: %w", err)
	}
	return []any{
		id, l.Name, l.Category, l.Area, l.PriceFrom, l.Rating, l.ImageURL,
		images, l.Phone, l.PhoneE164, l.Address, l.Description, extraJSON,
	}, nil
}

func scanListings(rows pgx.Rows) ([]entity.Listing, error) {
	listings := make([]entity.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func scanListing(row pgx.Row) (entity.Listing, error) {
	var (
		l     entity.Listing
		id    uuid.UUID
		extra []byte
	)
	if err := row.Scan(
		&id, &l.Name, &l.Category, &l.Area, &l.PriceFrom, &l.Rating, &l.ImageURL,
		&l.Images, &l.Phone, &l.PhoneE164, &l.Address, &l.Description, &extra,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return l, err
		}
		return l, fmt.Errorf("scan listing: %w", err)
	}
	l.ID = &id
	if len(l.Images) == 0 {
		l.Images = nil
	}
	if len(extra) > 0 {
		var decoded map[string]string
		if err := json.Unmarshal(extra, &decoded); err == nil && len(decoded) > 0 {
			l.Extra = decoded
		}
	}
	return l, nil
}

var _ ListingsRepository = (*PGXListingsRepository)(nil)
