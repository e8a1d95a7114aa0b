package repository

import (
	"context"
	"fmt"

	"vinyl-crate/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const vinylColumns = "id, slug, title, artist, price, stock, cover_path, gallery, featured, created_at, updated_at"

// vinylRepository implements the VinylRepository interface using PostgreSQL.
type vinylRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewVinylRepository creates a new PostgreSQL-backed vinyl repository.
func NewVinylRepository(pool *pgxpool.Pool, logger zerolog.Logger) VinylRepository {
	return &vinylRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "vinyl").Logger(),
	}
}

func scanVinyl(row pgx.Row) (*model.Vinyl, error) {
	var v model.Vinyl
	err := row.Scan(
		&v.ID,
		&v.Slug,
		&v.Title,
		&v.Artist,
		&v.Price,
		&v.Stock,
		&v.CoverPath,
		&v.Gallery,
		&v.Featured,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vinylRepository) collectVinyls(rows pgx.Rows) ([]model.Vinyl, error) {
	defer rows.Close()

	var vinyls []model.Vinyl
	for rows.Next() {
		v, err := scanVinyl(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan vinyl row")
			return nil, fmt.Errorf("failed to scan vinyl: %w", err)
		}
		vinyls = append(vinyls, *v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating vinyl rows")
		return nil, fmt.Errorf("error iterating vinyls: %w", err)
	}

	return vinyls, nil
}

// GetAll retrieves all vinyls with pagination support.
func (r *vinylRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Vinyl, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		ORDER BY title
		LIMIT $1 OFFSET $2
	`, vinylColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query vinyls")
		return nil, fmt.Errorf("failed to query vinyls: %w", err)
	}

	return r.collectVinyls(rows)
}

// GetByID retrieves a single vinyl by its ID.
func (r *vinylRepository) GetByID(ctx context.Context, id string) (*model.Vinyl, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		WHERE id = $1
	`, vinylColumns)

	v, err := scanVinyl(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("vinyl_id", id).Msg("vinyl not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("vinyl_id", id).Msg("failed to query vinyl")
		return nil, fmt.Errorf("failed to query vinyl: %w", err)
	}

	return v, nil
}

// GetBySlug retrieves a single vinyl by its URL slug.
func (r *vinylRepository) GetBySlug(ctx context.Context, slug string) (*model.Vinyl, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		WHERE slug = $1
	`, vinylColumns)

	v, err := scanVinyl(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("slug", slug).Msg("vinyl not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query vinyl by slug")
		return nil, fmt.Errorf("failed to query vinyl by slug: %w", err)
	}

	return v, nil
}

// GetByIDs retrieves multiple vinyls by their IDs.
func (r *vinylRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Vinyl, error) {
	if len(ids) == 0 {
		return []model.Vinyl{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		WHERE id = ANY($1)
		ORDER BY title
	`, vinylColumns)

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query vinyls by IDs")
		return nil, fmt.Errorf("failed to query vinyls by IDs: %w", err)
	}

	return r.collectVinyls(rows)
}

// Search retrieves vinyls whose title or artist matches the query.
func (r *vinylRepository) Search(ctx context.Context, query string, limit int) ([]model.Vinyl, error) {
	sql := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		WHERE title ILIKE '%%' || $1 || '%%'
		   OR artist ILIKE '%%' || $1 || '%%'
		ORDER BY title
		LIMIT $2
	`, vinylColumns)

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("query", query).Msg("failed to search vinyls")
		return nil, fmt.Errorf("failed to search vinyls: %w", err)
	}

	return r.collectVinyls(rows)
}

// GetFeatured retrieves the vinyls flagged for the landing page.
func (r *vinylRepository) GetFeatured(ctx context.Context, limit int) ([]model.Vinyl, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM vinyls
		WHERE featured = TRUE
		ORDER BY updated_at DESC
		LIMIT $1
	`, vinylColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query featured vinyls")
		return nil, fmt.Errorf("failed to query featured vinyls: %w", err)
	}

	return r.collectVinyls(rows)
}

// ValidateVinylsExist checks if all provided vinyl IDs exist in the database.
// Returns error if any vinyl ID does not exist.
func (r *vinylRepository) ValidateVinylsExist(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		SELECT COUNT(DISTINCT id)
		FROM vinyls
		WHERE id = ANY($1)
	`

	var count int
	err := r.pool.QueryRow(ctx, query, ids).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to validate vinyls exist")
		return fmt.Errorf("failed to validate vinyls exist: %w", err)
	}

	if count != len(ids) {
		r.logger.Warn().
			Int("expected", len(ids)).
			Int("found", count).
			Msg("not all vinyl IDs exist")
		return model.ErrVinylNotFound
	}

	return nil
}
