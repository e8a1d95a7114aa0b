package service

import (
	"context"
	"fmt"
	"strings"

	"vinyl-crate/internal/model"
	"vinyl-crate/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	vinylRepo repository.VinylRepository
	logger    zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(vinylRepo repository.VinylRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		vinylRepo: vinylRepo,
		logger:    logger.With().Str("service", "catalog").Logger(),
	}
}

// GetAll retrieves all vinyls with pagination.
func (s *catalogService) GetAll(ctx context.Context, limit, offset int) ([]model.Vinyl, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	vinyls, err := s.vinylRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get vinyls")
		return nil, fmt.Errorf("failed to get vinyls: %w", err)
	}

	if vinyls == nil {
		vinyls = []model.Vinyl{}
	}

	return vinyls, nil
}

// GetByID retrieves a single vinyl by ID.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Vinyl, error) {
	if id == "" {
		return nil, model.ErrVinylNotFound
	}

	vinyl, err := s.vinylRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("vinyl_id", id).Msg("failed to get vinyl")
		return nil, fmt.Errorf("failed to get vinyl: %w", err)
	}

	if vinyl == nil {
		return nil, model.ErrVinylNotFound
	}

	return vinyl, nil
}

// GetBySlug retrieves a single vinyl by its URL slug.
func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*model.Vinyl, error) {
	if slug == "" {
		return nil, model.ErrVinylNotFound
	}

	vinyl, err := s.vinylRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get vinyl by slug")
		return nil, fmt.Errorf("failed to get vinyl by slug: %w", err)
	}

	if vinyl == nil {
		return nil, model.ErrVinylNotFound
	}

	return vinyl, nil
}

// Search retrieves vinyls matching the query by title or artist. A blank
// query returns an empty result rather than the whole catalogue.
func (s *catalogService) Search(ctx context.Context, query string, limit int) ([]model.Vinyl, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.Vinyl{}, nil
	}

	if limit < 1 || limit > 100 {
		limit = 20
	}

	vinyls, err := s.vinylRepo.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("failed to search vinyls")
		return nil, fmt.Errorf("failed to search vinyls: %w", err)
	}

	if vinyls == nil {
		vinyls = []model.Vinyl{}
	}

	return vinyls, nil
}

// GetFeatured retrieves the vinyls flagged for the landing page.
func (s *catalogService) GetFeatured(ctx context.Context, limit int) ([]model.Vinyl, error) {
	if limit < 1 || limit > 50 {
		limit = 8
	}

	vinyls, err := s.vinylRepo.GetFeatured(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get featured vinyls")
		return nil, fmt.Errorf("failed to get featured vinyls: %w", err)
	}

	if vinyls == nil {
		vinyls = []model.Vinyl{}
	}

	return vinyls, nil
}
