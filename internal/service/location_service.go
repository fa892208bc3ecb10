package service

import (
	"context"

	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type LocationService interface {
	List(ctx context.Context) ([]*models.Location, error)
	Get(ctx context.Context, id string) (*models.Location, error)
	Create(ctx context.Context, req *models.CreateLocationRequest) (*models.Location, error)
	LookupOrCreate(ctx context.Context, freeText string) (*models.Location, error)
}

type locationService struct {
	locationRepo repository.LocationRepository
}

func NewLocationService(locationRepo repository.LocationRepository) LocationService {
	return &locationService{locationRepo: locationRepo}
}

func (s *locationService) List(ctx context.Context) ([]*models.Location, error) {
	return s.locationRepo.ListActive(ctx)
}

func (s *locationService) Get(ctx context.Context, id string) (*models.Location, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperrors.NotFound("location")
	}
	return loc, nil
}

func (s *locationService) Create(ctx context.Context, req *models.CreateLocationRequest) (*models.Location, error) {
	loc := &models.Location{
		Code:      req.Code,
		NameRu:    req.NameRu,
		NameEn:    req.NameEn,
		NameKy:    req.NameKy,
		SortOrder: req.SortOrder,
		Region:    req.Region,
		IsActive:  true,
	}
	if err := s.locationRepo.Create(ctx, loc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("location code already exists")
		}
		return nil, err
	}
	return loc, nil
}

// LookupOrCreate resolves a free-text place name to a location row,
// creating one on first sight. Older mobile clients send plain text
// instead of location ids.
func (s *locationService) LookupOrCreate(ctx context.Context, freeText string) (*models.Location, error) {
	code := utils.Slugify(freeText)
	if code == "" {
		return nil, apperrors.Validation("location name is empty")
	}

	loc, err := s.locationRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		return loc, nil
	}

	loc = &models.Location{
		Code:     code,
		NameRu:   freeText,
		NameEn:   freeText,
		NameKy:   freeText,
		IsActive: true,
	}
	err = s.locationRepo.Create(ctx, loc)
	if err == nil {
		return loc, nil
	}
	if repository.IsUniqueViolation(err) {
		// Lost a create race on the code, the winner's row serves.
		return s.locationRepo.GetByCode(ctx, code)
	}
	return nil, err
}
