package service

import (
	"context"
	"log"

	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
)

type UserService interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error)
	Get(ctx context.Context, id string) (*models.UserResponse, error)
	AddCar(ctx context.Context, ownerID string, req *models.CreateCarRequest) (*models.Car, error)
	MyCars(ctx context.Context, ownerID string) ([]*models.Car, error)
}

type userService struct {
	userRepo repository.UserRepository
	carRepo  repository.CarRepository
}

func NewUserService(userRepo repository.UserRepository, carRepo repository.CarRepository) UserService {
	return &userService{userRepo: userRepo, carRepo: carRepo}
}

func (s *userService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.UserResponse, error) {
	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("phone already registered")
	}

	user := &models.User{
		Phone:    req.Phone,
		FullName: req.FullName,
		IsDriver: req.IsDriver,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("phone already registered")
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// Get returns the public profile with aggregated ratings. Rating is nil
// until the user has received at least one review in that role.
func (s *userService) Get(ctx context.Context, id string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	resp := user.ToResponse()
	if rating, err := s.userRepo.AverageRating(ctx, id, false); err == nil {
		resp.RatingAsDriver = rating
	} else {
		log.Printf("user: driver rating lookup failed for %s: %v", id, err)
	}
	if rating, err := s.userRepo.AverageRating(ctx, id, true); err == nil {
		resp.RatingAsPassenger = rating
	} else {
		log.Printf("user: passenger rating lookup failed for %s: %v", id, err)
	}
	return resp, nil
}

func (s *userService) AddCar(ctx context.Context, ownerID string, req *models.CreateCarRequest) (*models.Car, error) {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, apperrors.NotFound("user")
	}
	if !owner.IsDriver {
		return nil, apperrors.Forbidden("only drivers can add cars")
	}

	car := &models.Car{
		OwnerID:        ownerID,
		Brand:          req.Brand,
		Model:          req.Model,
		Color:          req.Color,
		PlateNumber:    req.PlateNumber,
		PassengerSeats: req.PassengerSeats,
		IsActive:       true,
	}
	if err := s.carRepo.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *userService) MyCars(ctx context.Context, ownerID string) ([]*models.Car, error) {
	return s.carRepo.ListByOwner(ctx, ownerID)
}
