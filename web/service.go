package web

import (
	"context"

	"github.com/agrolink/farm-service-backend/models"
)

// Service sits between the HTTP handlers and the repository. Every
// operation is exactly one store round trip.
type Service struct {
	repo models.Repository
}

func NewService(repo models.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RegisterUser(ctx context.Context, user *models.User) (int64, error) {
	return s.repo.UpsertUser(ctx, user)
}

func (s *Service) GetUser(ctx context.Context, telegramID string) (models.User, error) {
	return s.repo.GetUser(ctx, telegramID)
}

func (s *Service) CreateBooking(ctx context.Context, booking *models.Booking) (int64, error) {
	return s.repo.CreateBooking(ctx, booking)
}

func (s *Service) Bookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.repo.ListBookings(ctx, userID)
}

func (s *Service) CreateGuide(ctx context.Context, guide *models.ProcessingGuide) (int64, error) {
	return s.repo.CreateGuide(ctx, guide)
}

func (s *Service) Guides(ctx context.Context, userID int64) ([]models.ProcessingGuide, error) {
	return s.repo.ListGuides(ctx, userID)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
