package handlers

import (
	"context"
	"log"

	"github.com/agrolink/farm-service-backend/models"
)

// Dependencies aggregates shared services used by handlers.
type Dependencies struct {
	Logger *log.Logger
	App    StoreService
}

// StoreService is the minimal interface handlers need to reach the store.
type StoreService interface {
	RegisterUser(ctx context.Context, user *models.User) (int64, error)
	GetUser(ctx context.Context, telegramID string) (models.User, error)
	CreateBooking(ctx context.Context, booking *models.Booking) (int64, error)
	Bookings(ctx context.Context, userID int64) ([]models.Booking, error)
	CreateGuide(ctx context.Context, guide *models.ProcessingGuide) (int64, error)
	Guides(ctx context.Context, userID int64) ([]models.ProcessingGuide, error)
	Ping(ctx context.Context) error
}

// APIHandlers contains the JSON API routes.
type APIHandlers struct{ Deps Dependencies }

func NewAPIHandlers(deps Dependencies) *APIHandlers {
	return &APIHandlers{Deps: deps}
}
