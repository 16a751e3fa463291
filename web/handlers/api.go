package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agrolink/farm-service-backend/models"
)

// RegisterRoutes registers the API routes with the router.
func (h *APIHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/user/{telegramId}", h.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/api/bookings", h.CreateBooking).Methods(http.MethodPost)
	router.HandleFunc("/api/bookings/{userId}", h.ListBookings).Methods(http.MethodGet)
	router.HandleFunc("/api/processing", h.CreateGuide).Methods(http.MethodPost)
	router.HandleFunc("/api/processing/{userId}", h.ListGuides).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
}

type registerRequest struct {
	TelegramID string `json:"telegramId"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
}

// Register creates a user or fully replaces the one with the same telegramId.
// Fields the caller omits are cleared; this is a replace, not a patch.
func (h *APIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, err)
		return
	}

	user := models.User{
		TelegramID: req.TelegramID,
		Name:       req.Name,
		Phone:      req.Phone,
		Location:   req.Location,
	}

	id, err := h.Deps.App.RegisterUser(r.Context(), &user)
	if err != nil {
		renderError(w, err)
		return
	}

	if h.Deps.Logger != nil {
		h.Deps.Logger.Printf("Register success: telegram_id=%s user_id=%d", req.TelegramID, id)
	}

	renderJSON(w, http.StatusOK, models.RegisterResponse{
		Success: true,
		UserID:  id,
		Message: "Registration successful",
	})
}

func (h *APIHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	telegramID := mux.Vars(r)["telegramId"]

	user, err := h.Deps.App.GetUser(r.Context(), telegramID)
	if err != nil {
		// Absence is a successful lookup with a null payload.
		if errors.Is(err, models.ErrNotFound) {
			renderJSON(w, http.StatusOK, models.UserResponse{Success: true, Data: nil})
			return
		}

		renderError(w, err)

		return
	}

	renderJSON(w, http.StatusOK, models.UserResponse{Success: true, Data: &user})
}

type bookingRequest struct {
	UserID      int64   `json:"userId"`
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	Address     string  `json:"address"`
	FarmSize    float64 `json:"farmSize"`
	Equipment   string  `json:"equipment"`
	ServiceDate string  `json:"serviceDate"`
}

func (h *APIHandlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, err)
		return
	}

	booking := models.Booking{
		UserID:      req.UserID,
		Name:        req.Name,
		Age:         req.Age,
		Address:     req.Address,
		FarmSize:    req.FarmSize,
		Equipment:   req.Equipment,
		ServiceDate: req.ServiceDate,
	}

	id, err := h.Deps.App.CreateBooking(r.Context(), &booking)
	if err != nil {
		renderError(w, err)
		return
	}

	if h.Deps.Logger != nil {
		h.Deps.Logger.Printf("CreateBooking success: user_id=%d booking_id=%d", req.UserID, id)
	}

	renderJSON(w, http.StatusOK, models.BookingResponse{
		Success:   true,
		BookingID: id,
		Message:   "Booking created successfully",
	})
}

func (h *APIHandlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		renderError(w, err)
		return
	}

	bookings, err := h.Deps.App.Bookings(r.Context(), userID)
	if err != nil {
		renderError(w, err)
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	renderJSON(w, http.StatusOK, models.BookingListResponse{Success: true, Data: bookings})
}

type guideRequest struct {
	UserID   int64  `json:"userId"`
	Question string `json:"question"`
	Response string `json:"response"`
	Type     string `json:"type"`
}

func (h *APIHandlers) CreateGuide(w http.ResponseWriter, r *http.Request) {
	var req guideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, err)
		return
	}

	guide := models.ProcessingGuide{
		UserID:   req.UserID,
		Question: req.Question,
		Response: req.Response,
		Type:     req.Type,
	}

	id, err := h.Deps.App.CreateGuide(r.Context(), &guide)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, models.GuideResponse{
		Success: true,
		GuideID: id,
		Message: "Processing guide saved",
	})
}

func (h *APIHandlers) ListGuides(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil {
		renderError(w, err)
		return
	}

	guides, err := h.Deps.App.Guides(r.Context(), userID)
	if err != nil {
		renderError(w, err)
		return
	}

	if guides == nil {
		guides = []models.ProcessingGuide{}
	}

	renderJSON(w, http.StatusOK, models.GuideListResponse{Success: true, Data: guides})
}

// HealthCheck responds with service and store health info.
func (h *APIHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	storeStatus := "healthy"

	code := http.StatusOK
	if err := h.Deps.App.Ping(r.Context()); err != nil {
		storeStatus = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	renderJSON(w, code, map[string]any{
		"status":    storeStatus,
		"timestamp": time.Now().UTC(),
		"checks": map[string]string{
			"store":  storeStatus,
			"server": "healthy",
		},
	})
}

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError maps any per-request failure to the uniform failure envelope.
// The message carries the raw store error text.
func renderError(w http.ResponseWriter, err error) {
	renderJSON(w, http.StatusInternalServerError, models.ErrorResponse{Success: false, Error: err.Error()})
}
