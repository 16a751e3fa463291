package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrolink/farm-service-backend/models"
	"github.com/agrolink/farm-service-backend/web/handlers"
)

// fakeStore is an in-memory StoreService. A non-nil err makes every
// operation fail with it.
type fakeStore struct {
	users    map[string]models.User
	bookings map[int64][]models.Booking
	guides   map[int64][]models.ProcessingGuide
	nextID   int64
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]models.User),
		bookings: make(map[int64][]models.Booking),
		guides:   make(map[int64][]models.ProcessingGuide),
	}
}

func (f *fakeStore) RegisterUser(_ context.Context, user *models.User) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.nextID++
	user.ID = f.nextID
	f.users[user.TelegramID] = *user

	return user.ID, nil
}

func (f *fakeStore) GetUser(_ context.Context, telegramID string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}

	user, ok := f.users[telegramID]
	if !ok {
		return models.User{}, models.ErrNotFound
	}

	return user, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, booking *models.Booking) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.nextID++
	booking.ID = f.nextID

	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	f.bookings[booking.UserID] = append(f.bookings[booking.UserID], *booking)

	return booking.ID, nil
}

func (f *fakeStore) Bookings(_ context.Context, userID int64) ([]models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.bookings[userID], nil
}

func (f *fakeStore) CreateGuide(_ context.Context, guide *models.ProcessingGuide) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}

	f.nextID++
	guide.ID = f.nextID
	f.guides[guide.UserID] = append(f.guides[guide.UserID], *guide)

	return guide.ID, nil
}

func (f *fakeStore) Guides(_ context.Context, userID int64) ([]models.ProcessingGuide, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.guides[userID], nil
}

func (f *fakeStore) Ping(context.Context) error {
	return f.err
}

func newRouter(store handlers.StoreService) *mux.Router {
	router := mux.NewRouter()
	handlers.NewAPIHandlers(handlers.Dependencies{App: store}).RegisterRoutes(router)

	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestRegisterSuccess(t *testing.T) {
	router := newRouter(newFakeStore())

	rec := doJSON(t, router, http.MethodPost, "/api/register", map[string]any{
		"telegramId": "u1",
		"name":       "Ann",
		"phone":      "555",
		"location":   "X",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.EqualValues(t, 1, resp.UserID)
	assert.Equal(t, "Registration successful", resp.Message)
}

func TestRegisterMalformedBody(t *testing.T) {
	router := newRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestGetUserAbsentIsNullNotError(t *testing.T) {
	router := newRouter(newFakeStore())

	rec := doJSON(t, router, http.MethodGet, "/api/user/ghost", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":null}`, rec.Body.String())
}

func TestGetUserPresent(t *testing.T) {
	store := newFakeStore()
	router := newRouter(store)

	doJSON(t, router, http.MethodPost, "/api/register", map[string]any{
		"telegramId": "u1", "name": "Ann", "phone": "555",
	})

	rec := doJSON(t, router, http.MethodGet, "/api/user/u1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.NotNil(t, resp.Data)
	assert.EqualValues(t, 1, resp.Data.ID)
	assert.Equal(t, "u1", resp.Data.TelegramID)
	assert.Equal(t, "Ann", resp.Data.Name)
}

func TestCreateBookingSuccess(t *testing.T) {
	router := newRouter(newFakeStore())

	rec := doJSON(t, router, http.MethodPost, "/api/bookings", map[string]any{
		"userId":      1,
		"name":        "Ann",
		"age":         30,
		"address":     "Y",
		"farmSize":    2.5,
		"equipment":   "tractor",
		"serviceDate": "2024-06-01",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.EqualValues(t, 1, resp.BookingID)
	assert.Equal(t, "Booking created successfully", resp.Message)
}

func TestListBookingsEmptyIsArray(t *testing.T) {
	router := newRouter(newFakeStore())

	rec := doJSON(t, router, http.MethodGet, "/api/bookings/1", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestCreateGuideSuccess(t *testing.T) {
	router := newRouter(newFakeStore())

	rec := doJSON(t, router, http.MethodPost, "/api/processing", map[string]any{
		"userId":   1,
		"question": "how to dry cassava",
		"response": "spread thin, turn daily",
		"type":     "processing",
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.GuideResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.EqualValues(t, 1, resp.GuideID)
	assert.Equal(t, "Processing guide saved", resp.Message)
}

func TestStorageErrorEnvelope(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("disk I/O error")
	router := newRouter(store)

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/register", map[string]any{"telegramId": "u1"}},
		{http.MethodGet, "/api/user/u1", nil},
		{http.MethodPost, "/api/bookings", map[string]any{"userId": 1}},
		{http.MethodGet, "/api/bookings/1", nil},
		{http.MethodPost, "/api/processing", map[string]any{"userId": 1}},
		{http.MethodGet, "/api/processing/1", nil},
	}

	for _, tc := range paths {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := doJSON(t, router, tc.method, tc.path, tc.body)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"success":false,"error":"disk I/O error"}`, rec.Body.String())
		})
	}
}

func TestHealthCheck(t *testing.T) {
	store := newFakeStore()
	router := newRouter(store)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	store.err = errors.New("store down")

	rec = doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
