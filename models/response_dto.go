package models

// Response envelopes. Every endpoint answers with a {success, ...} body;
// failures carry the raw store error text.

type RegisterResponse struct {
	Success bool   `json:"success"`
	UserID  int64  `json:"userId"`
	Message string `json:"message"`
}

type UserResponse struct {
	Success bool  `json:"success"`
	Data    *User `json:"data"`
}

type BookingResponse struct {
	Success   bool   `json:"success"`
	BookingID int64  `json:"bookingId"`
	Message   string `json:"message"`
}

type BookingListResponse struct {
	Success bool      `json:"success"`
	Data    []Booking `json:"data"`
}

type GuideResponse struct {
	Success bool   `json:"success"`
	GuideID int64  `json:"guideId"`
	Message string `json:"message"`
}

type GuideListResponse struct {
	Success bool              `json:"success"`
	Data    []ProcessingGuide `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
