package models

import "time"

// StatusPending is the only status the service ever assigns. The column is
// stored for the client's benefit; no transition logic exists here.
const StatusPending = "pending"

// Booking represents a farm service booking made by a user.
type Booking struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Address     string    `json:"address"`
	FarmSize    float64   `json:"farmSize"`
	Equipment   string    `json:"equipment"`
	ServiceDate string    `json:"serviceDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProcessingGuide is one question/response exchange logged for a user.
type ProcessingGuide struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Question  string    `json:"question"`
	Response  string    `json:"response"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
