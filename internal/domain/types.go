package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Lesson struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Price     float64   `json:"price"`
	Location  string    `json:"location"`
	Space     int       `json:"space"`
	CreatedAt time.Time `json:"createdAt"`
}

// LessonDetail is the denormalized copy of a lesson embedded into an order
// at creation time. Later lesson edits do not propagate to it.
type LessonDetail struct {
	ID       uuid.UUID `json:"id"`
	Topic    string    `json:"topic"`
	Price    float64   `json:"price"`
	Location string    `json:"location"`
}

type Order struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	PhoneNumber    string         `json:"phoneNumber"`
	LessonIDs      []uuid.UUID    `json:"lessonIDs"`
	NumberOfSpaces int            `json:"numberOfSpaces"`
	TotalPrice     float64        `json:"totalPrice"`
	OrderDate      time.Time      `json:"orderDate"`
	Status         OrderStatus    `json:"status"`
	Email          string         `json:"email,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	LessonDetails  []LessonDetail `json:"lessonDetails"`
}
