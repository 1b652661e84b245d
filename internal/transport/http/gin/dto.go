package httpgin

type CreateLessonRequest struct {
	Topic    string  `json:"topic" binding:"required"`
	Location string  `json:"location" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Space    *int    `json:"space" binding:"required,gte=0"`
}

type AdjustSpaceRequest struct {
	Change *int `json:"change" binding:"required"`
}

// CreateOrderRequest deliberately carries no binding tags beyond JSON
// names: the order service applies its own checks in a documented order so
// the client sees the first failure, not a batch of binding errors. A
// scalar lessonIDs value still fails JSON binding and maps to 400.
type CreateOrderRequest struct {
	Name           string   `json:"name"`
	PhoneNumber    string   `json:"phoneNumber"`
	LessonIDs      []string `json:"lessonIDs"`
	NumberOfSpaces int      `json:"numberOfSpaces"`
	Email          string   `json:"email"`
	Notes          string   `json:"notes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ImageNotFoundResponse struct {
	Error         string   `json:"error"`
	RequestedPath string   `json:"requestedPath"`
	Suggestions   []string `json:"suggestions"`
}
