package check_slot

// CheckSlotRequest HTTP request model
type CheckSlotRequest struct {
	Start           string `json:"start" validate:"required"` // RFC3339
	DurationMinutes int    `json:"durationMinutes" validate:"required,gt=0,lte=480"`
}

// CheckSlotResponse HTTP response model
type CheckSlotResponse struct {
	Start           string `json:"start"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}
