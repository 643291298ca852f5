package models

// Requests for the signals HTTP endpoints.

type SignalsRequest struct {
	Date      string `query:"date" json:"date"`
	Strategy  string `query:"strategy" json:"strategy"`
	Direction string `query:"direction" json:"direction" validate:"omitempty,oneof=buy sell"`
}

type RunRequest struct {
	Date string `query:"date" json:"date"`
}
