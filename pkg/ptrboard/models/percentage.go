package models

// Percentage is one (status, platform) cell of the progress breakdown.
type Percentage struct {
	// Status is the status value (e.g. Passed, Failed).
	Status string `json:"status"`
	// Platform is the platform discriminator value (e.g. Android).
	Platform string `json:"platform"`
	// Percentage is the share of the platform's records, rounded to 2 decimals.
	Percentage float64 `json:"percentage"`
}
