package dto

// ─── Locations ───────────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	Name         string  `json:"name"          validate:"required,min=2,max=120"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
}

type UpdateLocationRequest struct {
	Name         *string `json:"name"          validate:"omitempty,min=2,max=120"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Active       *bool   `json:"active"`
}

type LocationResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ContactEmail *string           `json:"contact_email"`
	Active       bool              `json:"active"`
	Stations     []StationResponse `json:"stations,omitempty"`
}

// ─── Stations ────────────────────────────────────────────────────────────────

type CreateStationRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
}

type StationResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
}

// AssignProductRequest adds a product to a station's count sheet.
type AssignProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Position  int    `json:"position"   validate:"min=0"`
}

type StationProductResponse struct {
	Position int             `json:"position"`
	Product  ProductResponse `json:"product"`
}
