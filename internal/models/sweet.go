package models

import "time"

type Sweet struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateSweetRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type UpdateSweetRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Quantity *int     `json:"quantity"`
}

type RestockRequest struct {
	Quantity int `json:"quantity"`
}

type PurchaseResponse struct {
	Message string       `json:"message"`
	Sweet   PurchasedRef `json:"sweet"`
}

type PurchasedRef struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RemainingQuantity int    `json:"remainingQuantity"`
}

type RestockResponse struct {
	Message     string `json:"message"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	NewQuantity int    `json:"newQuantity"`
}
