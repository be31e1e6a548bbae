package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sweetshop/internal/middleware"
	"sweetshop/internal/models"
	"sweetshop/internal/repository"
	"sweetshop/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type SweetHandler struct {
	sweetService *services.SweetService
	logger       zerolog.Logger
}

func NewSweetHandler(sweetService *services.SweetService, logger zerolog.Logger) *SweetHandler {
	return &SweetHandler{
		sweetService: sweetService,
		logger:       logger,
	}
}

func (h *SweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r)

	var req models.CreateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	sweet, err := h.sweetService.Create(r.Context(), identity.ID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sweet)
}

func (h *SweetHandler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.sweetService.List(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweets)
}

func (h *SweetHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.SweetFilter{
		Name:     query.Get("name"),
		Category: query.Get("category"),
		MinPrice: parsePrice(query.Get("minPrice")),
		MaxPrice: parsePrice(query.Get("maxPrice")),
	}

	sweets, err := h.sweetService.Search(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweets)
}

// parsePrice parses a numeric query parameter; malformed values are treated
// as absent, not as an error.
func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func (h *SweetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateSweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	sweet, err := h.sweetService.Update(r.Context(), id, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sweet)
}

func (h *SweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.sweetService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Sweet deleted successfully"})
}

func (h *SweetHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sweet, err := h.sweetService.Purchase(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.PurchaseResponse{
		Message: "Purchase successful",
		Sweet: models.PurchasedRef{
			ID:                sweet.ID,
			Name:              sweet.Name,
			RemainingQuantity: sweet.Quantity,
		},
	})
}

func (h *SweetHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	sweet, err := h.sweetService.Restock(r.Context(), id, req.Quantity)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.RestockResponse{
		Message:     "Sweet restocked successfully",
		ID:          sweet.ID,
		Name:        sweet.Name,
		NewQuantity: sweet.Quantity,
	})
}
