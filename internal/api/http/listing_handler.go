package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"selfstore-backend/internal/domain"
	"selfstore-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
}

func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListListings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	listings, err := h.listings.ListByProvider(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
}

type listingRequest struct {
	Title          string `json:"title"`
	StorageType    string `json:"storage_type"`
	Size           string `json:"size"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	BasePriceCents int64  `json:"base_price_cents"`
	TotalUnits     int32  `json:"total_units"`
	Status         string `json:"status"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	listing := &domain.StorageListing{
		ProviderID:     UserIDFrom(r.Context()),
		Title:          req.Title,
		StorageType:    req.StorageType,
		Size:           req.Size,
		Location:       req.Location,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		TotalUnits:     req.TotalUnits,
		Status:         domain.ListingStatus(req.Status),
	}
	if err := h.listings.CreateListing(r.Context(), listing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req listingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	listing := &domain.StorageListing{
		ID:             id,
		Title:          req.Title,
		StorageType:    req.StorageType,
		Size:           req.Size,
		Location:       req.Location,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		TotalUnits:     req.TotalUnits,
		Status:         domain.ListingStatus(req.Status),
	}
	if err := h.listings.UpdateListing(r.Context(), UserIDFrom(r.Context()), listing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.listings.DeleteListing(r.Context(), UserIDFrom(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// pathID parses a numeric path variable, answering 400 on garbage.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		writeErrorCode(w, http.StatusBadRequest, "invalid_id", "path parameter "+name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
