package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/light-bringer/salecat-service/internal/app/catalog/domain"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/get_stats"
	"github.com/light-bringer/salecat-service/internal/app/catalog/queries/list_entities"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/create_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/delete_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/sell_entity"
	"github.com/light-bringer/salecat-service/internal/app/catalog/usecases/update_entity"
	"github.com/light-bringer/salecat-service/internal/pkg/logger"
)

const maxBodyBytes = 1 << 20

// CatalogHandler exposes the catalog use cases over HTTP.
// It's a thin coordinator: decode, delegate, encode.
type CatalogHandler struct {
	// Commands
	createEntity *create_entity.Interactor
	updateEntity *update_entity.Interactor
	deleteEntity *delete_entity.Interactor
	sellEntity   *sell_entity.Interactor

	// Queries
	getEntity    *get_entity.Query
	listEntities *list_entities.Query
	getStats     *get_stats.Query
}

// NewCatalogHandler creates a new HTTP catalog handler.
func NewCatalogHandler(
	createEntity *create_entity.Interactor,
	updateEntity *update_entity.Interactor,
	deleteEntity *delete_entity.Interactor,
	sellEntity *sell_entity.Interactor,
	getEntity *get_entity.Query,
	listEntities *list_entities.Query,
	getStats *get_stats.Query,
) *CatalogHandler {
	return &CatalogHandler{
		createEntity: createEntity,
		updateEntity: updateEntity,
		deleteEntity: deleteEntity,
		sellEntity:   sellEntity,
		getEntity:    getEntity,
		listEntities: listEntities,
		getStats:     getStats,
	}
}

// List handles GET /entities?type=&status=.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entities, err := h.listEntities.Execute(r.Context(), &list_entities.Request{
		Type:   domain.EntityType(q.Get("type")),
		Status: domain.Status(q.Get("status")),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(entities))
}

// Create handles POST /entities.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EntityRequest
	if !decode(w, r, &req) {
		return
	}

	draft, err := toDraft(&req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.createEntity.Execute(r.Context(), &create_entity.Request{Draft: draft})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/entities/"+e.ID())
	writeJSON(w, http.StatusCreated, toEntityResponse(e))
}

// Get handles GET /entities/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.getEntity.Execute(r.Context(), &get_entity.Request{EntityID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntityResponse(e))
}

// Update handles PATCH /entities/{id}.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req PatchRequest
	if !decode(w, r, &req) {
		return
	}

	patch, err := toPatch(&req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.updateEntity.Execute(r.Context(), &update_entity.Request{
		EntityID: chi.URLParam(r, "id"),
		Patch:    patch,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntityResponse(e))
}

// Delete handles DELETE /entities/{id}.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.deleteEntity.Execute(r.Context(), &delete_entity.Request{EntityID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Sell handles POST /entities/{id}/sales.
func (h *CatalogHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !decode(w, r, &req) {
		return
	}

	sale, err := toSaleRequest(&req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	e, err := h.sellEntity.Execute(r.Context(), &sell_entity.Request{
		EntityID: chi.URLParam(r, "id"),
		Sale:     sale,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEntityResponse(e))
}

// AvailableTickets handles GET /entities/{id}/available-tickets?offset=&limit=.
func (h *CatalogHandler) AvailableTickets(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	offset, err := queryInt(r, "offset")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	page, err := h.getEntity.AvailableTickets(r.Context(), &get_entity.TicketsRequest{
		EntityID: id,
		Offset:   offset,
		Limit:    limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AvailableTicketsResponse{
		EntityID: id,
		Count:    page.Available,
		Offset:   page.Offset,
		Limit:    page.Limit,
		Numbers:  page.Numbers,
	})
}

// Stats handles GET /stats.
func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStatsResponse(h.getStats.Execute(r.Context())))
}

func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	writeJSON(w, status, ErrorResponse{Error: errorBody(err)})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "malformed JSON body"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = "body too large"
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
			Kind:    string(domain.KindValidation),
			Message: msg,
		}})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// queryInt reads an optional integer query parameter; absent means zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}
