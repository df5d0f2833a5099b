package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abgdnv/soapshop/internal/catalog"
	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ListProducts returns the filtered and sorted catalogue view.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	minPrice, ok := web.ParseOptionalDecimal(w, r, mLogger, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := web.ParseOptionalDecimal(w, r, mLogger, "maxPrice")
	if !ok {
		return
	}
	query := r.URL.Query()
	sortBy, err := catalog.ParseSortOrder(query.Get("sortBy"))
	if err != nil {
		mLogger.DebugContext(r.Context(), "Unknown sort order, using newest", "error", err)
	}
	criteria := catalog.Criteria{
		Category: strings.TrimSpace(query.Get("category")),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   sortBy,
	}
	mLogger.DebugContext(r.Context(), "Received request to list products", "criteria", criteria)

	view := catalog.NewView(h.Products.Catalog(r.Context()), criteria)
	h.Metrics.CatalogQuery(string(view.Criteria.SortBy))
	mLogger.DebugContext(r.Context(), "Successfully built catalogue view", "count", view.Count)
	web.RespondJSON(w, mLogger, http.StatusOK, view)
}

// FindByID retrieves a product by its ID.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.PathID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.Products.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) || errors.Is(err, perrors.ErrInvalidProductID) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %s", id))
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Collection returns a curated product collection.
func (h *Handler) Collection(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	slug := chi.URLParam(r, "slug")
	products, err := catalog.Collection(slug, h.Products.Catalog(r.Context()))
	if err != nil {
		mLogger.WarnContext(r.Context(), "Unknown collection", "slug", slug)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Collection %s not found", slug))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]any{
		"slug":     slug,
		"count":    len(products),
		"products": products,
	})
}
