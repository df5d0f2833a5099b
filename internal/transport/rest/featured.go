package rest

import (
	"errors"
	"net/http"

	"github.com/abgdnv/soapshop/internal/carousel"
	"github.com/abgdnv/soapshop/internal/catalog"
	"github.com/abgdnv/soapshop/pkg/web"
)

// FeaturedResponse is the current carousel slide and the slides it rotates through.
type FeaturedResponse struct {
	State   carousel.State    `json:"state"`
	Product *catalog.Product  `json:"product"`
	Slides  []catalog.Product `json:"slides"`
}

// Featured returns the slide the carousel currently shows.
func (h *Handler) Featured(w http.ResponseWriter, r *http.Request) {
	slides := h.featuredSlides(r)
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.featuredResponse(slides))
}

// FeaturedNext advances the carousel by hand.
func (h *Handler) FeaturedNext(w http.ResponseWriter, r *http.Request) {
	slides := h.featuredSlides(r)
	h.Carousel.Next()
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.featuredResponse(slides))
}

// FeaturedPrev moves the carousel back by hand.
func (h *Handler) FeaturedPrev(w http.ResponseWriter, r *http.Request) {
	slides := h.featuredSlides(r)
	h.Carousel.Prev()
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.featuredResponse(slides))
}

// FeaturedGoTo jumps to a slide.
func (h *Handler) FeaturedGoTo(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	index, ok := web.ParsePathInt(w, r, mLogger, "index", web.Gte(0))
	if !ok {
		return
	}
	slides := h.featuredSlides(r)
	if err := h.Carousel.GoTo(index); err != nil {
		if errors.Is(err, carousel.ErrIndexOutOfRange) {
			mLogger.WarnContext(r.Context(), "Slide index out of range", "index", index, "size", len(slides))
			web.RespondError(w, mLogger, http.StatusBadRequest, err.Error())
			return
		}
		mLogger.ErrorContext(r.Context(), "Error moving carousel", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to move carousel")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, h.featuredResponse(slides))
}

// featuredSlides loads the featured collection and resizes the carousel to match it.
func (h *Handler) featuredSlides(r *http.Request) []catalog.Product {
	slides, err := catalog.Collection(h.FeaturedCollection, h.Products.Catalog(r.Context()))
	if err != nil {
		h.loggerWithReqID(r).ErrorContext(r.Context(), "Featured collection is not available", "collection", h.FeaturedCollection, "error", err)
		slides = []catalog.Product{}
	}
	h.Carousel.SetSize(len(slides))
	return slides
}

func (h *Handler) featuredResponse(slides []catalog.Product) FeaturedResponse {
	state := h.Carousel.State()
	resp := FeaturedResponse{State: state, Slides: slides}
	if state.Index < len(slides) {
		resp.Product = &slides[state.Index]
	}
	return resp
}
