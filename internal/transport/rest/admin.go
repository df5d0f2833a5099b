package rest

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/abgdnv/soapshop/internal/auth"
	perrors "github.com/abgdnv/soapshop/internal/errors"
	"github.com/abgdnv/soapshop/internal/media"
	"github.com/abgdnv/soapshop/internal/service"
	"github.com/abgdnv/soapshop/pkg/web"
	"github.com/shopspring/decimal"
)

const (
	AdminCookieName = "admin_auth"

	// multipart parts above this size are spooled to disk
	multipartMemory = 1 << 20
)

// LoginDto carries the admin password.
type LoginDto struct {
	Password string `json:"password" validate:"required,max=256"`
}

// Login checks the admin password and sets the admin cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var dto LoginDto
	if err := web.DecodeJSON(r, &dto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		web.RespondValidationError(w, r, mLogger, err)
		return
	}

	token, err := h.Admin.Login(dto.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			mLogger.WarnContext(r.Context(), "Admin login failed")
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Invalid password")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error issuing admin token", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to log in")
		return
	}
	http.SetCookie(w, h.adminCookie(token, int(h.Admin.TTL().Seconds())))
	mLogger.InfoContext(r.Context(), "Admin logged in")
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]bool{"success": true})
}

// Logout clears the admin cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	http.SetCookie(w, h.adminCookie("", -1))
	mLogger.InfoContext(r.Context(), "Admin logged out")
	web.RespondJSON(w, mLogger, http.StatusOK, map[string]bool{"success": true})
}

// RequireAdmin rejects requests without a valid admin cookie.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mLogger := h.loggerWithReqID(r)
		cookie, err := r.Cookie(AdminCookieName)
		if err != nil {
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if err := h.Admin.Verify(cookie.Value); err != nil {
			mLogger.WarnContext(r.Context(), "Rejected admin token", "error", err)
			web.RespondError(w, mLogger, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminSession confirms the caller holds a valid admin cookie.
func (h *Handler) AdminSession(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, map[string]bool{"authenticated": true})
}

// AdminList returns every product with category statistics.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	listing, err := h.Products.AdminList(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", listing.Stats.Total)
	web.RespondJSON(w, mLogger, http.StatusOK, listing)
}

// AdminCreate handles the multipart product form.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	form, image, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}

	created, err := h.Products.Create(r.Context(), form, readerOrNil(image))
	if err != nil {
		if h.respondImageError(w, r, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// AdminUpdate handles the multipart product form for an existing product.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.PathID(w, r, mLogger)
	if !ok {
		return
	}
	form, image, ok := h.parseProductForm(w, r)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}

	updated, err := h.Products.Update(r.Context(), id, form, readerOrNil(image))
	if err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) || errors.Is(err, perrors.ErrInvalidProductID) {
			mLogger.WarnContext(r.Context(), "Product not found for update", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		if h.respondImageError(w, r, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// AdminDelete deletes a product by its ID.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.PathID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.Products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, perrors.ErrProductNotFound) || errors.Is(err, perrors.ErrInvalidProductID) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %s", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// parseProductForm reads and validates the multipart product form.
// The returned file is nil when no image was uploaded.
func (h *Handler) parseProductForm(w http.ResponseWriter, r *http.Request) (service.ProductFormDto, multipart.File, bool) {
	mLogger := h.loggerWithReqID(r)
	var form service.ProductFormDto
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		mLogger.ErrorContext(r.Context(), "Error parsing multipart form", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid form data")
		return form, nil, false
	}

	price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
	if err != nil {
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{
			"validation_errors": map[string]string{"Price": "failed on rule: decimal"},
		})
		return form, nil, false
	}
	stock := 0
	if raw := strings.TrimSpace(r.FormValue("stock")); raw != "" {
		if stock, err = strconv.Atoi(raw); err != nil {
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{
				"validation_errors": map[string]string{"Stock": "failed on rule: number"},
			})
			return form, nil, false
		}
	}

	form = service.ProductFormDto{
		Name:            strings.TrimSpace(r.FormValue("name")),
		Description:     strings.TrimSpace(r.FormValue("description")),
		LongDescription: strings.TrimSpace(r.FormValue("longDescription")),
		Price:           price,
		Category:        strings.TrimSpace(r.FormValue("category")),
		Stock:           stock,
		Ingredients:     splitList(r.FormValue("ingredients")),
	}
	if err := h.validate.Struct(form); err != nil {
		web.RespondValidationError(w, r, mLogger, err)
		return form, nil, false
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil, true
		}
		mLogger.ErrorContext(r.Context(), "Error reading uploaded image", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid image upload")
		return form, nil, false
	}
	return form, file, true
}

// respondImageError maps upload failures to client errors. It reports whether it wrote a response.
func (h *Handler) respondImageError(w http.ResponseWriter, r *http.Request, err error) bool {
	mLogger := h.loggerWithReqID(r)
	switch {
	case errors.Is(err, media.ErrUnsupportedImage):
		mLogger.WarnContext(r.Context(), "Rejected image upload", "error", err)
		web.RespondError(w, mLogger, http.StatusUnsupportedMediaType, "Image must be a JPEG, PNG, WebP or GIF file")
		return true
	case errors.Is(err, media.ErrImageTooLarge):
		mLogger.WarnContext(r.Context(), "Rejected image upload", "error", err)
		web.RespondError(w, mLogger, http.StatusRequestEntityTooLarge, "Image is too large")
		return true
	}
	return false
}

func (h *Handler) adminCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     AdminCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureAdminCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// splitList turns a comma or newline separated field into trimmed, non-empty entries.
func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// readerOrNil avoids handing a typed nil file to the service as a non-nil io.Reader.
func readerOrNil(f multipart.File) io.Reader {
	if f == nil {
		return nil
	}
	return f
}
