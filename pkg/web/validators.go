package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ParamValidator reports whether a parsed parameter is acceptable.
type ParamValidator func(v int64) bool

// Gte accepts values no smaller than lower.
func Gte(lower int64) ParamValidator {
	return func(v int64) bool { return v >= lower }
}

// Between accepts values within [lower, upper].
func Between(lower, upper int64) ParamValidator {
	return func(v int64) bool { return v >= lower && v <= upper }
}

// ParsePathInt reads the chi path parameter key as an int.
// On failure it writes a 400 and returns false.
func ParsePathInt(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string, accept ParamValidator) (int, bool) {
	raw := chi.URLParam(r, key)
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || (accept != nil && !accept(n)) {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", key, raw))
		return 0, false
	}
	return int(n), true
}

// ParseOptionalDecimal parses an optional decimal query parameter.
// A missing parameter yields nil and true. Range checks are left to the caller.
func ParseOptionalDecimal(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", key, raw))
		return nil, false
	}
	return &d, true
}
