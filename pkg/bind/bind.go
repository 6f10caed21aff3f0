// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

const defaultMaxBody = 4 << 20

// MaxBodyBytes returns the configured request body size limit (default 4 MB).
func MaxBodyBytes() int64 {
	n := config.GetInt("MAX_BODY_BYTES", defaultMaxBody)
	if n <= 0 {
		return defaultMaxBody
	}
	return int64(n)
}

// Decode reads r.Body as JSON into dest, capped at MaxBodyBytes.
func Decode(r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// JSON decodes the body into dest and runs validation.
// Returns (errs, nil) when there are validation failures and
// (nil, err) when the body is malformed or too large.
func JSON(r *http.Request, dest any) (map[string]string, error) {
	if err := Decode(r, dest); err != nil {
		return nil, err
	}
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
