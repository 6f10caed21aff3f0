// Package ctx provides the request context storefront handlers receive.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helpers for params, binding and the
// JSON envelope:
//
//	func SingleCategory(c *ctx.Context) {
//	    cat, err := svc.BySlug(c.Context(), c.Param("slug"))
//	    ...
//	    c.Success("Get single category successfully", response.Map{"category": cat})
//	}
//
//	router.Get("/single-category/{slug}", "category.show", ctx.Wrap(SingleCategory))
package ctx

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{orderId}" → c.Param("orderId")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, "" when absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	if fwd := c.R.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	if real := c.R.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	ip := c.R.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID returns the signed-in user's id set by middleware.RequireSignIn.
func (c *Context) UserID() string {
	id, _ := middleware.UserIDFromCtx(c.R.Context())
	return id
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetString returns a string value from the store, or "" if absent/wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// A malformed body or a failed rule sends a 400 and returns false.
//
//	var in OrderStatusInput
//	if !c.BindJSON(&in) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		c.Fail(http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if validate.HasErrors(errs) {
		c.status = http.StatusBadRequest
		response.ValidationError(c.W, "Validation failed", errs)
		return false
	}
	return true
}

// ShouldBindJSON decodes without running validation or writing a response.
func (c *Context) ShouldBindJSON(dest any) error {
	return bind.Decode(c.R, dest)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// JSON writes v as-is.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Success sends a 200 envelope.
func (c *Context) Success(message string, payload response.Map) {
	c.status = http.StatusOK
	response.Success(c.W, message, payload)
}

// Created sends a 201 envelope.
func (c *Context) Created(message string, payload response.Map) {
	c.status = http.StatusCreated
	response.Created(c.W, message, payload)
}

// Fail sends a success:false envelope; err may be nil.
func (c *Context) Fail(code int, message string, err error) {
	c.status = code
	response.Fail(c.W, code, message, err)
}

// FailWith is Fail with extra payload keys.
func (c *Context) FailWith(code int, message string, err error, extra response.Map) {
	c.status = code
	response.FailWith(c.W, code, message, err, extra)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized() {
	c.status = http.StatusUnauthorized
	response.Unauthorized(c.W)
}

// NotFound sends a 404.
func (c *Context) NotFound(message string) {
	c.status = http.StatusNotFound
	response.NotFound(c.W, message)
}

// Data writes raw bytes with the given content type.
func (c *Context) Data(code int, contentType string, data []byte) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.WriteHeader(code)
	c.status = code
	c.W.Write(data) //nolint:errcheck
}

// String writes a plain-text response.
func (c *Context) String(code int, s string) {
	c.Data(code, "text/plain; charset=utf-8", []byte(s))
}

// WrittenStatus returns the status written so far, 0 if none.
func (c *Context) WrittenStatus() int { return c.status }
