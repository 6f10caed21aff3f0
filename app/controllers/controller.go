// Package controllers adapts HTTP requests to the services.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	appctx "github.com/shashiranjanraj/storefront/pkg/ctx"
)

// fail writes a service error as-is; anything else becomes a 500 with
// fallback as the message.
func fail(c *appctx.Context, err error, fallback string) {
	var se *services.Error
	if errors.As(err, &se) {
		c.FailWith(se.Status, se.Message, se.Err, se.Extra)
		return
	}
	c.Fail(http.StatusInternalServerError, fallback, err)
}
