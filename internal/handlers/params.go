package handlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.napbook/internal/model"
)

const (
	HeaderETag    = "ETag"
	HeaderIfMatch = "If-Match"
)

// pathParams returns the named path segments decoded, failing with
// ErrorBadRequest if any is empty or spans more than one segment.
func pathParams(c echo.Context, names ...string) ([]string, error) {
	values := make([]string, len(names))
	// echo routes on the raw path only when the request carried one.
	escaped := c.Request().URL.RawPath != ""
	for i, name := range names {
		value := c.Param(name)
		// echo folds surplus segments into the last parameter.
		if strings.Contains(value, "/") {
			return nil, fmt.Errorf("too many path segments at %s: %w", name, model.ErrorBadRequest)
		}
		if escaped {
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
		}
		if value == "" {
			return nil, fmt.Errorf("missing path segment %s: %w", name, model.ErrorBadRequest)
		}
		values[i] = value
	}
	return values, nil
}

// bindBody decodes the JSON body only; path and query values are ignored.
func bindBody(c echo.Context, target interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, target); err != nil {
		return fmt.Errorf("decoding body: %v: %w", err, model.ErrorBadRequest)
	}
	return nil
}

// malformed answers 400 for any path under op that the full route missed.
func malformed(e *echo.Echo, method string, op string) {
	e.Add(method, "/"+op, badRequest)
	e.Add(method, "/"+op+"/*", badRequest)
}
