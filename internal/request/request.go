package request

import (
	"github.com/fekuna/omnipos-storefront/internal/validation"
	"github.com/gin-gonic/gin"
)

// Bind decodes the request body and validates it against schema.
func Bind(c *gin.Context, schema validation.Schema) (validation.Input, error) {
	in, err := validation.FromRequest(c.Request)
	if err != nil {
		return nil, err
	}
	if verr := schema.Validate(in); verr != nil {
		return nil, verr
	}
	return in, nil
}

// BindQuery validates the query string against schema.
func BindQuery(c *gin.Context, schema validation.Schema) (validation.Input, error) {
	in := validation.FromValues(c.Request.URL.Query())
	if verr := schema.Validate(in); verr != nil {
		return nil, verr
	}
	return in, nil
}
