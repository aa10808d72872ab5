package http

import (
	"errors"
	"net/http"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/assets"

	"github.com/gin-gonic/gin"
)

// formImage returns the uploaded file in field, or nil when the request has
// none. The caller must call the returned close func.
func formImage(c *gin.Context, field string) (*assets.Upload, func(), error) {
	noop := func() {}
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, domain.Validation("invalid %s upload", field)
	}
	if fh.Size > assets.MaxUploadSize {
		return nil, noop, domain.Validation("%s must be at most 2 MiB", field)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &assets.Upload{Filename: fh.Filename, Reader: f}, func() { _ = f.Close() }, nil
}
