package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/biddaddy/auction-api/internal/core/ports"
)

// formFile reads an optional multipart attachment. A missing field
// yields (nil, noop, nil) so the service layer owns the "image required"
// decision and the validation order stays intact.
func formFile(c echo.Context, field string) (*ports.MediaFile, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}

	file := &ports.MediaFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      src,
	}
	return file, func() { _ = src.Close() }, nil
}
