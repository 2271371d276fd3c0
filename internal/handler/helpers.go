package handler

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
)

// formPhoto opens an uploaded file from a multipart form. Returns a nil
// reader (not an error) when the field is simply absent, so photo-optional
// endpoints can keep going.
func formPhoto(c *fiber.Ctx, field string) (io.Reader, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// formPhotos collects every uploaded file of a multipart field, for the
// batch endpoint.
func formPhotos(c *fiber.Ctx, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return form.File[field], nil
}
