package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stadtlabs/konzeptvergabe/internal/apperror"
)

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s", name)
	}
	return id, nil
}

func uuidQuery(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Query(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid %s", name)
	}
	return id, nil
}

// formFile expects exactly one multipart file under the given field.
func formFile(c *fiber.Ctx, field string) (*multipart.FileHeader, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, apperror.Validation("Expected one multipart file attachment")
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, apperror.Validation("Expected one multipart file attachment")
	}
	return header, f, nil
}
