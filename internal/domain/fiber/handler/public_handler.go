package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

// PublicHandler serves the unauthenticated assignment listing shown to
// anyone browsing open tenders.
type PublicHandler struct {
	assignments *usecase.AssignmentUsecase
}

func NewPublicHandler(assignments *usecase.AssignmentUsecase) *PublicHandler {
	return &PublicHandler{assignments: assignments}
}

func (h *PublicHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/assignments", h.List)
	app.Get("/api/assignments/:id", h.Get)
	app.Get("/api/assignments/attachments/:attachmentId", h.DownloadAttachment)
}

func (h *PublicHandler) List(c *fiber.Ctx) error {
	assignments, err := h.assignments.List(false)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignments", Data: assignments,
	})
}

func (h *PublicHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	a, err := h.assignments.Get(id, false)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment", Data: a,
	})
}

func (h *PublicHandler) DownloadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	att, r, err := h.assignments.DownloadAttachment(id, false)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer r.Close()
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+att.Name+`"`)
	return c.SendStream(r)
}
