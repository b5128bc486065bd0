package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/dto"
	"github.com/stadtlabs/konzeptvergabe/internal/middleware"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

type AdminCandidatureHandler struct {
	uc *usecase.CandidatureUsecase
}

func NewAdminCandidatureHandler(uc *usecase.CandidatureUsecase) *AdminCandidatureHandler {
	return &AdminCandidatureHandler{uc: uc}
}

func (h *AdminCandidatureHandler) RegisterRoutes(app *fiber.App) {
	admin := app.Group("/api/admin",
		middleware.Protected(model.RoleProjectGroup, model.RoleConsulting))

	admin.Get("/concept-assignment/:id/candidatures", h.List)
	admin.Get("/candidatures/:id", h.Get)
	admin.Get("/candidatures/:id/attachments", h.ListAttachments)
	admin.Get("/candidatures/attachments/:attachmentId", h.DownloadAttachment)
	admin.Put("/candidatures/:id/reject", h.Reject)
	admin.Put("/candidatures/:id/grant", h.Grant)
	admin.Put("/candidatures/:id/rating", h.Rate)
}

func (h *AdminCandidatureHandler) List(c *fiber.Ctx) error {
	assignmentID, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidatures, err := h.uc.ListForAdmin(assignmentID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidatures", Data: candidatures,
	})
}

func (h *AdminCandidatureHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.GetForAdmin(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature", Data: candidature,
	})
}

func (h *AdminCandidatureHandler) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if _, err := h.uc.GetForAdmin(id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	attachments, err := h.uc.ListAttachments(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "attachments", Data: attachments,
	})
}

func (h *AdminCandidatureHandler) DownloadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	att, r, err := h.uc.DownloadAttachmentForAdmin(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer r.Close()
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+att.Name+`"`)
	return c.SendStream(r)
}

func (h *AdminCandidatureHandler) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.Reject(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature rejected", Data: candidature,
	})
}

func (h *AdminCandidatureHandler) Grant(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	assignmentID, err := uuidQuery(c, "assignmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.Grant(id, assignmentID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature granted", Data: candidature,
	})
}

func (h *AdminCandidatureHandler) Rate(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.RateCandidatureRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	candidature, err := h.uc.Rate(id, req.Rating, req.Comment)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature rated", Data: candidature,
	})
}
