package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/dto"
	"github.com/stadtlabs/konzeptvergabe/internal/middleware"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

type CandidateHandler struct {
	uc *usecase.CandidatureUsecase
}

func NewCandidateHandler(uc *usecase.CandidatureUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(app *fiber.App) {
	candidate := app.Group("/api/candidate",
		middleware.Protected(model.RoleCandidate))

	candidate.Post("/candidatures", h.Create)
	candidate.Get("/candidatures", h.List)
	candidate.Get("/candidatures/:id", h.Get)
	candidate.Put("/candidatures/:id", h.Edit)
	candidate.Delete("/candidatures/:id", h.Delete)
	candidate.Post("/candidatures/:id/submit", h.Submit)
	candidate.Post("/candidatures/:id/revoke", h.Revoke)
	candidate.Post("/candidatures/:id/copyTo/:targetId", h.CopyTo)

	candidate.Post("/candidatures/:id/attachments", h.UploadAttachment)
	candidate.Get("/candidatures/:id/attachments", h.ListAttachments)
	candidate.Get("/candidatures/attachments/:attachmentId", h.DownloadAttachment)
	candidate.Delete("/candidatures/attachments/:attachmentId", h.DeleteAttachment)
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCandidatureRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	candidature, err := h.uc.Create(middleware.UserID(c), req.ConceptAssignmentID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "candidature created", Data: candidature,
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	candidatures, err := h.uc.ListForUser(middleware.UserID(c))
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidatures", Data: candidatures,
	})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.GetForUser(middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature", Data: candidature,
	})
}

func (h *CandidateHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.EditCandidatureRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	candidature, err := h.uc.Edit(middleware.UserID(c), id, req.Description, req.Answers)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature updated", Data: candidature,
	})
}

func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.Delete(middleware.UserID(c), id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature deleted",
	})
}

func (h *CandidateHandler) Submit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.Submit(middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature submitted", Data: candidature,
	})
}

func (h *CandidateHandler) Revoke(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.Revoke(middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature revoked", Data: candidature,
	})
}

func (h *CandidateHandler) CopyTo(c *fiber.Ctx) error {
	fromID, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	toID, err := parseID(c, "targetId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	candidature, err := h.uc.CopyTo(middleware.UserID(c), fromID, toID)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "candidature copied", Data: candidature,
	})
}

func (h *CandidateHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	header, f, err := formFile(c, "file")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer f.Close()
	att, err := h.uc.UploadAttachment(middleware.UserID(c), id, header.Filename,
		header.Header.Get("Content-Type"), header.Size, f)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "attachment uploaded", Data: att,
	})
}

func (h *CandidateHandler) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if _, err := h.uc.GetForUser(middleware.UserID(c), id); err != nil {
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

func (h *CandidateHandler) DownloadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	att, r, err := h.uc.DownloadAttachmentForUser(middleware.UserID(c), id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer r.Close()
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+att.Name+`"`)
	return c.SendStream(r)
}

func (h *CandidateHandler) DeleteAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.DeleteAttachment(middleware.UserID(c), id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "attachment deleted",
	})
}
