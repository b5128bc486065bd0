package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/dto"
	"github.com/stadtlabs/konzeptvergabe/internal/middleware"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

// MessagingHandler exposes the per-candidature message thread to both
// sides: candidates under /api/candidate, the project group under
// /api/admin.
type MessagingHandler struct {
	uc *usecase.MessagingUsecase
}

func NewMessagingHandler(uc *usecase.MessagingUsecase) *MessagingHandler {
	return &MessagingHandler{uc: uc}
}

func (h *MessagingHandler) RegisterRoutes(app *fiber.App) {
	candidate := app.Group("/api/candidate",
		middleware.Protected(model.RoleCandidate))
	candidate.Get("/candidatures/:id/messages", h.candidateList)
	candidate.Post("/candidatures/:id/messages", h.candidateSendText)
	candidate.Post("/candidatures/:id/messages/attachment", h.candidateSendAttachment)
	candidate.Put("/messages/:messageId/seen", h.candidateMarkSeen)
	candidate.Get("/candidatures/:id/messages/unseen", h.candidateUnseen)

	admin := app.Group("/api/admin",
		middleware.Protected(model.RoleProjectGroup, model.RoleConsulting))
	admin.Get("/candidatures/:id/messages", h.adminList)
	admin.Post("/candidatures/:id/messages", h.adminSendText)
	admin.Post("/candidatures/:id/messages/attachment", h.adminSendAttachment)
	admin.Put("/messages/:messageId/seen", h.adminMarkSeen)
	admin.Get("/candidatures/:id/messages/unseen", h.adminUnseen)
}

func (h *MessagingHandler) candidateList(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *MessagingHandler) adminList(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *MessagingHandler) list(c *fiber.Ctx, asAdmin bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	messages, err := h.uc.List(middleware.UserID(c), id, asAdmin)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "messages", Data: messages,
	})
}

func (h *MessagingHandler) candidateSendText(c *fiber.Ctx) error {
	return h.sendText(c, model.MessageUserToAdmin)
}

func (h *MessagingHandler) adminSendText(c *fiber.Ctx) error {
	return h.sendText(c, model.MessageAdminToUser)
}

func (h *MessagingHandler) sendText(c *fiber.Ctx, direction model.MessageDirection) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	m, err := h.uc.SendText(middleware.UserID(c), id, direction, req.Body)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "message sent", Data: m,
	})
}

func (h *MessagingHandler) candidateSendAttachment(c *fiber.Ctx) error {
	return h.sendAttachment(c, model.MessageUserToAdmin)
}

func (h *MessagingHandler) adminSendAttachment(c *fiber.Ctx) error {
	return h.sendAttachment(c, model.MessageAdminToUser)
}

func (h *MessagingHandler) sendAttachment(c *fiber.Ctx, direction model.MessageDirection) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	header, f, err := formFile(c, "file")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer f.Close()
	m, err := h.uc.SendAttachment(middleware.UserID(c), id, direction,
		header.Filename, header.Header.Get("Content-Type"), header.Size, f)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "message sent", Data: m,
	})
}

func (h *MessagingHandler) candidateMarkSeen(c *fiber.Ctx) error {
	return h.markSeen(c, false)
}

func (h *MessagingHandler) adminMarkSeen(c *fiber.Ctx) error {
	return h.markSeen(c, true)
}

func (h *MessagingHandler) markSeen(c *fiber.Ctx, asAdmin bool) error {
	id, err := parseID(c, "messageId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.MarkSeen(middleware.UserID(c), id, asAdmin); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "message marked as seen",
	})
}

func (h *MessagingHandler) candidateUnseen(c *fiber.Ctx) error {
	return h.unseen(c, model.MessageAdminToUser, false)
}

func (h *MessagingHandler) adminUnseen(c *fiber.Ctx) error {
	return h.unseen(c, model.MessageUserToAdmin, true)
}

func (h *MessagingHandler) unseen(c *fiber.Ctx, direction model.MessageDirection, asAdmin bool) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	// List performs the ownership check for the thread.
	if _, err := h.uc.List(middleware.UserID(c), id, asAdmin); err != nil {
		return util.AppErrorResponse(c, err)
	}
	count, err := h.uc.UnseenCount(id, direction)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "unseen messages", Data: fiber.Map{"count": count},
	})
}
