package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/dto"
	"github.com/stadtlabs/konzeptvergabe/internal/middleware"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/response"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

type AdminAssignmentHandler struct {
	uc *usecase.AssignmentUsecase
}

func NewAdminAssignmentHandler(uc *usecase.AssignmentUsecase) *AdminAssignmentHandler {
	return &AdminAssignmentHandler{uc: uc}
}

func (h *AdminAssignmentHandler) RegisterRoutes(app *fiber.App) {
	admin := app.Group("/api/admin",
		middleware.Protected(model.RoleProjectGroup, model.RoleConsulting))

	admin.Post("/concept-assignment", h.Create)
	admin.Get("/concept-assignment", h.List)
	admin.Get("/concept-assignment/:id", h.Get)
	admin.Put("/concept-assignment/:id", h.Update)
	admin.Delete("/concept-assignment/:id", h.Delete)

	admin.Post("/concept-assignment/:id/start", h.Start)
	admin.Post("/concept-assignment/:id/unstart", h.Unstart)
	admin.Post("/concept-assignment/:id/stop", h.Stop)
	admin.Post("/concept-assignment/:id/abort", h.Abort)
	admin.Post("/concept-assignment/:id/abortAndDraft", h.AbortAndDraft)

	admin.Put("/concept-assignment/:id/questions", h.ReplaceQuestions)
	admin.Put("/concept-assignment/:id/parcels", h.AssignParcels)

	admin.Post("/concept-assignment/:id/attachments", h.UploadAttachment)
	admin.Get("/concept-assignment/:id/attachments", h.ListAttachments)
	admin.Get("/concept-assignment/attachments/:attachmentId", h.DownloadAttachment)
	admin.Delete("/concept-assignment/attachments/:attachmentId", h.DeleteAttachment)

	admin.Post("/parcels", h.CreateParcel)
	admin.Get("/parcels", h.ListParcels)
}

func (h *AdminAssignmentHandler) Create(c *fiber.Ctx) error {
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	a := &model.ConceptAssignment{
		Name:          req.Name,
		Type:          model.AssignmentType(req.Type),
		Description:   req.Description,
		PlotArea:      req.PlotArea,
		AllowedFloors: req.AllowedFloors,
		UsageDetails:  req.UsageDetails,
	}
	if err := h.uc.Create(a); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "assignment created", Data: a,
	})
}

func (h *AdminAssignmentHandler) List(c *fiber.Ctx) error {
	assignments, err := h.uc.List(true)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	pagination, from, to := response.Paginate(
		c.QueryInt("page", 1), c.QueryInt("pageSize", 20), len(assignments))
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignments", Data: assignments[from:to], Pagination: &pagination,
	})
}

func (h *AdminAssignmentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	a, err := h.uc.Get(id, true)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment", Data: a,
	})
}

func (h *AdminAssignmentHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	a, err := h.uc.Update(id, &model.ConceptAssignment{
		Name:          req.Name,
		Type:          model.AssignmentType(req.Type),
		Description:   req.Description,
		PlotArea:      req.PlotArea,
		AllowedFloors: req.AllowedFloors,
		UsageDetails:  req.UsageDetails,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment updated", Data: a,
	})
}

func (h *AdminAssignmentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.Delete(id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment deleted",
	})
}

func (h *AdminAssignmentHandler) Start(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.StartAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	a, err := h.uc.Start(id, req.Start, req.End)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment started", Data: a,
	})
}

func (h *AdminAssignmentHandler) Unstart(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	a, err := h.uc.Unstart(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment unstarted", Data: a,
	})
}

func (h *AdminAssignmentHandler) Stop(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	a, err := h.uc.StopManually(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment stopped", Data: a,
	})
}

func (h *AdminAssignmentHandler) Abort(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	a, err := h.uc.Abort(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "assignment aborted", Data: a,
	})
}

func (h *AdminAssignmentHandler) AbortAndDraft(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	draft, err := h.uc.AbortAndCopyToDraft(id)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "assignment aborted, draft created", Data: draft,
	})
}

func (h *AdminAssignmentHandler) ReplaceQuestions(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var reqs []dto.QuestionRequest
	if err := c.BodyParser(&reqs); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	questions := make([]model.Question, 0, len(reqs))
	for _, q := range reqs {
		questions = append(questions, model.Question{
			Text:     q.Text,
			Type:     model.QuestionType(q.Type),
			Required: q.Required,
			Options:  q.Options,
			Position: q.Position,
		})
	}
	if err := h.uc.ReplaceQuestions(id, questions); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "questions updated",
	})
}

func (h *AdminAssignmentHandler) AssignParcels(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	var req dto.AssignParcelsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	if err := h.uc.AssignParcels(id, req.ParcelIDs); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "parcels assigned",
	})
}

func (h *AdminAssignmentHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	header, f, err := formFile(c, "file")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer f.Close()
	asPreview := c.Query("preview") == "true"
	att, err := h.uc.UploadAttachment(id, header.Filename,
		header.Header.Get("Content-Type"), header.Size, f, asPreview)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "attachment uploaded", Data: att,
	})
}

func (h *AdminAssignmentHandler) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
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

func (h *AdminAssignmentHandler) DownloadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	att, r, err := h.uc.DownloadAttachment(id, true)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	defer r.Close()
	c.Set(fiber.HeaderContentType, att.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+att.Name+`"`)
	return c.SendStream(r)
}

func (h *AdminAssignmentHandler) DeleteAttachment(c *fiber.Ctx) error {
	id, err := parseID(c, "attachmentId")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	if err := h.uc.DeleteAttachment(id); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "attachment deleted",
	})
}

func (h *AdminAssignmentHandler) CreateParcel(c *fiber.Ctx) error {
	var req dto.ParcelRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	p := &model.Parcel{Number: req.Number, Area: req.Area, Address: req.Address}
	if err := h.uc.CreateParcel(p); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "parcel created", Data: p,
	})
}

func (h *AdminAssignmentHandler) ListParcels(c *fiber.Ctx) error {
	parcels, err := h.uc.ListParcels(c.Query("unassigned") == "true")
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "parcels", Data: parcels,
	})
}
