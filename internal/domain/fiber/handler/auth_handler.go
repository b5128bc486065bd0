package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stadtlabs/konzeptvergabe/internal/dto"
	"github.com/stadtlabs/konzeptvergabe/internal/model"
	"github.com/stadtlabs/konzeptvergabe/internal/usecase"
	"github.com/stadtlabs/konzeptvergabe/internal/util"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/api/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/password-reset", h.RequestPasswordReset)
	auth.Post("/password-reset/confirm", h.ConfirmPasswordReset)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	user, err := h.uc.Register(req.Email, req.Password, &model.UserData{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Company:   req.Company,
		Street:    req.Street,
		ZipCode:   req.ZipCode,
		City:      req.City,
		Phone:     req.Phone,
	})
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code: fiber.StatusCreated, Message: "registered", Data: user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	token, user, err := h.uc.Login(req.Email, req.Password)
	if err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "logged in",
		Data:    fiber.Map{"token": token, "user": user},
	})
}

// RequestPasswordReset always answers 200 so the endpoint cannot be
// used to probe for registered addresses.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	if err := h.uc.RequestPasswordReset(req.Email); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "password reset requested",
	})
}

func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	if err := h.uc.ResetPassword(req.Token, req.Password); err != nil {
		return util.AppErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "password updated",
	})
}
