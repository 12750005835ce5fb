package handler

import (
	"github.com/dotworkers/api/internal/model"
	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type SetupHandler struct {
	service   *service.SetupService
	validator *validator.Validate
}

func NewSetupHandler(svc *service.SetupService, v *validator.Validate) *SetupHandler {
	return &SetupHandler{
		service:   svc,
		validator: v,
	}
}

// Process handles POST /setup: a new job from an email brief or a Hub form.
func (h *SetupHandler) Process(c *fiber.Ctx) error {
	var req model.SetupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.MissingField(c, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.MissingField(c, validationMessage(err))
	}

	// One of the two entry points must be present; tags can't express that.
	if req.InternetMessageID == "" && req.Brief == nil {
		return response.MissingField(c, "No internetMessageId or brief provided")
	}

	result, results, err := h.service.Process(c.Context(), req)
	if err != nil {
		return pipelineFailure(c, err, results)
	}

	return response.OK(c, result)
}
