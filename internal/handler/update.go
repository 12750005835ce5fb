package handler

import (
	"github.com/dotworkers/api/internal/model"
	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type UpdateHandler struct {
	service   *service.UpdateService
	validator *validator.Validate
}

func NewUpdateHandler(svc *service.UpdateService, v *validator.Validate) *UpdateHandler {
	return &UpdateHandler{
		service:   svc,
		validator: v,
	}
}

// Process handles POST /update: Brain forwards an update email, the
// pipeline writes the update and notifies everyone.
func (h *UpdateHandler) Process(c *fiber.Ctx) error {
	var req model.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.MissingField(c, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.MissingField(c, validationMessage(err))
	}

	result, results, err := h.service.Process(c.Context(), req)
	if err != nil {
		return pipelineFailure(c, err, results)
	}

	return response.OK(c, result)
}
