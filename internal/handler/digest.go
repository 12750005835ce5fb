package handler

import (
	"github.com/dotworkers/api/internal/model"
	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type DigestHandler struct {
	service   *service.DigestService
	validator *validator.Validate
}

func NewDigestHandler(svc *service.DigestService, v *validator.Validate) *DigestHandler {
	return &DigestHandler{
		service:   svc,
		validator: v,
	}
}

// SendTodo handles GET /todo/email: build and send the daily digest.
// Normally fired by the scheduler; the route exists for manual nudges.
func (h *DigestHandler) SendTodo(c *fiber.Ctx) error {
	result, err := h.service.SendTodoDigest(c.Context())
	if err != nil {
		return pipelineFailure(c, err, nil)
	}
	return response.OK(c, result)
}

// SendWip handles POST /wip/email: send WIP emails to client contacts.
func (h *DigestHandler) SendWip(c *fiber.Ctx) error {
	var req model.WipEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.MissingField(c, "Invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.MissingField(c, validationMessage(err))
	}

	result, err := h.service.SendWipEmails(c.Context(), req)
	if err != nil {
		return pipelineFailure(c, err, nil)
	}
	return response.OK(c, result)
}
