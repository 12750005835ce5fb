package handler

import (
	"github.com/dotworkers/api/internal/model"
	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type FileHandler struct {
	service   *service.FileService
	validator *validator.Validate
}

func NewFileHandler(svc *service.FileService, v *validator.Validate) *FileHandler {
	return &FileHandler{
		service:   svc,
		validator: v,
	}
}

// Process handles POST /file: move attachments into a job's folder.
func (h *FileHandler) Process(c *fiber.Ctx) error {
	var req model.FileRequest
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
