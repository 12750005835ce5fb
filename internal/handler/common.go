// Package handler owns the HTTP edge of the workers. Handlers validate,
// call the pipeline, and translate outcomes into the status codes Brain
// expects: 400 when the request never identified itself, 500 when the run
// broke, 200 with success=false when the work couldn't be done.
package handler

import (
	"errors"

	"github.com/dotworkers/api/internal/service"
	"github.com/dotworkers/api/pkg/response"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// missingFieldMessages keeps the wording Brain's error handling matches on.
var missingFieldMessages = map[string]string{
	"JobNumber":         "No job number provided",
	"InternetMessageID": "No internetMessageId provided",
	"ClientCode":        "No client code provided",
	"AttachmentNames":   "No attachments to file",
	"Recipients":        "No recipients provided",
	"SenderEmail":       "Invalid senderEmail",
	"Email":             "Invalid recipient email",
}

// validationMessage turns the first validation error into Brain's wording.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		if msg, ok := missingFieldMessages[field]; ok {
			return msg
		}
		return "Missing or invalid field: " + field
	}
	return "Invalid request"
}

// pipelineFailure maps a pipeline error onto the right status code.
func pipelineFailure(c *fiber.Ctx, err error, results interface{}) error {
	var business *service.BusinessError
	if errors.As(err, &business) {
		return response.BusinessFailure(c, business.Message, results)
	}
	var run *service.RunError
	if errors.As(err, &run) {
		return response.RunFailure(c, run.Message, results)
	}
	return response.RunFailure(c, err.Error(), results)
}
