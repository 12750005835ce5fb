package response

import "github.com/gofiber/fiber/v2"

// Error codes used by the middleware envelope.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeServiceError    = "SERVICE_ERROR"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func Error(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	return c.Status(status).JSON(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, CodeUnauthorized, message, nil)
}

func RateLimited(c *fiber.Ctx) error {
	return Error(c, fiber.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded", nil)
}

func ServiceError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, CodeServiceError, message, nil)
}

func OK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(data)
}

// The worker endpoints speak Brain's flat {success, error, results} shape,
// not the envelope above. Brain distinguishes bad requests (400), broken
// runs (500) and business failures (200 with success=false), so the status
// code carries meaning here.

type workerFailure struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Results interface{} `json:"results,omitempty"`
}

// MissingField reports a request that never identified itself properly.
func MissingField(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(workerFailure{Success: false, Error: message})
}

// BusinessFailure reports a valid request that could not be completed
// (job not found, store write rejected). Deliberately 200.
func BusinessFailure(c *fiber.Ctx, message string, results interface{}) error {
	return c.Status(fiber.StatusOK).JSON(workerFailure{Success: false, Error: message, Results: results})
}

// RunFailure reports a broken run (extraction parse error, unhandled error).
func RunFailure(c *fiber.Ctx, message string, results interface{}) error {
	return c.Status(fiber.StatusInternalServerError).JSON(workerFailure{Success: false, Error: message, Results: results})
}
