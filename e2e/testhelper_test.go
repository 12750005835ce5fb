package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dotworkers/api/internal/auth"
	"github.com/dotworkers/api/internal/client"
	"github.com/dotworkers/api/internal/config"
	"github.com/dotworkers/api/internal/filing"
	"github.com/dotworkers/api/internal/handler"
	"github.com/dotworkers/api/internal/middleware"
	"github.com/dotworkers/api/internal/service"
)

const testWorkerKey = "test-worker-key-for-e2e"

// testApp holds all components needed for testing
type testApp struct {
	app *fiber.App
}

// setupApp creates a Fiber app wired like main.go but with unconfigured
// external clients and shared-secret auth only. Requests that reach an
// external client will fail there, so these tests stick to the edge:
// health, auth and validation.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	// Redis (localhost — must be running)
	redisClient := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // use DB 15 for tests to avoid collision
	})

	validate := validator.New()

	// External clients — all unconfigured
	airtableClient := client.NewAirtableClient(&config.AirtableConfig{})
	anthropicClient := client.NewAnthropicClient(&config.AnthropicConfig{})
	connectClient := client.NewConnectClient(&config.ConnectConfig{})
	dropboxClient := client.NewDropboxClient(&config.DropboxConfig{})

	filer := filing.NewFiler(dropboxClient, nil)
	linkIssuer := auth.NewLinkTokenIssuer(&config.HubConfig{URL: "https://dot.hunch.co.nz"})

	// Services
	updateService := service.NewUpdateService(airtableClient, anthropicClient, connectClient, filer)
	setupService := service.NewSetupService(airtableClient, anthropicClient, connectClient, filer, linkIssuer)
	fileService := service.NewFileService(airtableClient, connectClient, filer)
	digestService := service.NewDigestService(airtableClient, connectClient, linkIssuer, &config.DigestConfig{})

	// Handlers
	updateHandler := handler.NewUpdateHandler(updateService, validate)
	setupHandler := handler.NewSetupHandler(setupService, validate)
	fileHandler := handler.NewFileHandler(fileService, validate)
	digestHandler := handler.NewDigestHandler(digestService, validate)

	// Auth middleware — shared secret only
	authMiddleware := middleware.NewSharedSecretMiddleware(testWorkerKey)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	app := fiber.New()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"timestamp": 1234567890})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"airtable":  false,
				"anthropic": false,
				"dropbox":   false,
				"archive":   false,
				"auth":      true,
			},
		})
	})

	// Use very high rate limits so tests don't get blocked
	workers := app.Group("/", authMiddleware.Authenticate())
	workers.Post("/update", rateLimiter.UpdateLimit(10000), updateHandler.Process)
	workers.Post("/setup", rateLimiter.SetupLimit(10000), setupHandler.Process)
	workers.Post("/file", rateLimiter.FileLimit(10000), fileHandler.Process)
	workers.Get("/todo/email", digestHandler.SendTodo)
	workers.Post("/wip/email", rateLimiter.WipLimit(10000), digestHandler.SendWip)

	return &testApp{app: app}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.Test(req, -1)
}

// doWorkerRequest performs a request authenticated with the shared secret.
func doWorkerRequest(app *fiber.App, method, path, body string) (*http.Response, error) {
	return doRequest(app, method, path, body, map[string]string{
		"X-Worker-Key": testWorkerKey,
	})
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(b)
}

// parseJSON parses response body into a map.
func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

// assertStatus checks the HTTP status code.
func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}
