package e2e

import (
	"net/http"
	"testing"
)

func TestWorkerRoutes_NoCredentials(t *testing.T) {
	ta := setupApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/update"},
		{http.MethodPost, "/setup"},
		{http.MethodPost, "/file"},
		{http.MethodGet, "/todo/email"},
		{http.MethodPost, "/wip/email"},
	}

	for _, route := range routes {
		resp, err := doRequest(ta.app, route.method, route.path, "", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", route.method, route.path, resp.StatusCode)
		}
	}
}

func TestWorkerRoutes_WrongWorkerKey(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/update", `{}`, map[string]string{
		"X-Worker-Key": "not-the-key",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)

	body := parseJSON(t, resp)
	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	if errObj["code"] != "UNAUTHORIZED" {
		t.Errorf("expected UNAUTHORIZED code, got %v", errObj["code"])
	}
}

func TestWorkerRoutes_MalformedBearerHeader(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/update", `{}`, map[string]string{
		"Authorization": "Token abc",
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestWorkerRoutes_ValidKeyPassesAuth(t *testing.T) {
	ta := setupApp(t)

	// body fails validation, proving the request got past auth
	resp, err := doWorkerRequest(ta.app, http.MethodPost, "/update", `{}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}
