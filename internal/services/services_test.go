package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/brain/internal/shared"
)

func TestClientCore(t *testing.T) {
	t.Run("joins base path", func(t *testing.T) {
		c, err := newClient("https://apps.example.com/goals/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.endpoint("/routes/goals/", nil); got != "https://apps.example.com/goals/routes/goals/" {
			t.Errorf("unexpected endpoint %s", got)
		}
	})

	t.Run("sets headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Accept") != "application/json" {
				t.Errorf("expected Accept application/json, got %q", r.Header.Get("Accept"))
			}
			if r.Header.Get("User-Agent") != "brain-test" {
				t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
			}
			if r.Header.Get("Authorization") != "" {
				t.Errorf("expected no Authorization header without token, got %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		c, _ := newClient(server.URL, WithUserAgent("brain-test"))
		health, err := c.checkHealth(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("expected status ok, got %s", health.Status)
		}
	})

	t.Run("tolerates empty bodies", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		c, _ := newClient(server.URL)
		var out map[string]any
		if _, err := c.send(context.Background(), http.MethodGet, "/x", nil, nil, &out); err != nil {
			t.Errorf("expected empty body to decode cleanly, got %v", err)
		}
	})

	t.Run("unreachable backend", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c, _ := newClient(url)
		_, err := c.checkHealth(context.Background())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestAPIError(t *testing.T) {
	respond := func(status int, body string) error {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(body))
		}))
		defer server.Close()

		c, _ := newClient(server.URL)
		_, err := c.send(context.Background(), http.MethodGet, "/routes/goals/", nil, nil, nil)
		return err
	}

	t.Run("string detail", func(t *testing.T) {
		err := respond(http.StatusNotFound, `{"detail":"Goal not found"}`)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.Detail != "Goal not found" {
			t.Errorf("expected detail, got %q", apiErr.Detail)
		}
		if !IsNotFound(err) {
			t.Error("expected IsNotFound")
		}
		if StatusCode(err) != http.StatusNotFound {
			t.Errorf("expected 404, got %d", StatusCode(err))
		}
	})

	t.Run("validation detail", func(t *testing.T) {
		err := respond(http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"}]}`)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if len(apiErr.Validation) != 1 || apiErr.Validation[0].Field() != "name" {
			t.Errorf("unexpected validation %+v", apiErr.Validation)
		}
		if !errors.Is(err, shared.ErrValidation) {
			t.Error("expected ErrValidation")
		}
		if IsNotFound(err) {
			t.Error("422 is not a 404")
		}
	})

	t.Run("non-JSON body", func(t *testing.T) {
		err := respond(http.StatusInternalServerError, "upstream exploded")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.Detail != "upstream exploded" {
			t.Errorf("expected raw body as detail, got %q", apiErr.Detail)
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Error("expected ErrAPIRequest")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		err := respond(http.StatusBadRequest, "")
		if err == nil || err.Error() != "GET /routes/goals/: status 400" {
			t.Errorf("unexpected error %v", err)
		}
	})
}
