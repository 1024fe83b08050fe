package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"text-to-cad-be/internal/dto"
	"text-to-cad-be/internal/service"
	"text-to-cad-be/pkg/artifact"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeCadService struct {
	generate func(description, previousScript string) (*service.GenerationResult, error)
	execute  func(code string) (*service.GenerationResult, error)
}

func (f *fakeCadService) Generate(_ context.Context, description, previousScript string) (*service.GenerationResult, error) {
	return f.generate(description, previousScript)
}

func (f *fakeCadService) Execute(_ context.Context, code string) (*service.GenerationResult, error) {
	return f.execute(code)
}

func newTestApp(t *testing.T, svc service.ICadService) (*fiber.App, *artifact.Store) {
	t.Helper()
	artifacts, err := artifact.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	app := fiber.New()
	NewCadController(svc, artifacts).RegisterRoutes(app.Group("/api"))
	return app, artifacts
}

func doPost(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func TestGenerateSuccess(t *testing.T) {
	svc := &fakeCadService{
		generate: func(description, previousScript string) (*service.GenerationResult, error) {
			assert.Equal(t, "a cube", description)
			assert.Equal(t, "old code", previousScript)
			return &service.GenerationResult{Success: true, Script: "new code", ArtifactID: "abc-123"}, nil
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/generate", dto.GenerateRequest{
		Description:  "a cube",
		PreviousCode: "old code",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "new code", body["code"])
	assert.Equal(t, "abc-123", body["file_id"])
	assert.NotContains(t, body, "error")
}

func TestGenerateScriptFailure(t *testing.T) {
	svc := &fakeCadService{
		generate: func(string, string) (*service.GenerationResult, error) {
			return &service.GenerationResult{Success: false, Script: "partial", ErrorMessage: "NameError"}, nil
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/generate", dto.GenerateRequest{Description: "a cube"})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "partial", body["code"])
	assert.Equal(t, "NameError", body["error"])
	assert.NotContains(t, body, "file_id")
}

func TestGenerateMissingDescription(t *testing.T) {
	svc := &fakeCadService{
		generate: func(string, string) (*service.GenerationResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/generate", map[string]string{})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestGenerateInfrastructureError(t *testing.T) {
	svc := &fakeCadService{
		generate: func(string, string) (*service.GenerationResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/generate", dto.GenerateRequest{Description: "a cube"})

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
}

func TestExecuteSuccess(t *testing.T) {
	svc := &fakeCadService{
		execute: func(code string) (*service.GenerationResult, error) {
			assert.Equal(t, "result = x", code)
			return &service.GenerationResult{Success: true, Script: "import cadquery as cq\nresult = x", ArtifactID: "run-1"}, nil
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/execute", dto.ExecuteRequest{Code: "result = x"})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	// The executed (auto-corrected) code comes back, not the submitted text.
	assert.Equal(t, "import cadquery as cq\nresult = x", body["code"])
	assert.Equal(t, "run-1", body["file_id"])
}

func TestExecuteMissingCode(t *testing.T) {
	svc := &fakeCadService{
		execute: func(string) (*service.GenerationResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	app, _ := newTestApp(t, svc)

	status, body := doPost(t, app, "/api/execute", map[string]string{})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestGetStep(t *testing.T) {
	app, artifacts := newTestApp(t, &fakeCadService{})

	id := artifacts.NewID()
	path, err := artifacts.PathFor(id)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(path, []byte("ISO-10303-21;"), 0o644))
	_, err = artifacts.Register(id)
	assert.NoError(t, err)

	t.Run("inline", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/step/"+id, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/step", resp.Header.Get("Content-Type"))
		assert.Empty(t, resp.Header.Get("Content-Disposition"))

		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "ISO-10303-21;", string(data))
	})

	t.Run("download", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/step/"+id+"?download=true", nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "model-"+id[:8]+".step")
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/step/"+artifacts.NewID(), nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/step/bad..id", nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
