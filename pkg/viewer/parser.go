package viewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// MeshParser is the opaque import collaborator: it turns artifact bytes
// (a STEP document) into parsed mesh records. The CAD kernel doing the
// tessellation is externally owned.
type MeshParser interface {
	Parse(ctx context.Context, data []byte) ([]MeshRecord, error)
}

// JSONMeshParser decodes mesh records that are already JSON buffers.
// This is the format the external tessellator emits, and the parser used
// directly when a collaborator delivers pre-tessellated geometry.
type JSONMeshParser struct{}

type meshPayload struct {
	Meshes []MeshRecord `json:"meshes"`
}

func (JSONMeshParser) Parse(_ context.Context, data []byte) ([]MeshRecord, error) {
	var payload meshPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ParseError{Err: err}
	}
	for i, rec := range payload.Meshes {
		if len(rec.Positions)%9 != 0 && len(rec.Indices) == 0 {
			return nil, &ParseError{Err: fmt.Errorf("mesh %d: position count %d is not a whole soup triangle set", i, len(rec.Positions))}
		}
		if len(rec.Positions)%3 != 0 {
			return nil, &ParseError{Err: fmt.Errorf("mesh %d: position count %d is not xyz triples", i, len(rec.Positions))}
		}
		if len(rec.Normals) != 0 && len(rec.Normals) != len(rec.Positions) {
			return nil, &ParseError{Err: fmt.Errorf("mesh %d: normal count %d does not match positions", i, len(rec.Normals))}
		}
		if len(rec.Indices)%3 != 0 {
			return nil, &ParseError{Err: fmt.Errorf("mesh %d: index count %d is not whole triangles", i, len(rec.Indices))}
		}
		vertexCount := uint32(len(rec.Positions) / 3)
		for _, idx := range rec.Indices {
			if idx >= vertexCount {
				return nil, &ParseError{Err: fmt.Errorf("mesh %d: index %d out of range for %d vertices", i, idx, vertexCount)}
			}
		}
	}
	return payload.Meshes, nil
}

// ExecTessellator shells out to an external tessellator binary that reads a
// STEP file and writes JSON mesh buffers to stdout. Same wrapper shape as
// the script executor: stage a temp file, run, collect output.
type ExecTessellator struct {
	Bin     string
	Timeout time.Duration
}

func NewExecTessellator(bin string) *ExecTessellator {
	return &ExecTessellator{
		Bin:     bin,
		Timeout: 60 * time.Second,
	}
}

func (t *ExecTessellator) Parse(ctx context.Context, data []byte) ([]MeshRecord, error) {
	workDir, err := os.MkdirTemp("", "step-tess-")
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("create work directory: %w", err)}
	}
	defer os.RemoveAll(workDir)

	stepPath := filepath.Join(workDir, "model.step")
	if err := os.WriteFile(stepPath, data, 0o644); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("stage step file: %w", err)}
	}

	runCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, t.Bin, stepPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := stderr.String()
		if msg == "" {
			msg = err.Error()
		}
		return nil, &ParseError{Err: fmt.Errorf("tessellator failed: %s", msg)}
	}

	return JSONMeshParser{}.Parse(ctx, stdout.Bytes())
}
