package cadscript

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUnsafeScript means the forbidden-token screen rejected the script.
	ErrUnsafeScript = errors.New("forbidden modules or functions detected in script")

	// ErrNoResult means the script never assigns the 'result' variable the
	// export harness needs.
	ErrNoResult = errors.New("code must define a 'result' variable with the CadQuery object")
)

// ExecError carries the interpreter's diagnostics for a script that ran
// and failed.
type ExecError struct {
	Stderr string
}

func (e *ExecError) Error() string {
	return "error executing CadQuery code: " + e.Stderr
}

// Result is one successful script execution.
type Result struct {
	// Script is the text that actually ran; it differs from the submitted
	// text when auto-correction touched it.
	Script string

	Stdout string
	Stderr string
}

// Executor runs CadQuery script text through an external Python interpreter
// and exports the resulting solid as a STEP document. The CAD kernel itself
// is entirely on the Python side; this wrapper only stages files and
// collects diagnostics.
type Executor struct {
	pythonBin string
	timeout   time.Duration
}

func NewExecutor(pythonBin string, timeout time.Duration) *Executor {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Executor{
		pythonBin: pythonBin,
		timeout:   timeout,
	}
}

// Execute auto-corrects, screens, and runs the script, exporting the STEP
// document to stepPath. The returned Result.Script is the corrected text.
func (e *Executor) Execute(ctx context.Context, code string, stepPath string) (*Result, error) {
	corrected := AutoCorrect(code)

	if err := CheckSafe(corrected); err != nil {
		return nil, err
	}
	if !strings.Contains(corrected, "result") {
		return nil, ErrNoResult
	}

	workDir, err := os.MkdirTemp("", "cadquery-run-")
	if err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	scriptPath := filepath.Join(workDir, "model.py")
	harness := buildHarness(corrected, stepPath)
	if err := os.WriteFile(scriptPath, []byte(harness), 0o644); err != nil {
		return nil, fmt.Errorf("write script file: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, e.pythonBin, scriptPath)
	cmd.Dir = workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = runErr.Error()
		}
		if runCtx.Err() == context.DeadlineExceeded {
			msg = fmt.Sprintf("execution timed out after %s", e.timeout)
		}
		return nil, &ExecError{Stderr: msg}
	}

	if _, err := os.Stat(stepPath); err != nil {
		return nil, &ExecError{Stderr: "script ran but produced no STEP output"}
	}

	return &Result{
		Script: corrected,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}, nil
}

// buildHarness appends the export step so any script defining 'result'
// produces a STEP file without having to know where it goes.
func buildHarness(code, stepPath string) string {
	var b strings.Builder
	b.WriteString(code)
	b.WriteString("\n\n")
	b.WriteString("from cadquery import exporters as _exporters\n")
	fmt.Fprintf(&b, "_exporters.export(result, %q)\n", stepPath)
	return b.String()
}
