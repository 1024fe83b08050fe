package service

import (
	"context"
	"fmt"
	"strings"

	"text-to-cad-be/internal/constant"
	"text-to-cad-be/internal/pkg/logger"
	"text-to-cad-be/pkg/artifact"
	"text-to-cad-be/pkg/cadscript"
	"text-to-cad-be/pkg/llm"
)

// GenerationResult is what the generate/execute collaborators produce.
// Consumers only read it. Success=false with a Script carries diagnostic
// partial output: displayable, but never a session baseline.
type GenerationResult struct {
	Success      bool
	Script       string
	ArtifactID   string
	ErrorMessage string
}

// ICadService turns descriptions into executed CAD scripts and script text
// into STEP artifacts. Errors returned from these methods are
// infrastructure failures (LLM unreachable); domain failures (a script
// that will not run) come back as Success=false results.
type ICadService interface {
	Generate(ctx context.Context, description, previousScript string) (*GenerationResult, error)
	Execute(ctx context.Context, code string) (*GenerationResult, error)
}

type cadService struct {
	llmProvider llm.LLMProvider
	executor    *cadscript.Executor
	artifacts   *artifact.Store
	logger      logger.ILogger
}

func NewCadService(
	llmProvider llm.LLMProvider,
	executor *cadscript.Executor,
	artifacts *artifact.Store,
	sysLogger logger.ILogger,
) ICadService {
	return &cadService{
		llmProvider: llmProvider,
		executor:    executor,
		artifacts:   artifacts,
		logger:      sysLogger,
	}
}

// Generate asks the LLM for CadQuery code, cleans it, and runs it. When
// previousScript is non-empty the prompt asks for a modification of that
// script instead of a fresh model.
func (cs *cadService) Generate(ctx context.Context, description, previousScript string) (*GenerationResult, error) {
	var prompt string
	if previousScript != "" {
		prompt = fmt.Sprintf(constant.CadQueryRefinePromptPrefix, previousScript, description)
	} else {
		prompt = fmt.Sprintf(constant.CadQueryGeneratePromptPrefix, description)
	}

	raw, err := cs.llmProvider.Generate(ctx, prompt,
		llm.WithSystem(constant.CadQuerySystemPrompt),
		llm.WithTemperature(0.0),
		llm.WithMaxTokens(1024),
	)
	if err != nil {
		cs.logger.Error("CadService", "LLM generation failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("generate code: %w", err)
	}

	code := cadscript.Clean(raw)

	result := cs.runScript(ctx, code)
	if !result.Success {
		cs.logger.Warn("CadService", "Generated script failed to execute", map[string]interface{}{
			"error": result.ErrorMessage,
		})
	}
	return result, nil
}

// Execute runs script text as-is, without consulting the AI. The executor
// may auto-correct; the result's Script is what actually ran.
func (cs *cadService) Execute(ctx context.Context, code string) (*GenerationResult, error) {
	if strings.TrimSpace(code) == "" {
		return &GenerationResult{Success: false, ErrorMessage: "No code provided"}, nil
	}
	return cs.runScript(ctx, code), nil
}

func (cs *cadService) runScript(ctx context.Context, code string) *GenerationResult {
	id := cs.artifacts.NewID()
	stepPath, err := cs.artifacts.PathFor(id)
	if err != nil {
		return &GenerationResult{Success: false, Script: code, ErrorMessage: err.Error()}
	}

	res, err := cs.executor.Execute(ctx, code, stepPath)
	if err != nil {
		return &GenerationResult{
			Success:      false,
			Script:       code,
			ErrorMessage: err.Error(),
		}
	}

	if _, err := cs.artifacts.Register(id); err != nil {
		return &GenerationResult{Success: false, Script: res.Script, ErrorMessage: err.Error()}
	}

	cs.logger.Info("CadService", "Script executed", map[string]interface{}{"file_id": id})
	return &GenerationResult{
		Success:    true,
		Script:     res.Script,
		ArtifactID: id,
	}
}
