package bootstrap

import (
	"context"
	"log"
	"time"

	"text-to-cad-be/internal/config"
	"text-to-cad-be/internal/controller"
	"text-to-cad-be/internal/pkg/logger"
	"text-to-cad-be/internal/repository/memory"
	"text-to-cad-be/internal/service"
	"text-to-cad-be/internal/websocket"
	"text-to-cad-be/pkg/artifact"
	"text-to-cad-be/pkg/cadscript"
	"text-to-cad-be/pkg/events"
	"text-to-cad-be/pkg/llm/factory"
	"text-to-cad-be/pkg/viewer"
)

type Container struct {
	// Controllers
	CadController     controller.ICadController
	SessionController controller.ISessionController
	ViewerController  controller.IViewerController

	// Background pieces (exposed for main.go to run / shut down)
	NotifierService service.INotifierService
	Renderer        *viewer.Adapter
	Bus             *events.Bus
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	bus := events.NewBus()

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.AnthropicAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Script execution and artifact storage
	executor := cadscript.NewExecutor(cfg.Cad.PythonBin, time.Duration(cfg.Cad.ExecTimeoutSec)*time.Second)
	artifacts, err := artifact.NewStore(cfg.Storage.StepDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize artifact store: %v", err)
	}

	// 5. Viewer scene: the fetcher reads straight from the artifact store,
	// so a locator is an artifact id rather than a URL.
	var parser viewer.MeshParser = viewer.JSONMeshParser{}
	if cfg.Cad.TessellatorBin != "" {
		parser = viewer.NewExecTessellator(cfg.Cad.TessellatorBin)
	}
	fetcher := viewer.FetchFunc(func(_ context.Context, locator string) ([]byte, error) {
		return artifacts.Read(locator)
	})
	engine := viewer.NewTrackingEngine()
	renderer := viewer.NewAdapter(engine, fetcher, parser)

	// 6. Session storage
	sessionRepo := memory.NewSessionRepository()

	// 7. WebSocket Hub
	wsHub := websocket.NewHub(sysLogger)
	go wsHub.Run()

	// 8. Services
	cadService := service.NewCadService(llmProvider, executor, artifacts, sysLogger)
	sessionService := service.NewSessionService(cadService, sessionRepo, renderer, bus, sysLogger, cfg.App.BaseURL)
	notifierService := service.NewNotifierService(bus, wsHub, sysLogger)

	// 9. Controllers
	return &Container{
		CadController:     controller.NewCadController(cadService, artifacts),
		SessionController: controller.NewSessionController(sessionService),
		ViewerController:  controller.NewViewerController(renderer),

		NotifierService: notifierService,
		Renderer:        renderer,
		Bus:             bus,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}
