package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"text-to-cad-be/internal/constant"
	"text-to-cad-be/internal/dto"
	"text-to-cad-be/internal/pkg/logger"
	"text-to-cad-be/internal/repository/memory"
	"text-to-cad-be/pkg/events"
	"text-to-cad-be/pkg/features"
	"text-to-cad-be/pkg/viewer"

	"github.com/stretchr/testify/assert"
)

type fakeCadService struct {
	mu        sync.Mutex
	prevSeen  []string
	generate  func(description, previousScript string) (*GenerationResult, error)
	execute   func(code string) (*GenerationResult, error)
	genCalled int
}

func (f *fakeCadService) Generate(_ context.Context, description, previousScript string) (*GenerationResult, error) {
	f.mu.Lock()
	f.prevSeen = append(f.prevSeen, previousScript)
	f.genCalled++
	f.mu.Unlock()
	return f.generate(description, previousScript)
}

func (f *fakeCadService) Execute(_ context.Context, code string) (*GenerationResult, error) {
	return f.execute(code)
}

var triMeshJSON = func() []byte {
	data, _ := json.Marshal(map[string]interface{}{
		"meshes": []map[string]interface{}{
			{"positions": []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}},
		},
	})
	return data
}()

type sessionFixture struct {
	service  ISessionService
	cad      *fakeCadService
	renderer *viewer.Adapter
	engine   *viewer.TrackingEngine
}

func newSessionFixture(t *testing.T, cad *fakeCadService) *sessionFixture {
	t.Helper()

	engine := viewer.NewTrackingEngine()
	fetcher := viewer.FetchFunc(func(_ context.Context, locator string) ([]byte, error) {
		if locator == "broken" {
			return nil, &viewer.FetchError{Locator: locator, Status: 404}
		}
		return triMeshJSON, nil
	})
	renderer := viewer.NewAdapter(engine, fetcher, viewer.JSONMeshParser{})

	sysLogger := logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })

	svc := NewSessionService(cad, memory.NewSessionRepository(), renderer, bus, sysLogger, "http://localhost:5000")
	return &sessionFixture{service: svc, cad: cad, renderer: renderer, engine: engine}
}

func okGenerate(script, artifactID string) func(string, string) (*GenerationResult, error) {
	return func(string, string) (*GenerationResult, error) {
		return &GenerationResult{Success: true, Script: script, ArtifactID: artifactID}, nil
	}
}

func TestSubmitTurnSuccess(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("import cadquery as cq\nresult = cq.Workplane(\"XY\").box(10, 10, 10)", "art-1")}
	fx := newSessionFixture(t, cad)

	res, err := fx.service.SubmitTurn(context.Background(), "a 10mm cube")
	assert.NoError(t, err)

	assert.Equal(t, "art-1", res.ArtifactID)
	assert.Contains(t, res.Script, ".box(10, 10, 10)")

	// Transcript: user turn then assistant confirmation.
	assert.Len(t, res.Transcript, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, res.Transcript[0].Role)
	assert.Equal(t, "a 10mm cube", res.Transcript[0].Text)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.Transcript[1].Role)

	// Feature list reflects the new baseline.
	assert.Equal(t, []features.Entry{{Name: "Box", Details: "10x10x10"}}, res.Features)

	// Renderer attached the new model.
	assert.Equal(t, 1, fx.engine.LiveMeshSets())

	state := fx.service.State()
	assert.Equal(t, "art-1", state.CurrentArtifactID)
	assert.Equal(t, "http://localhost:5000/api/step/art-1?download=true", state.DownloadURL)
	assert.Equal(t, "model-art-1.step", state.DownloadName)
}

func TestSubmitTurnEmptyText(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("x", "art")}
	fx := newSessionFixture(t, cad)

	_, err := fx.service.SubmitTurn(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyDescription)
	assert.Equal(t, 0, cad.genCalled)
}

func TestSubmitTurnFailureKeepsBaseline(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("result = cq.Workplane(\"XY\").box(1, 1, 1)", "art-1")}
	fx := newSessionFixture(t, cad)

	_, err := fx.service.SubmitTurn(context.Background(), "a cube")
	assert.NoError(t, err)

	// Second turn fails; the diagnostic script must not become the baseline.
	cad.generate = func(string, string) (*GenerationResult, error) {
		return &GenerationResult{Success: false, Script: "broken script", ErrorMessage: "NameError: foo"}, nil
	}

	res, err := fx.service.SubmitTurn(context.Background(), "now break it")
	assert.NoError(t, err)

	assert.Equal(t, "art-1", res.ArtifactID)
	assert.Contains(t, res.Script, ".box(1, 1, 1)")

	last := res.Transcript[len(res.Transcript)-1]
	assert.Equal(t, constant.ChatMessageRoleError, last.Role)
	assert.Equal(t, "NameError: foo", last.Text)
	assert.Equal(t, "broken script", last.Script)
}

func TestSubmitTurnPassesBaselineAsPrevious(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("script-one", "art-1")}
	fx := newSessionFixture(t, cad)

	_, err := fx.service.SubmitTurn(context.Background(), "a cube")
	assert.NoError(t, err)

	cad.generate = okGenerate("script-two", "art-2")
	_, err = fx.service.SubmitTurn(context.Background(), "add a hole")
	assert.NoError(t, err)

	// First turn starts fresh; second turn refines the current baseline.
	assert.Equal(t, []string{"", "script-one"}, cad.prevSeen)
}

func TestRunEditedScriptNotices(t *testing.T) {
	tests := []struct {
		name       string
		submitted  string
		executed   string
		wantNotice string
	}{
		{"ran as submitted", "import cadquery as cq\nresult = x", "import cadquery as cq\nresult = x", constant.NoticeUpdated},
		{"auto-corrected", "result = x", "import cadquery as cq\nresult = x", constant.NoticeAutoCorrected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cad := &fakeCadService{
				generate: okGenerate("", ""),
				execute: func(string) (*GenerationResult, error) {
					return &GenerationResult{Success: true, Script: tt.executed, ArtifactID: "art-1"}, nil
				},
			}
			fx := newSessionFixture(t, cad)

			res, err := fx.service.RunEditedScript(context.Background(), tt.submitted)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantNotice, res.Notice)
			assert.Equal(t, tt.executed, res.Script)

			last := res.Transcript[len(res.Transcript)-1]
			assert.Equal(t, tt.wantNotice, last.Notice)
		})
	}
}

func TestRunEditedScriptRejectsEmptyAndPlaceholder(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("", "")}
	fx := newSessionFixture(t, cad)

	_, err := fx.service.RunEditedScript(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyScript)

	_, err = fx.service.RunEditedScript(context.Background(), constant.EditorPlaceholder)
	assert.ErrorIs(t, err, ErrEmptyScript)
}

func TestResetSessionReturnsToInitialState(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("result = cq.Workplane(\"XY\").box(1, 1, 1)", "art-1")}
	fx := newSessionFixture(t, cad)

	_, err := fx.service.SubmitTurn(context.Background(), "a cube")
	assert.NoError(t, err)
	assert.Equal(t, 1, fx.engine.LiveMeshSets())

	fx.service.ResetSession()

	state := fx.service.State()
	assert.Empty(t, state.CurrentScript)
	assert.Empty(t, state.CurrentArtifactID)
	assert.Empty(t, state.Transcript)
	assert.Empty(t, state.DownloadURL)
	assert.Equal(t, []features.Entry{features.PlaceholderEntry}, state.Features)
	assert.Equal(t, 0, fx.engine.LiveMeshSets())

	// Reset from initial state is a no-op, not an error.
	fx.service.ResetSession()
	assert.Empty(t, fx.service.State().Transcript)
}

func TestResetDiscardsInFlightTurn(t *testing.T) {
	release := make(chan struct{})
	cad := &fakeCadService{
		generate: func(string, string) (*GenerationResult, error) {
			<-release
			return &GenerationResult{Success: true, Script: "late", ArtifactID: "late-art"}, nil
		},
	}
	fx := newSessionFixture(t, cad)

	done := make(chan error, 1)
	go func() {
		_, err := fx.service.SubmitTurn(context.Background(), "slow turn")
		done <- err
	}()

	// Wait for the turn to be in flight, then reset under it.
	for {
		cad.mu.Lock()
		started := cad.genCalled > 0
		cad.mu.Unlock()
		if started {
			break
		}
		time.Sleep(time.Millisecond)
	}
	fx.service.ResetSession()
	close(release)

	assert.ErrorIs(t, <-done, ErrSuperseded)

	// The late result never touched the fresh session.
	state := fx.service.State()
	assert.Empty(t, state.CurrentScript)
	assert.Empty(t, state.Transcript)
}

func TestStateNotBlockedByArtifactLoad(t *testing.T) {
	fetchStarted := make(chan struct{})
	release := make(chan struct{})
	engine := viewer.NewTrackingEngine()
	fetcher := viewer.FetchFunc(func(context.Context, string) ([]byte, error) {
		close(fetchStarted)
		<-release
		return triMeshJSON, nil
	})
	renderer := viewer.NewAdapter(engine, fetcher, viewer.JSONMeshParser{})

	sysLogger := logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })

	cad := &fakeCadService{generate: okGenerate("result = x", "art-1")}
	svc := NewSessionService(cad, memory.NewSessionRepository(), renderer, bus, sysLogger, "http://localhost:5000")

	done := make(chan struct{})
	go func() {
		_, _ = svc.SubmitTurn(context.Background(), "a cube")
		close(done)
	}()

	<-fetchStarted

	// The display load is still in flight; state reads must not wait on it.
	stateDone := make(chan *dto.SessionStateResponse, 1)
	go func() { stateDone <- svc.State() }()
	select {
	case st := <-stateDone:
		// The baseline already advanced before the load started.
		assert.Equal(t, "art-1", st.CurrentArtifactID)
	case <-time.After(2 * time.Second):
		t.Fatal("State blocked on an in-flight artifact load")
	}

	close(release)
	<-done
	assert.Equal(t, 1, engine.LiveMeshSets())
}

func TestDisplayFailureStillAdvancesBaseline(t *testing.T) {
	cad := &fakeCadService{generate: okGenerate("result = cq.Workplane(\"XY\").box(2, 2, 2)", "broken")}
	fx := newSessionFixture(t, cad)

	res, err := fx.service.SubmitTurn(context.Background(), "a cube")
	assert.NoError(t, err)

	// Generation succeeded, so the baseline advanced even though the
	// renderer could not fetch the artifact.
	assert.Equal(t, "broken", res.ArtifactID)
	assert.Contains(t, res.Script, ".box(2, 2, 2)")

	last := res.Transcript[len(res.Transcript)-1]
	assert.Equal(t, constant.ChatMessageRoleError, last.Role)
	assert.Contains(t, last.Text, "could not be displayed")
}

func TestInfrastructureErrorRecordedWithoutAdvancing(t *testing.T) {
	cad := &fakeCadService{
		generate: func(string, string) (*GenerationResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	fx := newSessionFixture(t, cad)

	res, err := fx.service.SubmitTurn(context.Background(), "a cube")
	assert.NoError(t, err)

	assert.Empty(t, res.ArtifactID)
	last := res.Transcript[len(res.Transcript)-1]
	assert.Equal(t, constant.ChatMessageRoleError, last.Role)
}
