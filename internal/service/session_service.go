package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"text-to-cad-be/internal/constant"
	"text-to-cad-be/internal/dto"
	"text-to-cad-be/internal/pkg/logger"
	"text-to-cad-be/internal/repository/memory"
	"text-to-cad-be/pkg/artifact"
	"text-to-cad-be/pkg/events"
	"text-to-cad-be/pkg/features"
	"text-to-cad-be/pkg/store"
	"text-to-cad-be/pkg/viewer"
)

var (
	// ErrEmptyDescription rejects a blank chat turn before any network call.
	ErrEmptyDescription = errors.New("no description provided")

	// ErrEmptyScript rejects running an empty or placeholder editor.
	ErrEmptyScript = errors.New("no code provided")

	// ErrSuperseded means a slow turn finished after a reset or newer turn
	// and its result was discarded.
	ErrSuperseded = errors.New("turn superseded by a newer request")
)

// ISessionService drives the generate → execute → display cycle for the
// single in-memory session.
type ISessionService interface {
	SubmitTurn(ctx context.Context, userText string) (*dto.TurnResponse, error)
	RunEditedScript(ctx context.Context, editedText string) (*dto.TurnResponse, error)
	ResetSession()
	State() *dto.SessionStateResponse
}

type sessionService struct {
	mu          sync.Mutex
	cadService  ICadService
	sessionRepo *memory.SessionRepository
	renderer    *viewer.Adapter
	bus         *events.Bus
	logger      logger.ILogger
	baseURL     string
}

func NewSessionService(
	cadService ICadService,
	sessionRepo *memory.SessionRepository,
	renderer *viewer.Adapter,
	bus *events.Bus,
	sysLogger logger.ILogger,
	baseURL string,
) ISessionService {
	return &sessionService{
		cadService:  cadService,
		sessionRepo: sessionRepo,
		renderer:    renderer,
		bus:         bus,
		logger:      sysLogger,
		baseURL:     baseURL,
	}
}

func (ss *sessionService) sessionLocked() *store.Session {
	if s, ok := ss.sessionRepo.Get(store.DefaultSessionID); ok {
		return s
	}
	s := store.NewSession(store.DefaultSessionID)
	ss.sessionRepo.Save(s)
	return s
}

// SubmitTurn sends a natural-language turn through the generate
// collaborator. Only a successful generation advances the session baseline:
// a failed turn appends an error entry (with any diagnostic partial script
// for display) and leaves CurrentScript and CurrentArtifactID untouched.
func (ss *sessionService) SubmitTurn(ctx context.Context, userText string) (*dto.TurnResponse, error) {
	text := strings.TrimSpace(userText)
	if text == "" {
		return nil, ErrEmptyDescription
	}

	ss.mu.Lock()
	session := ss.sessionLocked()
	session.Append(store.TranscriptEntry{Role: constant.ChatMessageRoleUser, Text: text})
	session.Seq++
	seq := session.Seq
	previous := session.CurrentScript
	ss.sessionRepo.Save(session)
	ss.mu.Unlock()

	result, err := ss.cadService.Generate(ctx, text, previous)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, ok := ss.sessionRepo.Get(store.DefaultSessionID)
	if !ok || current != session || current.Seq != seq {
		return nil, ErrSuperseded
	}

	if err != nil {
		session.Append(store.TranscriptEntry{Role: constant.ChatMessageRoleError, Text: err.Error()})
		ss.sessionRepo.Save(session)
		return ss.turnResponseLocked(session, ""), nil
	}

	if !result.Success {
		session.Append(store.TranscriptEntry{
			Role:   constant.ChatMessageRoleError,
			Text:   result.ErrorMessage,
			Script: result.Script, // diagnostic only, never the baseline
		})
		ss.sessionRepo.Save(session)
		return ss.turnResponseLocked(session, ""), nil
	}

	ss.completeTurn(ctx, session, seq, result, "")
	return ss.turnResponseLocked(session, ""), nil
}

// RunEditedScript executes edited script text as-is. The executed (possibly
// auto-corrected) text becomes the new baseline; when it differs from what
// was submitted, the notice says so.
func (ss *sessionService) RunEditedScript(ctx context.Context, editedText string) (*dto.TurnResponse, error) {
	text := strings.TrimSpace(editedText)
	if text == "" || text == constant.EditorPlaceholder {
		return nil, ErrEmptyScript
	}

	ss.mu.Lock()
	session := ss.sessionLocked()
	session.Seq++
	seq := session.Seq
	ss.sessionRepo.Save(session)
	ss.mu.Unlock()

	result, err := ss.cadService.Execute(ctx, text)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	current, ok := ss.sessionRepo.Get(store.DefaultSessionID)
	if !ok || current != session || current.Seq != seq {
		return nil, ErrSuperseded
	}

	if err != nil {
		session.Append(store.TranscriptEntry{Role: constant.ChatMessageRoleError, Text: err.Error()})
		ss.sessionRepo.Save(session)
		return ss.turnResponseLocked(session, ""), nil
	}

	if !result.Success {
		session.Append(store.TranscriptEntry{
			Role:   constant.ChatMessageRoleError,
			Text:   result.ErrorMessage,
			Script: result.Script,
		})
		ss.sessionRepo.Save(session)
		return ss.turnResponseLocked(session, ""), nil
	}

	notice := constant.NoticeUpdated
	if result.Script != text {
		notice = constant.NoticeAutoCorrected
	}

	ss.completeTurn(ctx, session, seq, result, notice)
	return ss.turnResponseLocked(session, notice), nil
}

// completeTurn advances the baseline, then releases the lock around the
// display side: the artifact load may shell out to a tessellator, and reset
// or state reads must not wait on it. The adapter's own sequencing keeps a
// racing reset safe. Called and returns with ss.mu held.
//
// Renderer failures are display errors for this turn; the baseline already
// advanced and stays advanced.
func (ss *sessionService) completeTurn(ctx context.Context, session *store.Session, seq uint64, result *GenerationResult, notice string) {
	session.CurrentScript = result.Script
	session.CurrentArtifactID = result.ArtifactID
	session.Append(store.TranscriptEntry{
		Role:   constant.ChatMessageRoleAssistant,
		Text:   "Model updated.",
		Notice: notice,
		Script: result.Script,
	})
	ss.sessionRepo.Save(session)
	ss.mu.Unlock()

	loadErr := ss.renderer.LoadArtifact(ctx, result.ArtifactID)
	if loadErr != nil {
		ss.logger.Error("SessionService", "Failed to display artifact", map[string]interface{}{
			"file_id": result.ArtifactID,
			"error":   loadErr.Error(),
		})
	}

	if err := ss.bus.PublishModelUpdated(events.ModelUpdated{
		ArtifactID: result.ArtifactID,
		Script:     result.Script,
		Notice:     notice,
	}); err != nil {
		// Display refresh is auxiliary; the turn itself succeeded.
		ss.logger.Warn("SessionService", "Failed to publish model update", map[string]interface{}{
			"error": err.Error(),
		})
	}

	ss.mu.Lock()
	if loadErr != nil {
		// Only record the display failure if a reset or newer turn has not
		// replaced this session in the meantime.
		current, ok := ss.sessionRepo.Get(store.DefaultSessionID)
		if ok && current == session && current.Seq == seq {
			session.Append(store.TranscriptEntry{
				Role: constant.ChatMessageRoleError,
				Text: "Model generated but could not be displayed: " + loadErr.Error(),
			})
			ss.sessionRepo.Save(session)
		}
	}
}

// ResetSession returns to the initial empty state from any prior state.
// Fully synchronous: no network calls, and any in-flight turn will find its
// sequence stale and be discarded.
func (ss *sessionService) ResetSession() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessionRepo.Delete(store.DefaultSessionID)
	ss.sessionRepo.Save(store.NewSession(store.DefaultSessionID))
	ss.renderer.Clear()
}

func (ss *sessionService) State() *dto.SessionStateResponse {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session := ss.sessionLocked()
	state := &dto.SessionStateResponse{
		CurrentScript:     session.CurrentScript,
		CurrentArtifactID: session.CurrentArtifactID,
		Transcript:        append([]store.TranscriptEntry(nil), session.Transcript...),
		Features:          features.Summarize(session.CurrentScript),
		Scene:             ss.renderer.Snapshot(),
	}
	if session.CurrentArtifactID != "" {
		state.DownloadURL = ss.baseURL + "/api/step/" + session.CurrentArtifactID + "?download=true"
		state.DownloadName = artifact.DownloadName(session.CurrentArtifactID)
	}
	return state
}

func (ss *sessionService) turnResponseLocked(session *store.Session, notice string) *dto.TurnResponse {
	return &dto.TurnResponse{
		ArtifactID: session.CurrentArtifactID,
		Script:     session.CurrentScript,
		Notice:     notice,
		Transcript: append([]store.TranscriptEntry(nil), session.Transcript...),
		Features:   features.Summarize(session.CurrentScript),
	}
}
