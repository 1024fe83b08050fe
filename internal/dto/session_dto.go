package dto

import (
	"text-to-cad-be/pkg/features"
	"text-to-cad-be/pkg/store"
	"text-to-cad-be/pkg/viewer"
)

type SubmitTurnRequest struct {
	Text string `json:"text" validate:"required"`
}

type RunScriptRequest struct {
	Code string `json:"code" validate:"required"`
}

// SessionStateResponse is the full display state a tab renders from.
type SessionStateResponse struct {
	CurrentScript     string                  `json:"current_script"`
	CurrentArtifactID string                  `json:"current_artifact_id"`
	Transcript        []store.TranscriptEntry `json:"transcript"`
	Features          []features.Entry        `json:"features"`
	DownloadURL       string                  `json:"download_url,omitempty"`
	DownloadName      string                  `json:"download_name,omitempty"`
	Scene             viewer.SceneState       `json:"scene"`
}

// TurnResponse reports one completed chat or run turn.
type TurnResponse struct {
	ArtifactID string                  `json:"artifact_id,omitempty"`
	Script     string                  `json:"script,omitempty"`
	Notice     string                  `json:"notice,omitempty"`
	Transcript []store.TranscriptEntry `json:"transcript"`
	Features   []features.Entry        `json:"features"`
}
