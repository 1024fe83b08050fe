package dto

// GenerateRequest is the wire shape of POST /api/generate. PreviousCode is
// present on iterative turns: the model is asked to modify the existing
// script rather than start over.
type GenerateRequest struct {
	Description  string `json:"description" validate:"required"`
	PreviousCode string `json:"previous_code,omitempty"`
}

// GenerateResponse is the fixed contract shape: success carries code and
// file_id; failure carries error, optionally with diagnostic partial code.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	FileID  string `json:"file_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExecuteRequest is the wire shape of POST /api/execute: run script text
// as-is, without consulting the AI.
type ExecuteRequest struct {
	Code string `json:"code" validate:"required"`
}

// ExecuteResponse returns the executed code when auto-correction changed it.
type ExecuteResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	FileID  string `json:"file_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
