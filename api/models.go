package api

import (
	"time"

	"github.com/v3dqpu/qpuasm/service"
)

// SessionCreateRequest represents a request to create a new session.
type SessionCreateRequest struct {
	Version string `json:"version,omitempty"` // ISA version name, default "4.2"
}

// SessionCreateResponse represents the response from creating a session.
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse reports a session's current state.
type SessionStatusResponse struct {
	SessionID string                      `json:"sessionId"`
	Version   string                      `json:"version"`
	Cursor    int                         `json:"cursor"`
	State     string                      `json:"state"`
	Lines     int                         `json:"lines"`
	Findings  []service.ValidationFinding `json:"findings,omitempty"`
}

// AssembleRequest carries one line of assembly source to append.
type AssembleRequest struct {
	Line string `json:"line"`
}

// AssembleResponse reports where the instruction landed.
type AssembleResponse struct {
	Index int `json:"index"`
}

// DisassembleRequest carries a packed instruction word, as hex text.
type DisassembleRequest struct {
	Word string `json:"word"`
}

// DisassembleResponse reports the decoded instruction's index and text.
type DisassembleResponse struct {
	Index       int    `json:"index"`
	Disassembly string `json:"disassembly"`
}

// ProgramResponse lists the whole program.
type ProgramResponse struct {
	Lines []service.ProgramLine `json:"lines"`
}

// GotoRequest moves the cursor.
type GotoRequest struct {
	Index int `json:"index"`
}

// WordResponse reports the packed word at an instruction index.
type WordResponse struct {
	Index int    `json:"index"`
	Word  string `json:"word"` // hex, 0x-prefixed
}

// FieldsResponse reports the decoded fields at an instruction index, as
// the same free-form text the inspector's CLI prints.
type FieldsResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ValidateResponse reports the validator's verdict over the program.
type ValidateResponse struct {
	Valid    bool                        `json:"valid"`
	Findings []service.ValidationFinding `json:"findings,omitempty"`
}

// VersionRequest switches the session's target ISA version.
type VersionRequest struct {
	Version string `json:"version"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Event represents a WebSocket event envelope.
type Event struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// ToSessionStatus converts a service.SessionSnapshot into an API response.
func ToSessionStatus(id string, snap service.SessionSnapshot) SessionStatusResponse {
	return SessionStatusResponse{
		SessionID: id,
		Version:   snap.Version,
		Cursor:    snap.Cursor,
		State:     string(snap.State),
		Lines:     snap.Lines,
		Findings:  snap.Findings,
	}
}
