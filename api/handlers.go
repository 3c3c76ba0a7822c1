package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// handleCreateSession handles POST /api/v1/session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListSessions handles GET /api/v1/session.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

// handleGetSessionStatus handles GET /api/v1/session/{id}.
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, ToSessionStatus(sessionID, session.Service.Snapshot()))
}

// handleDestroySession handles DELETE /api/v1/session/{id}.
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

func (s *Server) sessionOr404(w http.ResponseWriter, sessionID string) *Session {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return nil
	}
	return session
}

// handleAssemble handles POST /api/v1/session/{id}/asm.
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	var req AssembleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	idx, err := session.Service.Assemble(req.Line)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, AssembleResponse{Index: idx})
}

// handleDisassemble handles POST /api/v1/session/{id}/disasm.
func (s *Server) handleDisassemble(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	var req DisassembleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	idx, line, err := session.Service.Disassemble(req.Word)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DisassembleResponse{Index: idx, Disassembly: line})
}

// handleGetProgram handles GET /api/v1/session/{id}/program.
func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, ProgramResponse{Lines: session.Service.List()})
}

// handleGoto handles POST /api/v1/session/{id}/goto.
func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	var req GotoRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := session.Service.Goto(req.Index); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleGetWord handles GET /api/v1/session/{id}/word/{n}.
func (s *Server) handleGetWord(w http.ResponseWriter, r *http.Request, sessionID string, idx int) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	word, err := session.Service.Word(idx)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, WordResponse{Index: idx, Word: fmt.Sprintf("0x%016x", word)})
}

// handleGetFields handles GET /api/v1/session/{id}/fields/{n}.
func (s *Server) handleGetFields(w http.ResponseWriter, r *http.Request, sessionID string, idx int) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	text, err := session.Service.Fields(idx)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, FieldsResponse{Index: idx, Text: text})
}

// handleValidate handles POST /api/v1/session/{id}/validate.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	valid, findings := session.Service.Validate()
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: valid, Findings: findings})
}

// handleSetVersion handles POST /api/v1/session/{id}/version.
func (s *Server) handleSetVersion(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	var req VersionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := session.Service.SetVersion(req.Version); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleClear handles POST /api/v1/session/{id}/clear.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, sessionID string) {
	session := s.sessionOr404(w, sessionID)
	if session == nil {
		return
	}
	session.Service.Clear()
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// parseIndex parses a trailing path segment as a non-negative instruction index.
func parseIndex(text string) (int, error) {
	idx, err := strconv.Atoi(text)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("invalid index %q", text)
	}
	return idx, nil
}
