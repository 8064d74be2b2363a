package api

import (
	"net/http"
	"strings"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/domain"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/render"
	"github.com/mrz1836/crewgen/internal/voice"
)

// credentialRequest carries the caller's choice of model credential.
type credentialRequest struct {
	// UsePlatformKey defaults to true when omitted.
	UsePlatformKey *bool  `json:"use_platform_key"`
	APIKey         string `json:"api_key"`
}

// credential resolves the request's credential. It reports false, after
// answering the request, when the caller opted out of the platform key
// without supplying one.
func (c credentialRequest) credential(w http.ResponseWriter) (llm.Credential, bool) {
	if c.UsePlatformKey == nil || *c.UsePlatformKey {
		return llm.PlatformCredential(), true
	}
	if strings.TrimSpace(c.APIKey) == "" {
		writeJSONError(w, http.StatusBadRequest, "api_key is required when use_platform_key is false")
		return llm.Credential{}, false
	}
	return llm.UserCredential(c.APIKey), true
}

type personaRequest struct {
	domain.PersonaRequest
	credentialRequest
}

type teamRequest struct {
	domain.GenerationRequest
	credentialRequest
}

type saveTeamResponse struct {
	Success bool   `json:"success"`
	TeamID  string `json:"team_id"`
}

type yamlRequest struct {
	TeamID string `json:"team_id"`
}

type yamlResponse struct {
	YAML     string `json:"yaml"`
	Filename string `json:"filename"`
}

type toolsResponse struct {
	Tools      []domain.ToolDescriptor `json:"tools"`
	Categories []catalog.Group         `json:"categories"`
}

type createConversationResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
	Phase     string `json:"phase"`
}

type turnRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toolsResponse{
		Tools:      s.catalog.All(),
		Categories: s.catalog.ByCategory(),
	})
}

func (s *Server) handleGeneratePersona(w http.ResponseWriter, r *http.Request) {
	var req personaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.PersonaRequest.Validate() {
		writeJSONError(w, http.StatusBadRequest, "role is required")
		return
	}
	cred, ok := req.credential(w)
	if !ok {
		return
	}

	persona, err := s.generator.GeneratePersona(r.Context(), req.PersonaRequest, cred)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, persona)
}

func (s *Server) handleGenerateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.GenerationRequest.Validate() {
		writeJSONError(w, http.StatusBadRequest, "mission_name and mission_objective are required")
		return
	}
	cred, ok := req.credential(w)
	if !ok {
		return
	}

	team, err := s.generator.GenerateTeam(r.Context(), req.GenerationRequest, cred)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleSaveTeam(w http.ResponseWriter, r *http.Request) {
	var team domain.TeamConfiguration
	if !decodeJSON(w, r, &team) {
		return
	}

	// The server owns team identity.
	team.ID = ""
	if team.WorkflowType == "" {
		team.WorkflowType = domain.WorkflowSequential
	}
	team.AssignIdentity(s.clock.Now())
	if err := team.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.SaveTeam(r.Context(), &team); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveTeamResponse{Success: true, TeamID: team.ID})
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := s.store.GetTeam(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) handleGenerateYAML(w http.ResponseWriter, r *http.Request) {
	var req yamlRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.TeamID) == "" {
		writeJSONError(w, http.StatusBadRequest, "team_id is required")
		return
	}

	team, err := s.store.GetTeam(r.Context(), req.TeamID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, yamlResponse{
		YAML:     s.renderer.Render(team),
		Filename: render.Filename(team.Mission.Name),
	})
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, _ *http.Request) {
	session := s.sessions.Create()
	s.logger.Info().Str("session_id", session.ID()).Msg("conversation started")
	writeJSON(w, http.StatusCreated, createConversationResponse{
		SessionID: session.ID(),
		Greeting:  s.engine.Greeting(),
		Phase:     session.Phase().String(),
	})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sessions.Get(id); err != nil {
		writeError(w, r, err)
		return
	}
	s.sessions.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req turnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSONError(w, http.StatusBadRequest, "text is required")
		return
	}

	s.hub.Publish(voice.Event{Type: voice.EventUserUtterance, SessionID: session.ID(), Text: req.Text})

	result, err := s.engine.ProcessTurn(r.Context(), session, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := voice.Deliver(r.Context(), s.hub.Sink(session.ID()), result); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID()).Msg("failed to publish turn")
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.hub.Handler(session.ID())(w, r)
}
