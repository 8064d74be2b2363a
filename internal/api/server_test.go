package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/crewgen/internal/clock"
	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/generation"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/store"
	"github.com/mrz1836/crewgen/internal/testutil"
	"github.com/mrz1836/crewgen/internal/voice"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const teamJSON = `{
  "tasks": [{"title": "Audit", "description": "Audit the store funnel", "order": 1}],
  "agents": [{"task_index": 0, "role": "Conversion Analyst", "goal": "Find drop-off", "backstory": "Analytics veteran"}],
  "recommended_tools": ["google_search"],
  "workflow_type": "sequential"
}`

// fakeGenerator returns canned results and records the credentials it saw.
type fakeGenerator struct {
	mu      sync.Mutex
	team    *domain.GeneratedTeam
	persona domain.Persona
	err     error
	creds   []llm.Credential
}

func (f *fakeGenerator) GenerateTeam(_ context.Context, req domain.GenerationRequest, cred llm.Credential) (*domain.GeneratedTeam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = append(f.creds, cred)
	if f.err != nil {
		return nil, f.err
	}
	team := *f.team
	team.Mission.Name = req.Name
	team.Mission.Objective = req.Objective
	return &team, nil
}

func (f *fakeGenerator) GeneratePersona(_ context.Context, _ domain.PersonaRequest, cred llm.Credential) (domain.Persona, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = append(f.creds, cred)
	return f.persona, f.err
}

type harness struct {
	server    *Server
	generator *fakeGenerator
	store     *store.Memory
	completer *testutil.FakeCompleter
	http      *httptest.Server
}

func newHarness(t *testing.T, mutate func(*config.ServerConfig)) *harness {
	t.Helper()

	cfg := config.DefaultConfig().Server
	if mutate != nil {
		mutate(&cfg)
	}

	h := &harness{
		generator: &fakeGenerator{
			team: &domain.GeneratedTeam{
				Tasks:        []domain.Task{{ID: "t1", Title: "Research", Order: 1}},
				Agents:       []domain.Agent{{ID: "a1", TaskID: "t1", Role: "Researcher"}},
				WorkflowType: domain.WorkflowSequential,
			},
			persona: domain.Persona{Goal: "Find facts", Backstory: "Librarian"},
		},
		store:     store.NewMemory(),
		completer: testutil.NewFakeCompleter(teamJSON),
	}

	fixed := clock.Fixed(testNow)
	engine := conversation.NewEngine(
		generation.New(h.completer, nil),
		conversation.WithSaver(h.store),
		conversation.WithClock(fixed),
	)

	srv, err := New(Options{
		Config:    &cfg,
		Generator: h.generator,
		Store:     h.store,
		Engine:    engine,
		Clock:     fixed,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	h.server = srv
	h.http = httptest.NewServer(srv.Handler())
	t.Cleanup(h.http.Close)
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, h.http.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	require.ErrorIs(t, err, crewerrors.ErrConfigNil)

	_, err = New(Options{Config: &config.ServerConfig{}})
	require.ErrorIs(t, err, crewerrors.ErrEmptyValue)
}

func TestHealthAndRoot(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, body = h.do(t, http.MethodGet, "/api/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"AI Agent Team Configuration API"}`, string(body))

	resp, _ = h.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTools(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.do(t, http.MethodGet, "/api/tools", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[toolsResponse](t, body)
	assert.Len(t, got.Tools, h.server.catalog.Len())
	assert.NotEmpty(t, got.Categories)
	assert.Equal(t, "google_search", got.Tools[0].ID)
}

func TestGeneratePersona(t *testing.T) {
	t.Run("platform key by default", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, body := h.do(t, http.MethodPost, "/api/generate-persona", `{"role":"Analyst","task_description":"Crunch numbers"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"goal":"Find facts","backstory":"Librarian"}`, string(body))
		require.Len(t, h.generator.creds, 1)
		assert.False(t, h.generator.creds[0].UserSupplied)
	})

	t.Run("caller key", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, _ := h.do(t, http.MethodPost, "/api/generate-persona", `{"role":"Analyst","use_platform_key":false,"api_key":"caller-key"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, h.generator.creds, 1)
		assert.Equal(t, llm.UserCredential("caller-key"), h.generator.creds[0])
	})

	t.Run("caller key missing", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, body := h.do(t, http.MethodPost, "/api/generate-persona", `{"role":"Analyst","use_platform_key":false,"api_key":"  "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(body), "api_key is required")
		assert.Empty(t, h.generator.creds)
	})

	t.Run("role required", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, _ := h.do(t, http.MethodPost, "/api/generate-persona", `{"role":" "}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("platform key not configured", func(t *testing.T) {
		h := newHarness(t, nil)
		h.generator.err = crewerrors.Wrap(crewerrors.ErrConfigurationMissing, "resolve credential")
		resp, body := h.do(t, http.MethodPost, "/api/generate-persona", `{"role":"Analyst"}`)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		got := decode[errorBody](t, body)
		assert.Equal(t, "No language model API key is configured.", got.Error)
		assert.Contains(t, got.Action, "CREWGEN_LLM_KEY")
	})
}

func TestGenerateIntelligentTeam(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, body := h.do(t, http.MethodPost, "/api/generate-intelligent-team",
			`{"mission_name":"Launch","mission_objective":"Ship v2"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		got := decode[domain.GeneratedTeam](t, body)
		assert.Equal(t, "Launch", got.Mission.Name)
		assert.Equal(t, "Researcher", got.Agents[0].Role)
	})

	t.Run("name and objective required", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, _ := h.do(t, http.MethodPost, "/api/generate-intelligent-team", `{"mission_name":"Launch"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, h.generator.creds)
	})

	failures := []struct {
		name   string
		err    error
		status int
	}{
		{"upstream", crewerrors.ErrUpstreamUnavailable, http.StatusBadGateway},
		{"malformed", crewerrors.ErrMalformedGenerationOutput, http.StatusBadGateway},
		{"deadline", fmt.Errorf("complete: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.generator.err = tc.err
			resp, _ := h.do(t, http.MethodPost, "/api/generate-intelligent-team",
				`{"mission_name":"Launch","mission_objective":"Ship v2"}`)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestTeams_SaveGetAndRender(t *testing.T) {
	h := newHarness(t, nil)

	team := `{
	  "id": "client-chosen",
	  "mission": {"name": "Marketing Campaign", "objective": "Grow signups"},
	  "tasks": [{"id": "t1", "title": "Research", "description": "Study the market", "order": 1}],
	  "agents": [{"task_id": "t1", "role": "Researcher", "goal": "Find the audience", "backstory": "Analyst"}],
	  "selected_tools": ["google_search"]
	}`
	resp, body := h.do(t, http.MethodPost, "/api/teams", team)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	saved := decode[saveTeamResponse](t, body)
	assert.True(t, saved.Success)
	require.NotEmpty(t, saved.TeamID)
	assert.NotEqual(t, "client-chosen", saved.TeamID)

	resp, body = h.do(t, http.MethodGet, "/api/teams/"+saved.TeamID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[domain.TeamConfiguration](t, body)
	assert.Equal(t, "Marketing Campaign", got.Mission.Name)
	assert.Equal(t, domain.WorkflowSequential, got.WorkflowType)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.NotEmpty(t, got.Agents[0].ID)

	resp, body = h.do(t, http.MethodPost, "/api/generate-yaml", `{"team_id":"`+saved.TeamID+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rendered := decode[yamlResponse](t, body)
	assert.Equal(t, "marketing_campaign_crew.yaml", rendered.Filename)
	assert.Contains(t, rendered.YAML, "Marketing Campaign")
}

func TestTeams_Errors(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid json", http.MethodPost, "/api/teams", `{`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/api/teams", "", http.StatusBadRequest},
		{"agent references unknown task", http.MethodPost, "/api/teams",
			`{"mission":{"name":"M","objective":"O"},"tasks":[],"agents":[{"task_id":"nope","role":"R"}]}`, http.StatusBadRequest},
		{"unknown workflow", http.MethodPost, "/api/teams",
			`{"mission":{"name":"M","objective":"O"},"workflow_type":"parallel"}`, http.StatusBadRequest},
		{"unknown team", http.MethodGet, "/api/teams/missing", "", http.StatusNotFound},
		{"yaml without id", http.MethodPost, "/api/generate-yaml", `{}`, http.StatusBadRequest},
		{"yaml unknown team", http.MethodPost, "/api/generate-yaml", `{"team_id":"missing"}`, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := h.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			assert.NotEmpty(t, decode[errorBody](t, body).Error)
		})
	}
}

func TestConversations_TurnsGenerateAndSaveTeam(t *testing.T) {
	h := newHarness(t, nil)

	resp, body := h.do(t, http.MethodPost, "/api/conversations", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createConversationResponse](t, body)
	assert.Equal(t, conversation.Greeting, created.Greeting)
	assert.Equal(t, "greeting", created.Phase)

	turns := "/api/conversations/" + created.SessionID + "/turns"
	resp, body = h.do(t, http.MethodPost, turns, `{"text":"I run an online store"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := decode[conversation.TurnResult](t, body)
	assert.Equal(t, constants.PhaseCollecting, first.Phase)
	assert.Nil(t, first.Team)

	resp, body = h.do(t, http.MethodPost, turns, `{"text":"I want to increase sales"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[conversation.TurnResult](t, body)
	assert.Equal(t, constants.PhaseReviewing, second.Phase)
	require.NotNil(t, second.Team)
	assert.True(t, second.Saved)

	stored, err := h.store.GetTeam(context.Background(), second.Team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Conversion Analyst", stored.Agents[0].Role)

	resp, body = h.do(t, http.MethodGet, "/api/conversations/"+created.SessionID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decode[conversation.Snapshot](t, body)
	assert.Equal(t, constants.PhaseReviewing, snap.Phase)
	assert.Len(t, snap.History, 4)

	resp, _ = h.do(t, http.MethodDelete, "/api/conversations/"+created.SessionID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = h.do(t, http.MethodGet, "/api/conversations/"+created.SessionID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConversations_Errors(t *testing.T) {
	h := newHarness(t, nil)

	resp, _ := h.do(t, http.MethodPost, "/api/conversations/missing/turns", `{"text":"hi"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.do(t, http.MethodGet, "/api/conversations/missing/events", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = h.do(t, http.MethodDelete, "/api/conversations/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	session := h.server.sessions.Create()
	resp, _ = h.do(t, http.MethodPost, "/api/conversations/"+session.ID()+"/turns", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, session.History())
}

func TestConversations_EventsCarryGeneratedTeam(t *testing.T) {
	h := newHarness(t, nil)
	session := h.server.sessions.Create()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.http.URL+"/api/conversations/"+session.ID()+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	assert.Equal(t, voice.EventConnected, readEvent(t, reader).Type)

	turns := "/api/conversations/" + session.ID() + "/turns"
	h.do(t, http.MethodPost, turns, `{"text":"I run an online store"}`)
	h.do(t, http.MethodPost, turns, `{"text":"I want to increase sales"}`)

	var types []string
	var generated voice.Event
	for len(types) < 5 {
		ev := readEvent(t, reader)
		types = append(types, ev.Type)
		if ev.Type == voice.EventTeamGenerated {
			generated = ev
		}
	}
	assert.Equal(t, []string{
		voice.EventUserUtterance, voice.EventSpeak,
		voice.EventUserUtterance, voice.EventSpeak, voice.EventTeamGenerated,
	}, types)
	require.NotNil(t, generated.Team)
	assert.Equal(t, "Conversion Analyst", generated.Team.Agents[0].Role)
}

func readEvent(t *testing.T, r *bufio.Reader) voice.Event {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: ")
		if !ok {
			continue
		}
		return decode[voice.Event](t, []byte(data))
	}
}

func TestCORS(t *testing.T) {
	t.Run("any origin", func(t *testing.T) {
		h := newHarness(t, nil)
		resp, _ := h.do(t, http.MethodOptions, "/api/teams", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("listed origins only", func(t *testing.T) {
		h := newHarness(t, func(c *config.ServerConfig) {
			c.CORSOrigins = []string{"https://app.example.com"}
		})

		for origin, want := range map[string]string{
			"https://app.example.com":  "https://app.example.com",
			"https://evil.example.com": "",
		} {
			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, h.http.URL+"/health", nil)
			require.NoError(t, err)
			req.Header.Set("Origin", origin)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, want, resp.Header.Get("Access-Control-Allow-Origin"), origin)
		}
	})
}

func TestBodyLimit(t *testing.T) {
	h := newHarness(t, func(c *config.ServerConfig) { c.MaxBodyBytes = 32 })

	big := `{"role":"` + strings.Repeat("x", 64) + `"}`
	resp, body := h.do(t, http.MethodPost, "/api/generate-persona", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, string(body))
	assert.Empty(t, h.generator.creds)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{crewerrors.ErrEmptyValue, http.StatusBadRequest},
		{crewerrors.ErrInvalidTeam, http.StatusBadRequest},
		{crewerrors.ErrInvalidWorkflow, http.StatusBadRequest},
		{crewerrors.ErrTeamNotFound, http.StatusNotFound},
		{crewerrors.ErrSessionNotFound, http.StatusNotFound},
		{crewerrors.ErrGenerationAlreadyTriggered, http.StatusConflict},
		{crewerrors.ErrConfigurationMissing, http.StatusInternalServerError},
		{crewerrors.ErrUpstreamUnavailable, http.StatusBadGateway},
		{crewerrors.ErrMalformedGenerationOutput, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, statusFor(crewerrors.Wrap(tc.err, "wrapped")))
		})
	}
}

func TestHTTPServer_Defaults(t *testing.T) {
	h := newHarness(t, func(c *config.ServerConfig) {
		c.Addr = ""
		c.ReadHeaderTimeout = 0
	})
	srv := h.server.HTTPServer()
	assert.Equal(t, constants.DefaultServerAddr, srv.Addr)
	assert.Equal(t, constants.DefaultReadHeaderTimeout, srv.ReadHeaderTimeout)
}

func TestWriteJSON_DoesNotEscapeHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]string{"yaml": "a & <b>"})
	assert.True(t, bytes.Contains(rec.Body.Bytes(), []byte("a & <b>")))
}
