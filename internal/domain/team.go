// Package domain provides shared domain types for crewgen.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/errors"
)

// Mission is the top-level stated objective a generated team serves.
type Mission struct {
	// ID is assigned once at creation and never changes.
	ID string `json:"id"`

	// Name is a short title for the mission.
	Name string `json:"name"`

	// Objective is what the team is meant to achieve.
	Objective string `json:"objective"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// CreatedAt is when the mission was created.
	CreatedAt time.Time `json:"created_at"`
}

// Task is one ordered unit of work within a mission.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Order is a positive sequencing hint, unique within a team.
	Order int `json:"order"`
}

// Agent is a specialized persona assigned to exactly one task.
// TaskID references a Task by identifier; the agent does not own the task.
type Agent struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Role      string `json:"role"`
	Goal      string `json:"goal"`
	Backstory string `json:"backstory"`
}

// TeamConfiguration is a complete, persistable team definition.
//
// Example JSON representation:
//
//	{
//	    "id": "7d8c...",
//	    "mission": {"id": "...", "name": "Marketing Campaign", "objective": "...", "created_at": "..."},
//	    "tasks": [{"id": "...", "title": "Market Research", "description": "...", "order": 1}],
//	    "agents": [{"id": "...", "task_id": "...", "role": "Market Researcher", "goal": "...", "backstory": "..."}],
//	    "selected_tools": ["google_search"],
//	    "workflow_type": "sequential",
//	    "created_at": "2026-01-02T15:04:05Z"
//	}
type TeamConfiguration struct {
	ID            string       `json:"id"`
	Mission       Mission      `json:"mission"`
	Tasks         []Task       `json:"tasks"`
	Agents        []Agent      `json:"agents"`
	SelectedTools []string     `json:"selected_tools"`
	WorkflowType  WorkflowType `json:"workflow_type"`
	CreatedAt     time.Time    `json:"created_at"`
}

// NewID returns a fresh random identifier.
func NewID() string {
	return uuid.New().String()
}

// NewMission creates a mission with a freshly assigned identifier.
func NewMission(name, objective, description string, now time.Time) Mission {
	return Mission{
		ID:          NewID(),
		Name:        name,
		Objective:   objective,
		Description: description,
		CreatedAt:   now,
	}
}

// AssignIdentity fills in any missing identifiers and timestamps.
// Identifiers already present are kept, so it is safe to call on a team
// that came from a client or a store.
func (t *TeamConfiguration) AssignIdentity(now time.Time) {
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.Mission.ID == "" {
		t.Mission.ID = NewID()
	}
	if t.Mission.CreatedAt.IsZero() {
		t.Mission.CreatedAt = now
	}
	for i := range t.Tasks {
		if t.Tasks[i].ID == "" {
			t.Tasks[i].ID = NewID()
		}
	}
	for i := range t.Agents {
		if t.Agents[i].ID == "" {
			t.Agents[i].ID = NewID()
		}
	}
	if t.SelectedTools == nil {
		t.SelectedTools = []string{}
	}
}

// Validate checks the structural invariants of a team.
// Tool identifiers are not checked here; unknown tools degrade at render time.
func (t *TeamConfiguration) Validate() error {
	if strings.TrimSpace(t.Mission.Name) == "" {
		return fmt.Errorf("%w: mission name %w", errors.ErrInvalidTeam, errors.ErrEmptyValue)
	}
	if strings.TrimSpace(t.Mission.Objective) == "" {
		return fmt.Errorf("%w: mission objective %w", errors.ErrInvalidTeam, errors.ErrEmptyValue)
	}
	if !t.WorkflowType.Valid() {
		return fmt.Errorf("%w: %w %q", errors.ErrInvalidTeam, errors.ErrInvalidWorkflow, t.WorkflowType)
	}

	taskIDs := make(map[string]struct{}, len(t.Tasks))
	orders := make(map[int]struct{}, len(t.Tasks))
	for i, task := range t.Tasks {
		if task.Order < 1 {
			return fmt.Errorf("%w: task %d has non-positive order %d", errors.ErrInvalidTeam, i, task.Order)
		}
		if _, dup := orders[task.Order]; dup {
			return fmt.Errorf("%w: duplicate task order %d", errors.ErrInvalidTeam, task.Order)
		}
		orders[task.Order] = struct{}{}
		if task.ID != "" {
			taskIDs[task.ID] = struct{}{}
		}
	}

	for i, agent := range t.Agents {
		if strings.TrimSpace(agent.Role) == "" {
			return fmt.Errorf("%w: agent %d role %w", errors.ErrInvalidTeam, i, errors.ErrEmptyValue)
		}
		if agent.TaskID == "" {
			continue
		}
		if _, ok := taskIDs[agent.TaskID]; !ok {
			return fmt.Errorf("%w: agent %q references unknown task %q", errors.ErrInvalidTeam, agent.Role, agent.TaskID)
		}
	}
	return nil
}

// ParseWorkflowType converts s to a WorkflowType, rejecting unknown literals.
func ParseWorkflowType(s string) (WorkflowType, error) {
	w := constants.WorkflowType(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidWorkflow, s)
	}
	return w, nil
}
