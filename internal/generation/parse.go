package generation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
)

// teamPayload is the JSON object the team prompt asks for.
// Tasks and Agents are pointers so a missing key can be told apart from an empty list.
type teamPayload struct {
	Tasks            *[]taskPayload  `json:"tasks"`
	Agents           *[]agentPayload `json:"agents"`
	RecommendedTools []string        `json:"recommended_tools"`
	WorkflowType     string          `json:"workflow_type"`
	Explanation      string          `json:"explanation"`
}

type taskPayload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       intField `json:"order"`
}

type agentPayload struct {
	TaskIndex intField `json:"task_index"`
	Role      string   `json:"role"`
	Goal      string   `json:"goal"`
	Backstory string   `json:"backstory"`
}

// intField is a loosely typed integer. Any JSON value decodes without error;
// valid is set only for a number with no fractional part.
type intField struct {
	value int
	valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *intField) UnmarshalJSON(data []byte) error {
	*f = intField{}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil //nolint:nilerr // an unusable value is reported through valid
	}
	n, ok := raw.(float64)
	if !ok || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
		return nil
	}
	f.value, f.valid = int(n), true
	return nil
}

// personaPayload is the JSON object the persona prompt asks for.
type personaPayload struct {
	Goal      *string `json:"goal"`
	Backstory *string `json:"backstory"`
}

// parseTeamPayload decodes text strictly. Surrounding whitespace is the only
// tolerated deviation.
func parseTeamPayload(text string) (*teamPayload, error) {
	var payload teamPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", crewerrors.ErrMalformedGenerationOutput, err)
	}
	if payload.Tasks == nil {
		return nil, fmt.Errorf("%w: missing tasks", crewerrors.ErrMalformedGenerationOutput)
	}
	if payload.Agents == nil {
		return nil, fmt.Errorf("%w: missing agents", crewerrors.ErrMalformedGenerationOutput)
	}
	return &payload, nil
}

// parsePersona decodes a persona reply; both fields must be present.
func parsePersona(text string) (domain.Persona, error) {
	var payload personaPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &payload); err != nil {
		return domain.Persona{}, fmt.Errorf("%w: %w", crewerrors.ErrMalformedGenerationOutput, err)
	}
	if payload.Goal == nil || payload.Backstory == nil {
		return domain.Persona{}, fmt.Errorf("%w: missing goal or backstory", crewerrors.ErrMalformedGenerationOutput)
	}
	return domain.Persona{Goal: *payload.Goal, Backstory: *payload.Backstory}, nil
}

// FallbackPersona returns the fixed persona used when generation output is unusable.
func FallbackPersona(role string) domain.Persona {
	lower := strings.ToLower(role)
	return domain.Persona{
		Goal:      fmt.Sprintf("Execute %s responsibilities with expertise and attention to detail.", lower),
		Backstory: fmt.Sprintf("A seasoned %s with extensive experience in handling complex challenges and delivering high-quality results.", lower),
	}
}

// buildTeam maps a decoded payload onto domain entities.
func (o *Orchestrator) buildTeam(req domain.GenerationRequest, payload *teamPayload) *domain.GeneratedTeam {
	now := o.clock.Now()
	team := &domain.GeneratedTeam{
		Mission:     domain.NewMission(req.Name, req.Objective, req.Description, now),
		Explanation: payload.Explanation,
	}

	tasks := *payload.Tasks
	orders := taskOrders(tasks)
	team.Tasks = make([]domain.Task, 0, len(tasks))
	for i, t := range tasks {
		team.Tasks = append(team.Tasks, domain.Task{
			ID:          domain.NewID(),
			Title:       t.Title,
			Description: t.Description,
			Order:       orders[i],
		})
	}

	team.Agents = make([]domain.Agent, 0, len(*payload.Agents))
	for i, a := range *payload.Agents {
		if !a.TaskIndex.valid || a.TaskIndex.value < 0 || a.TaskIndex.value >= len(team.Tasks) {
			o.logger.Debug().Int("agent", i).Str("role", a.Role).Msg("dropping agent with unusable task_index")
			continue
		}
		team.Agents = append(team.Agents, domain.Agent{
			ID:        domain.NewID(),
			TaskID:    team.Tasks[a.TaskIndex.value].ID,
			Role:      a.Role,
			Goal:      a.Goal,
			Backstory: a.Backstory,
		})
	}

	known, unknown := o.catalog.Filter(payload.RecommendedTools)
	if len(unknown) > 0 {
		o.logger.Debug().Strs("tools", unknown).Msg("dropping unknown recommended tools")
	}
	team.RecommendedTools = known

	workflow, err := domain.ParseWorkflowType(payload.WorkflowType)
	if err != nil {
		o.logger.Warn().Str("workflow_type", payload.WorkflowType).Msg("unknown workflow type, using sequential")
		workflow = constants.WorkflowSequential
	}
	team.WorkflowType = workflow

	return team
}

// taskOrders returns the order for each task: the payload order when it is
// a positive integer not already taken by an earlier task, otherwise index+1.
// A position-derived order that collides moves to the next free value.
func taskOrders(tasks []taskPayload) []int {
	orders := make([]int, len(tasks))
	taken := make(map[int]struct{}, len(tasks))
	for i, t := range tasks {
		if !t.Order.valid || t.Order.value < 1 {
			continue
		}
		if _, dup := taken[t.Order.value]; dup {
			continue
		}
		orders[i] = t.Order.value
		taken[t.Order.value] = struct{}{}
	}

	// Payload orders claimed above win over positions.
	for i := range orders {
		if orders[i] != 0 {
			continue
		}
		next := i + 1
		for {
			if _, used := taken[next]; !used {
				break
			}
			next++
		}
		orders[i] = next
		taken[next] = struct{}{}
	}
	return orders
}
