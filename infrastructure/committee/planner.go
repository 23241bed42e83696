// Package committee plans voting sessions: member selection, chair
// selection, quorum computation, and deadline policy.
package committee

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/veritasedu/conclave/internal/domain"
)

// Common errors returned by the planner.
var (
	// ErrNoCandidates is returned when a session is planned with no
	// available committee members.
	ErrNoCandidates = errors.New("no available committee members")

	// ErrUnknownSessionType is returned for a session type with no
	// configured deadline window.
	ErrUnknownSessionType = errors.New("unknown session type")
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Planner builds voting sessions for committee-path decisions. It owns
// the chair-selection priority and the deadline window policy; the
// lifecycle rules themselves live on domain.VotingSession.
//
// The planner is stateless and thread-safe.
type Planner struct {
	// config contains the validated configuration parameters.
	config PlannerConfig
}

// PlannerConfig defines the session policy: deadline windows per session
// type and the role priority used for chair selection.
type PlannerConfig struct {
	// StandardWindow is the voting window for standard sessions.
	StandardWindow time.Duration `yaml:"standard_window" json:"standard_window" validate:"required,gt=0"`

	// ExpeditedWindow is the shorter voting window for expedited sessions.
	ExpeditedWindow time.Duration `yaml:"expedited_window" json:"expedited_window" validate:"required,gt=0"`

	// RolePriority orders institutional role categories from highest to
	// lowest authority. The first role present among available members
	// chairs the session; with no prioritized role present, the first
	// available member chairs, so a session always has a chair.
	RolePriority []string `yaml:"role_priority" json:"role_priority" validate:"required,min=1,dive,min=1"`
}

// UnmarshalYAML decodes the deadline windows from duration strings such
// as "168h" or "30m". Fields absent from the document keep their current
// values, so decoding on top of defaults acts as an overlay.
func (c *PlannerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		StandardWindow  string   `yaml:"standard_window"`
		ExpeditedWindow string   `yaml:"expedited_window"`
		RolePriority    []string `yaml:"role_priority"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.StandardWindow != "" {
		d, err := time.ParseDuration(raw.StandardWindow)
		if err != nil {
			return fmt.Errorf("invalid standard_window: %w", err)
		}
		c.StandardWindow = d
	}
	if raw.ExpeditedWindow != "" {
		d, err := time.ParseDuration(raw.ExpeditedWindow)
		if err != nil {
			return fmt.Errorf("invalid expedited_window: %w", err)
		}
		c.ExpeditedWindow = d
	}
	if raw.RolePriority != nil {
		c.RolePriority = raw.RolePriority
	}
	return nil
}

// DefaultPlannerConfig returns the institutional session policy defaults:
// a week for standard reviews, two days for expedited ones.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		StandardWindow:  7 * 24 * time.Hour,
		ExpeditedWindow: 48 * time.Hour,
		RolePriority: []string{
			"dean",
			"admissions_director",
			"faculty_chair",
			"spiritual_director",
			"registrar",
		},
	}
}

// NewPlanner creates a Planner with the specified configuration.
func NewPlanner(config PlannerConfig) (*Planner, error) {
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Planner{config: config}, nil
}

// NewPlannerFromConfig creates a Planner from a configuration map,
// overlaying user values on the defaults. This is the boundary adapter
// for YAML/JSON configuration.
func NewPlannerFromConfig(config map[string]any) (*Planner, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	cfg := DefaultPlannerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return NewPlanner(cfg)
}

// PlanSession builds a PENDING voting session for the application from
// the candidate member pool. Unavailable members and members without a
// positive voting weight are dropped; the session's quorum is computed
// from the members actually seated.
func (p *Planner) PlanSession(
	applicationID string,
	candidates []domain.CommitteeMember,
	sessionType domain.SessionType,
	now time.Time,
) (*domain.VotingSession, error) {
	window, err := p.windowFor(sessionType)
	if err != nil {
		return nil, err
	}

	members := make([]domain.CommitteeMember, 0, len(candidates))
	for _, m := range candidates {
		if m.Available && m.Weight > 0 {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: application %s", ErrNoCandidates, applicationID)
	}

	return &domain.VotingSession{
		ID:             uuid.NewString(),
		ApplicationID:  applicationID,
		Type:           sessionType,
		RequiredQuorum: domain.QuorumFor(len(members)),
		Deadline:       now.Add(window),
		Status:         domain.SessionPending,
		Chair:          p.SelectChair(members),
		Members:        members,
		CreatedAt:      now,
	}, nil
}

// SelectChair picks the session chair from the given members. Selection
// follows the configured role priority; the highest-priority role present
// wins, with ties within a role going to the first such member. When no
// member holds a prioritized role, the first member chairs.
func (p *Planner) SelectChair(members []domain.CommitteeMember) domain.CommitteeMember {
	for _, role := range p.config.RolePriority {
		for _, m := range members {
			if m.Role == role {
				return m
			}
		}
	}
	return members[0]
}

// CancelIfExpired cancels a session whose deadline has passed while it
// was still PENDING or ACTIVE. It returns true when the session was
// cancelled by this call. Expiry is data-driven: it happens only when a
// caller asks, never from a background timer.
func (p *Planner) CancelIfExpired(session *domain.VotingSession, now time.Time) (bool, error) {
	if session.Status != domain.SessionPending && session.Status != domain.SessionActive {
		return false, nil
	}
	if !now.After(session.Deadline) {
		return false, nil
	}
	if err := session.Cancel(); err != nil {
		return false, err
	}
	return true, nil
}

// windowFor maps a session type to its configured deadline window.
func (p *Planner) windowFor(t domain.SessionType) (time.Duration, error) {
	switch t {
	case domain.SessionStandard:
		return p.config.StandardWindow, nil
	case domain.SessionExpedited:
		return p.config.ExpeditedWindow, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSessionType, t)
	}
}
