package reconcile

import (
	"fmt"
	"strings"
	"time"

	"agents-manager/core/document"
	"agents-manager/core/resource"
)

// Config holds reconciliation settings.
type Config struct {
	// DefaultEnvironment applies to manifest entries that name none.
	DefaultEnvironment string `mapstructure:"default_environment" default:"prod"`
	// PushPolicy is "always" or "skip-unchanged".
	PushPolicy string `mapstructure:"push_policy" default:"always"`
	// KeyCase is the casing of pulled config files: "snake" or "camel".
	KeyCase string `mapstructure:"key_case" default:"snake"`
	// PageSize is the remote listing page size.
	PageSize int `mapstructure:"page_size" default:"30"`
}

// Policy decides what push does with entries that already have a remote ID.
type Policy string

const (
	// PolicyAlways re-pushes every tracked entry.
	PolicyAlways Policy = "always"
	// PolicySkipUnchanged skips entries whose hash matches the last known hash.
	PolicySkipUnchanged Policy = "skip-unchanged"
)

// ParsePolicy validates a push policy name. Empty means PolicyAlways.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyAlways, "":
		return PolicyAlways, nil
	case PolicySkipUnchanged, "skip_unchanged":
		return PolicySkipUnchanged, nil
	default:
		return "", fmt.Errorf("unknown push policy %q (expected %s or %s)", s, PolicyAlways, PolicySkipUnchanged)
	}
}

// PullMode selects which remote resources a pull writes locally.
type PullMode string

const (
	// PullDefault creates missing entries and never touches existing ones.
	PullDefault PullMode = "default"
	// PullUpdate refreshes existing entries only.
	PullUpdate PullMode = "update"
	// PullAll refreshes existing entries and creates missing ones.
	PullAll PullMode = "all"
)

// ParsePullMode validates a pull mode name. Empty means PullDefault.
func ParsePullMode(s string) (PullMode, error) {
	switch PullMode(strings.ToLower(strings.TrimSpace(s))) {
	case PullDefault, "":
		return PullDefault, nil
	case PullUpdate:
		return PullUpdate, nil
	case PullAll:
		return PullAll, nil
	default:
		return "", fmt.Errorf("unknown pull mode %q (expected default, update or all)", s)
	}
}

// ActionType is the decision taken for one resource.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionSkip   ActionType = "skip"
	// ActionWarn marks an entry that cannot be processed (missing config, failed listing).
	ActionWarn   ActionType = "warn"
	ActionDelete ActionType = "delete"
)

// Action is one planned step.
type Action struct {
	Type        ActionType    `json:"type"`
	Kind        resource.Kind `json:"kind"`
	Environment string        `json:"env"`
	RemoteID    string        `json:"id,omitempty"`
	ConfigPath  string        `json:"config,omitempty"`
	Name        string        `json:"name,omitempty"`
	Hash        string        `json:"hash,omitempty"`
	Reason      string        `json:"reason,omitempty"`

	// index is the manifest position, -1 for resources not yet tracked.
	index int
	// config is the snake_case payload of a push.
	config document.Document
}

// PlanSummary counts actions by type.
type PlanSummary struct {
	Create int `json:"create"`
	Update int `json:"update"`
	Skip   int `json:"skip"`
	Warn   int `json:"warn"`
}

// Mutating reports whether applying the plan would change anything.
func (s PlanSummary) Mutating() bool {
	return s.Create > 0 || s.Update > 0
}

func (s PlanSummary) String() string {
	out := fmt.Sprintf("%d create, %d update, %d skip", s.Create, s.Update, s.Skip)
	if s.Warn > 0 {
		out += fmt.Sprintf(", %d warn", s.Warn)
	}
	return out
}

// Plan is the output of a planner. Planners never mutate state.
type Plan struct {
	Kind      resource.Kind `json:"kind"`
	Operation Operation     `json:"operation"`
	Actions   []Action      `json:"actions"`
	Summary   PlanSummary   `json:"summary"`
}

func (p *Plan) add(a Action) {
	p.Actions = append(p.Actions, a)
	switch a.Type {
	case ActionCreate:
		p.Summary.Create++
	case ActionUpdate:
		p.Summary.Update++
	case ActionSkip:
		p.Summary.Skip++
	case ActionWarn:
		p.Summary.Warn++
	}
}

// Operation names a top-level engine operation.
type Operation string

const (
	OperationPush   Operation = "push"
	OperationPull   Operation = "pull"
	OperationDelete Operation = "delete"
)

// Result reports what an applied (or simulated) plan did.
type Result struct {
	Plan    *Plan `json:"plan"`
	DryRun  bool  `json:"dry_run"`
	Aborted bool  `json:"aborted"`
	Created int   `json:"created"`
	Updated int   `json:"updated"`
	Skipped int   `json:"skipped"`
	Warned  int   `json:"warned"`
	Failed  int   `json:"failed"`
	// Err joins every per-entry failure.
	Err error `json:"-"`
}

// PushOptions scopes a push.
type PushOptions struct {
	// Selector restricts the push to one entry: remote ID, config path or display name.
	Selector    string
	Environment string
	DryRun      bool
	// Policy overrides the configured push policy when set.
	Policy Policy
}

// ConfirmFunc is asked before a pull writes anything. Returning false aborts cleanly.
type ConfirmFunc func(summary PlanSummary) (bool, error)

// PullOptions scopes a pull.
type PullOptions struct {
	// RemoteID restricts the pull to one remote resource.
	RemoteID    string
	Environment string
	Mode        PullMode
	// Search is passed to the remote listing as a name filter.
	Search  string
	DryRun  bool
	Confirm ConfirmFunc
}

// DeleteOptions scopes a delete.
type DeleteOptions struct {
	Environment string
	// Confirm is asked once with the number of entries DeleteAll is about to remove.
	Confirm func(count int) (bool, error)
}

// DeleteResult reports a delete run.
type DeleteResult struct {
	Aborted bool `json:"aborted"`
	Deleted int  `json:"deleted"`
	// RemoteFailed counts entries removed locally whose remote delete failed.
	RemoteFailed int `json:"remote_failed"`
	// Failed counts entries that could not be removed locally.
	Failed int   `json:"failed"`
	Err    error `json:"-"`
}

// HashState compares a config on disk with its last known hash.
type HashState string

const (
	HashInSync    HashState = "in_sync"
	HashModified  HashState = "modified"
	HashUntracked HashState = "untracked"
	HashMissing   HashState = "missing"
	// HashInvalid marks a config file that exists but is not a JSON object.
	HashInvalid   HashState = "invalid"
)

// StatusEntry is the read-only projection of one manifest entry.
type StatusEntry struct {
	Name          string    `json:"name"`
	Environment   string    `json:"env"`
	RemoteID      string    `json:"id,omitempty"`
	ConfigPath    string    `json:"config"`
	ConfigPresent bool      `json:"config_present"`
	HasRemoteID   bool      `json:"has_remote_id"`
	State         HashState `json:"state"`
}

// StatusReport lists the status of every entry of one kind.
type StatusReport struct {
	Kind    resource.Kind `json:"kind"`
	Entries []StatusEntry `json:"entries"`
}

// Event describes one applied step, delivered to observers.
type Event struct {
	Kind        resource.Kind
	Operation   Operation
	Action      ActionType
	Environment string
	RemoteID    string
	ConfigPath  string
	Hash        string
	Err         error
	Time        time.Time
}
