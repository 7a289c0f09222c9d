// AngelaMos | 2026
// policy.go

package billing

import (
	"fmt"
	"strings"

	"github.com/defensordigital/defensor-api/internal/account"
)

type Action int

const (
	// ActionIgnore is the default for any status not in the table.
	// Unknown provider statuses are not an error.
	ActionIgnore Action = iota
	ActionGrant
	ActionRevoke
)

func (a Action) String() string {
	switch a {
	case ActionGrant:
		return "grant"
	case ActionRevoke:
		return "revoke"
	default:
		return "ignore"
	}
}

// StatusPolicy is the declarative status -> action table. The
// reconciliation algorithm never hardcodes provider statuses; new
// ones are added in config.
type StatusPolicy struct {
	actions map[string]Action
}

func NewStatusPolicy(table map[string]string) (*StatusPolicy, error) {
	actions := make(map[string]Action, len(table))

	for status, name := range table {
		var action Action
		switch strings.ToLower(name) {
		case "grant":
			action = ActionGrant
		case "revoke":
			action = ActionRevoke
		case "ignore":
			action = ActionIgnore
		default:
			return nil, fmt.Errorf(
				"status policy: unknown action %q for status %q",
				name,
				status,
			)
		}
		actions[strings.ToLower(status)] = action
	}

	return &StatusPolicy{actions: actions}, nil
}

func (p *StatusPolicy) Classify(status string) Action {
	if action, ok := p.actions[strings.ToLower(strings.TrimSpace(status))]; ok {
		return action
	}
	return ActionIgnore
}

// TargetTier maps a non-ignore action to the tier it applies.
func (p *StatusPolicy) TargetTier(action Action) string {
	if action == ActionGrant {
		return account.TierPlus
	}
	return account.TierFree
}
