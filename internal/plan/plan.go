package plan

import "strings"

type Type string

const (
	TypeIndividual Type = "individual"
	TypeGroup      Type = "group"
	TypeGreek      Type = "greek"
	TypeNight      Type = "night"
	TypeBus        Type = "bus"
	TypeUnknown    Type = "unknown"
)

// Plan is the classification of a group id: what kind of plan it is and
// where it ranks when a new acquisition competes with an existing one.
// Tier 0 marks one-time passes, which the lifecycle coordinator never
// replaces.
type Plan struct {
	Type Type
	Tier int
}

// OneTime reports whether the plan is a one-time pass (night/bus),
// which coexists with subscription plans and is never auto-replaced.
func (p Plan) OneTime() bool { return p.Tier == 0 }

// Classify maps a group id to its plan. Case-insensitive substring
// match, first match wins; total over all inputs.
func Classify(groupID string) Plan {
	id := strings.ToLower(groupID)
	switch {
	case strings.Contains(id, "individual"):
		return Plan{Type: TypeIndividual, Tier: 1}
	case strings.Contains(id, "group"):
		return Plan{Type: TypeGroup, Tier: 2}
	case strings.Contains(id, "greek"):
		return Plan{Type: TypeGreek, Tier: 3}
	case strings.Contains(id, "night"):
		return Plan{Type: TypeNight, Tier: 0}
	case strings.Contains(id, "bus"):
		return Plan{Type: TypeBus, Tier: 0}
	default:
		return Plan{Type: TypeUnknown, Tier: 0}
	}
}

// PassLabel derives the display label shown at scan time from the first
// three characters of the group id. This is intentionally NOT the same
// rule as Classify: scanner screens have always labeled by prefix, and
// the two derivations can disagree on odd group ids. Keep them apart.
func PassLabel(groupID string) string {
	prefix := groupID
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	switch strings.ToLower(prefix) {
	case "ind":
		return "Individual Pass"
	case "nig":
		return "Night Pass"
	case "gre":
		return "Greek Pass"
	case "gro":
		return "Group Pass"
	default:
		return "Pass"
	}
}

// DefaultMaxSubscribers is the server-side capacity default applied
// when the caller omits one.
func DefaultMaxSubscribers(t Type) int {
	switch t {
	case TypeGroup:
		return 5
	case TypeGreek:
		return 10
	default:
		return 1
	}
}

// HasInvites reports whether the plan type issues shareable invites.
func HasInvites(t Type) bool {
	return t == TypeGroup || t == TypeGreek
}
