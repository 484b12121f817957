package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		groupID string
		want    Plan
	}{
		{"individual-membership", Plan{TypeIndividual, 1}},
		{"INDIVIDUAL_xyz", Plan{TypeIndividual, 1}},
		{"group_m3k9aab2cd", Plan{TypeGroup, 2}},
		{"greek_123", Plan{TypeGreek, 3}},
		{"night_pass_42", Plan{TypeNight, 0}},
		{"bus_pass", Plan{TypeBus, 0}},
		{"campus_bus", Plan{TypeBus, 0}},
		{"xyz", Plan{TypeUnknown, 0}},
		{"", Plan{TypeUnknown, 0}},
		// "individual" wins over a later "group" occurrence: first match
		// in declaration order.
		{"individual_group", Plan{TypeIndividual, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.groupID), "groupID=%q", tt.groupID)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Never panics, always returns a value, deterministic.
	inputs := []string{"", "a", "ñ", "GROUP", "GrEeK-θ", "\x00\xff", "busbusbus"}
	for _, in := range inputs {
		first := Classify(in)
		assert.Equal(t, first, Classify(in))
		assert.NotEmpty(t, first.Type)
	}
}

func TestPassLabel(t *testing.T) {
	tests := []struct {
		groupID string
		want    string
	}{
		{"individual-membership", "Individual Pass"},
		{"night_abc", "Night Pass"},
		{"greek_123", "Greek Pass"},
		{"group_123", "Group Pass"},
		{"GRO_whatever", "Group Pass"},
		{"bus_pass", "Pass"}, // labeler has no bus case; classifier does
		{"xy", "Pass"},
		{"", "Pass"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PassLabel(tt.groupID), "groupID=%q", tt.groupID)
	}
}

func TestLabelerAndClassifierDiverge(t *testing.T) {
	// A group id starting "gro" that is not a group plan: the two rules
	// disagree on purpose.
	id := "grotto_special"
	assert.Equal(t, TypeUnknown, Classify(id).Type)
	assert.Equal(t, "Group Pass", PassLabel(id))
}

func TestDefaultMaxSubscribers(t *testing.T) {
	assert.Equal(t, 1, DefaultMaxSubscribers(TypeIndividual))
	assert.Equal(t, 5, DefaultMaxSubscribers(TypeGroup))
	assert.Equal(t, 10, DefaultMaxSubscribers(TypeGreek))
	assert.Equal(t, 1, DefaultMaxSubscribers(TypeNight))
}

func TestHasInvites(t *testing.T) {
	assert.False(t, HasInvites(TypeIndividual))
	assert.True(t, HasInvites(TypeGroup))
	assert.True(t, HasInvites(TypeGreek))
	assert.False(t, HasInvites(TypeBus))
}
