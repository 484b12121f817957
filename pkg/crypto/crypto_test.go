package crypto

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	code, err := GenerateInviteCode()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{12}$`), code)
}

func TestGenerateTokenID(t *testing.T) {
	id, err := GenerateTokenID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), id)

	other, err := GenerateTokenID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestSyntheticCustomerID(t *testing.T) {
	id, err := SyntheticCustomerID()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^manual_[0-9a-f]{16}$`), id)
}

func TestNewGroupID(t *testing.T) {
	id, err := NewGroupID("greek")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "greek_"))
	assert.Regexp(t, regexp.MustCompile(`^greek_[0-9a-z]+$`), id)
}
