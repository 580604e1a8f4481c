package oauthstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	iss := NewIssuer("state-test-secret")
	st, err := iss.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, st)

	assert.NoError(t, iss.Verify(st, st))
}

func TestVerifyMissingOrMismatched(t *testing.T) {
	iss := NewIssuer("state-test-secret")
	st, err := iss.Issue()
	require.NoError(t, err)
	other, err := iss.Issue()
	require.NoError(t, err)

	assert.Error(t, iss.Verify("", st))
	assert.Error(t, iss.Verify(st, ""))
	assert.Error(t, iss.Verify(st, other))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	iss := NewIssuer("state-test-secret")
	foreign := NewIssuer("another-secret")
	st, err := foreign.Issue()
	require.NoError(t, err)

	assert.Error(t, iss.Verify(st, st))
}

func TestRandomSecretStillRoundTrips(t *testing.T) {
	iss := NewIssuer("")
	st, err := iss.Issue()
	require.NoError(t, err)
	assert.NoError(t, iss.Verify(st, st))
}
