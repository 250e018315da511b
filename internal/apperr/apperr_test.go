package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreconditionCodeAndMessage(t *testing.T) {
	err := Precondition("missing formation")
	assert.Equal(t, CodePrecondition, CodeOf(err))
	assert.Equal(t, "missing formation", err.Error())
}

func TestInvalidLineupIncludesReason(t *testing.T) {
	err := InvalidLineup("must contain exactly 1 GK")
	assert.Equal(t, CodeInvalidLineup, CodeOf(err))
	assert.Equal(t, "must contain exactly 1 GK", ReasonOf(err))
	assert.Contains(t, err.Error(), "must contain exactly 1 GK")
}

func TestInvariantCode(t *testing.T) {
	err := Invariant("substitution cap exceeded")
	assert.Equal(t, CodeInvariant, CodeOf(err))
}

func TestTransportLossCode(t *testing.T) {
	err := TransportLoss("client disconnected")
	assert.Equal(t, CodeTransportLoss, CodeOf(err))
}

func TestInternalWrapsMinuteAndEventContext(t *testing.T) {
	wrapped := errors.New("boom")
	err := Internal(57, "goal", wrapped)

	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Contains(t, err.Error(), "57")
	assert.Contains(t, err.Error(), "goal")
	assert.ErrorIs(t, err, wrapped)
}

func TestReasonOfReturnsEmptyForNonInvalidLineupError(t *testing.T) {
	err := Invariant("whatever")
	assert.Equal(t, "", ReasonOf(err))
}

func TestCodeOfDefaultsToInternalForPlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
