package myerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnit_UpstreamStatusError(t *testing.T) {
	err := fmt.Errorf("autocomplete: %w", &UpstreamStatusError{Status: 429})

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	var statusErr *UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 429, statusErr.Status)
}

func TestUnit_InvalidScheduleError(t *testing.T) {
	err := fmt.Errorf("compose: %w", &InvalidScheduleError{Raw: "tomorrow"})

	assert.ErrorIs(t, err, ErrInvalidSchedule)
	assert.False(t, errors.Is(err, ErrUnknownField))
	assert.Contains(t, err.Error(), "tomorrow")
	assert.Contains(t, (&InvalidScheduleError{}).Error(), "no date")
}
