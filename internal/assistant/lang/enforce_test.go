package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforceAcceptsFirstReply(t *testing.T) {
	calls := 0
	res, err := Enforce(func(attempt int, previous string) (string, error) {
		calls++
		return "ok", nil
	}, func(reply string) bool { return true }, 2)

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Reply)
	assert.True(t, res.Matched)
	assert.Zero(t, res.Retries)
	assert.Equal(t, 1, calls)
}

func TestEnforceRetriesUntilMatch(t *testing.T) {
	replies := []string{"wrong", "still wrong", "right"}
	var previousSeen []string
	res, err := Enforce(func(attempt int, previous string) (string, error) {
		previousSeen = append(previousSeen, previous)
		return replies[attempt], nil
	}, func(reply string) bool { return reply == "right" }, 2)

	require.NoError(t, err)
	assert.Equal(t, "right", res.Reply)
	assert.True(t, res.Matched)
	assert.Equal(t, 2, res.Retries)
	// each retry quotes the reply it is correcting
	assert.Equal(t, []string{"", "wrong", "still wrong"}, previousSeen)
}

func TestEnforceKeepsLastReplyWhenBoundExhausted(t *testing.T) {
	calls := 0
	res, err := Enforce(func(attempt int, previous string) (string, error) {
		calls++
		return "wrong", nil
	}, func(reply string) bool { return false }, 2)

	require.NoError(t, err)
	assert.Equal(t, "wrong", res.Reply)
	assert.False(t, res.Matched)
	assert.Equal(t, 2, res.Retries)
	// initial call plus exactly two corrective retries, never more
	assert.Equal(t, 3, calls)
}

func TestEnforceInitialFailurePropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := Enforce(func(attempt int, previous string) (string, error) {
		return "", boom
	}, func(reply string) bool { return true }, 2)

	assert.ErrorIs(t, err, boom)
}

func TestEnforceRetryFailureKeepsPreviousReply(t *testing.T) {
	res, err := Enforce(func(attempt int, previous string) (string, error) {
		if attempt == 0 {
			return "wrong", nil
		}
		return "", errors.New("retry failed")
	}, func(reply string) bool { return false }, 2)

	require.NoError(t, err)
	assert.Equal(t, "wrong", res.Reply)
	assert.False(t, res.Matched)
	assert.Zero(t, res.Retries)
}

func TestEnforceZeroBudgetNeverRetries(t *testing.T) {
	calls := 0
	res, err := Enforce(func(attempt int, previous string) (string, error) {
		calls++
		return "wrong", nil
	}, func(reply string) bool { return false }, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, res.Matched)
}
