package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMessageAndHistory(t *testing.T) {
	db := NewTestDB(t)

	require.NoError(t, db.LogMessage("+34600111222", DirectionInbound, "hola, quiero una cita", "es"))
	require.NoError(t, db.LogMessage("+34600111222", DirectionOutbound, "¿cuál es tu nombre?", "es"))
	require.NoError(t, db.LogMessage("+15550000000", DirectionInbound, "hi", "en"))

	history, err := db.GetMessageHistory("+34600111222", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Chronological order, oldest first.
	assert.Equal(t, DirectionInbound, history[0].Direction)
	assert.Equal(t, "hola, quiero una cita", history[0].Body)
	assert.Equal(t, DirectionOutbound, history[1].Direction)
}

func TestLogMessage_RejectsUnknownDirection(t *testing.T) {
	db := NewTestDB(t)
	assert.Error(t, db.LogMessage("+1", "sideways", "x", "en"))
}

func TestGetMessageHistory_Limit(t *testing.T) {
	db := NewTestDB(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.LogMessage("+1", DirectionInbound, "msg", "en"))
	}

	history, err := db.GetMessageHistory("+1", 3)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}
