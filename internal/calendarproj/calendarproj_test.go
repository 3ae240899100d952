package calendarproj

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSyncUIDStableForSameInput(t *testing.T) {
	taskID := uuid.New()
	assert.Equal(t, SyncUID(taskID, 1), SyncUID(taskID, 1))
}

func TestSyncUIDChangesWithEpoch(t *testing.T) {
	taskID := uuid.New()
	assert.NotEqual(t, SyncUID(taskID, 1), SyncUID(taskID, 2))
}

func TestSyncUIDChangesWithTaskID(t *testing.T) {
	assert.NotEqual(t, SyncUID(uuid.New(), 1), SyncUID(uuid.New(), 1))
}
