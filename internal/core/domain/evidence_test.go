package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceStatus_CanTransition(t *testing.T) {
	t.Run("happy path transitions are legal", func(t *testing.T) {
		assert.True(t, EvidenceQueued.CanTransition(EvidenceProcessing))
		assert.True(t, EvidenceProcessing.CanTransition(EvidenceClassified))
		assert.True(t, EvidenceClassified.CanTransition(EvidenceComplete))
	})

	t.Run("failure is reachable from non-terminal states", func(t *testing.T) {
		assert.True(t, EvidenceQueued.CanTransition(EvidenceFailed))
		assert.True(t, EvidenceProcessing.CanTransition(EvidenceFailed))
		assert.True(t, EvidenceClassified.CanTransition(EvidenceFailed))
	})

	t.Run("complete is terminal", func(t *testing.T) {
		assert.False(t, EvidenceComplete.CanTransition(EvidenceQueued))
		assert.False(t, EvidenceComplete.CanTransition(EvidenceFailed))
	})

	t.Run("failed items can be requeued", func(t *testing.T) {
		assert.True(t, EvidenceFailed.CanTransition(EvidenceQueued))
		assert.False(t, EvidenceFailed.CanTransition(EvidenceComplete))
	})

	t.Run("interrupted processing can return to queued", func(t *testing.T) {
		assert.True(t, EvidenceProcessing.CanTransition(EvidenceQueued))
	})

	t.Run("skipping states is illegal", func(t *testing.T) {
		assert.False(t, EvidenceQueued.CanTransition(EvidenceComplete))
		assert.False(t, EvidenceQueued.CanTransition(EvidenceClassified))
		assert.False(t, EvidenceProcessing.CanTransition(EvidenceComplete))
	})
}

func TestEvidenceItem_Transition(t *testing.T) {
	t.Run("legal transition updates status and timestamp", func(t *testing.T) {
		item := &EvidenceItem{Status: EvidenceQueued}

		err := item.Transition(EvidenceProcessing)

		require.NoError(t, err)
		assert.Equal(t, EvidenceProcessing, item.Status)
		assert.False(t, item.UpdatedAt.IsZero())
	})

	t.Run("illegal transition returns ErrInvalidTransition", func(t *testing.T) {
		item := &EvidenceItem{Status: EvidenceQueued}

		err := item.Transition(EvidenceComplete)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, EvidenceQueued, item.Status)
	})
}

func TestQueueStatus_Total(t *testing.T) {
	status := QueueStatus{Queued: 2, Processing: 1, Classified: 1, Complete: 5, Failed: 1}
	assert.Equal(t, 10, status.Total())
}
