package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRoundCounts(t *testing.T) {
	ids := []string{"a", "b", "c"}

	t.Run("zero means no imposters", func(t *testing.T) {
		r := startRound("cat", "dog", 0, ids)

		assert.Empty(t, r.ImposterIDs())
		for _, id := range ids {
			assert.Equal(t, "cat", r.TaskFor(id))
		}
	})

	t.Run("negative clamps to zero", func(t *testing.T) {
		r := startRound("cat", "dog", -3, ids)

		assert.Empty(t, r.ImposterIDs())
	})

	t.Run("count above roster size assigns everyone", func(t *testing.T) {
		r := startRound("cat", "dog", 10, ids)

		assert.Len(t, r.ImposterIDs(), len(ids))
		for _, id := range ids {
			assert.Equal(t, "dog", r.TaskFor(id))
		}
	})

	t.Run("exact count of distinct imposters", func(t *testing.T) {
		r := startRound("cat", "dog", 2, ids)

		picked := r.ImposterIDs()
		require.Len(t, picked, 2)
		assert.NotEqual(t, picked[0], picked[1])
	})

	t.Run("empty roster yields empty assignment", func(t *testing.T) {
		r := startRound("cat", "dog", 3, nil)

		assert.Empty(t, r.ImposterIDs())
	})
}

func TestTaskForNeverLeaks(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 50; i++ {
		r := startRound("innocent", "imposter", 2, ids)

		for _, id := range ids {
			if r.IsImposter(id) {
				assert.Equal(t, "imposter", r.TaskFor(id))
			} else {
				assert.Equal(t, "innocent", r.TaskFor(id))
			}
		}
	}
}

func TestStartRoundUniformSelection(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	const trials = 4000
	hits := make(map[string]int)

	for i := 0; i < trials; i++ {
		r := startRound("x", "y", 1, ids)

		picked := r.ImposterIDs()
		require.Len(t, picked, 1)
		hits[picked[0]]++
	}

	// Each of the four players should be picked roughly trials/4 times.
	// A +/-20% band is far wider than any plausible statistical wobble
	// while still catching a biased draw.
	expected := trials / len(ids)
	for _, id := range ids {
		assert.InDelta(t, expected, hits[id], float64(expected)*0.2,
			"player %s picked %d times", id, hits[id])
	}
}

func TestRoundReveals(t *testing.T) {
	r := startRound("cat", "dog", 1, []string{"a", "b", "c"})

	assert.False(t, r.Revealed())

	revealed := r.RevealRoles()
	assert.True(t, r.Revealed())
	assert.Equal(t, r.ImposterIDs(), revealed)

	assert.Equal(t, "cat", r.RevealTask())

	// A new round resets the reveal sub-state.
	next := startRound("cat", "dog", 1, []string{"a", "b", "c"})
	assert.False(t, next.Revealed())
}
