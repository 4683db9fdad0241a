package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryUpsert(t *testing.T) {
	t.Run("inserts a new participant", func(t *testing.T) {
		reg := newRegistry()

		reg.Upsert("c-1", Participant{Name: "Alice", Score: 3})

		p, ok := reg.Get("c-1")
		require.True(t, ok)
		assert.Equal(t, "c-1", p.ID)
		assert.Equal(t, "Alice", p.Name)
		assert.Equal(t, 3, p.Score)
	})

	t.Run("fully replaces on repeat upsert", func(t *testing.T) {
		reg := newRegistry()

		reg.Upsert("c-1", Participant{Name: "Alice", StreamID: "s-1", Score: 5, Image: "png"})
		reg.Upsert("c-1", Participant{Name: "Alicia"})

		p, ok := reg.Get("c-1")
		require.True(t, ok)
		assert.Equal(t, "Alicia", p.Name)
		assert.Empty(t, p.StreamID)
		assert.Empty(t, p.Image)
		assert.Zero(t, p.Score)
	})

	t.Run("ignores an empty connection id", func(t *testing.T) {
		reg := newRegistry()

		reg.Upsert("", Participant{Name: "ghost"})

		assert.Zero(t, reg.Len())
	})

	t.Run("one entry per connection id", func(t *testing.T) {
		reg := newRegistry()

		for i := 0; i < 3; i++ {
			reg.Upsert("c-1", Participant{Name: "Alice"})
			reg.Upsert("c-2", Participant{Name: "Bob"})
		}

		all := reg.All()
		assert.Len(t, all, 2)
		assert.Equal(t, "Alice", all["c-1"].Name)
		assert.Equal(t, "Bob", all["c-2"].Name)
	})
}

func TestRegistryRemove(t *testing.T) {
	reg := newRegistry()

	reg.Upsert("c-1", Participant{Name: "Alice"})
	reg.Remove("c-1")
	reg.Remove("c-1") // no-op the second time
	reg.Remove("never-existed")

	assert.Zero(t, reg.Len())
	_, ok := reg.Get("c-1")
	assert.False(t, ok)
}

func TestRegistryAllReturnsSnapshot(t *testing.T) {
	reg := newRegistry()
	reg.Upsert("c-1", Participant{Name: "Alice"})

	snapshot := reg.All()
	reg.AdjustScore("c-1", 10)

	assert.Zero(t, snapshot["c-1"].Score)

	p, _ := reg.Get("c-1")
	assert.Equal(t, 10, p.Score)
}

func TestRegistryAdjustScore(t *testing.T) {
	t.Run("additive and order-independent", func(t *testing.T) {
		grants := [][]int{
			{3, -1, 2},
			{2, 3, -1},
			{-1, 2, 3},
		}

		for _, order := range grants {
			reg := newRegistry()
			reg.Upsert("c-1", Participant{Name: "Alice"})

			for _, delta := range order {
				reg.AdjustScore("c-1", delta)
			}

			p, _ := reg.Get("c-1")
			assert.Equal(t, 4, p.Score)
		}
	})

	t.Run("may go negative", func(t *testing.T) {
		reg := newRegistry()
		reg.Upsert("c-1", Participant{Name: "Alice"})

		reg.AdjustScore("c-1", -7)

		p, _ := reg.Get("c-1")
		assert.Equal(t, -7, p.Score)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		reg := newRegistry()
		reg.Upsert("c-1", Participant{Name: "Alice"})

		reg.AdjustScore("c-2", 100)

		p, _ := reg.Get("c-1")
		assert.Zero(t, p.Score)
	})
}

func TestRegistryArtifacts(t *testing.T) {
	t.Run("stores and replaces", func(t *testing.T) {
		reg := newRegistry()
		reg.Upsert("c-1", Participant{Name: "Alice"})

		reg.SetArtifact("c-1", "first")
		reg.SetArtifact("c-1", "second")

		p, _ := reg.Get("c-1")
		assert.Equal(t, "second", p.Image)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		reg := newRegistry()

		reg.SetArtifact("c-404", "data")

		assert.Zero(t, reg.Len())
	})

	t.Run("clear wipes everyone", func(t *testing.T) {
		reg := newRegistry()
		reg.Upsert("c-1", Participant{Name: "Alice", Image: "a"})
		reg.Upsert("c-2", Participant{Name: "Bob", Image: "b"})

		reg.ClearArtifacts()

		for _, p := range reg.All() {
			assert.Empty(t, p.Image)
		}
	})
}

func TestRegistryFindByLogin(t *testing.T) {
	reg := newRegistry()
	reg.Upsert("c-1", Participant{Login: "alice", Name: "Alice"})

	id, ok := reg.FindByLogin("alice")
	assert.True(t, ok)
	assert.Equal(t, "c-1", id)

	_, ok = reg.FindByLogin("bob")
	assert.False(t, ok)

	// An empty login never matches, even if anonymous entries exist.
	reg.Upsert("c-2", Participant{Name: "NoLogin"})
	_, ok = reg.FindByLogin("")
	assert.False(t, ok)
}
