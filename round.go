package main

import (
	"math/rand"
	"sort"
)

// round is the state of the current game round. At most one exists at a time;
// the next startRound simply replaces it, there is no terminal state.
type round struct {
	innocentTask string
	imposterTask string
	imposters    map[string]bool
	revealed     bool
}

// startRound picks the imposters for a new round. count is clamped to
// [0, len(ids)], and the draw is a uniform Fisher-Yates shuffle so every
// participant has the same chance of being picked.
func startRound(innocentTask, imposterTask string, count int, ids []string) *round {
	r := &round{
		innocentTask: innocentTask,
		imposterTask: imposterTask,
		imposters:    make(map[string]bool),
	}

	if count < 0 {
		count = 0
	}
	if count > len(ids) {
		count = len(ids)
	}

	pool := make([]string, len(ids))
	copy(pool, ids)
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	for _, id := range pool[:count] {
		r.imposters[id] = true
	}

	return r
}

// TaskFor returns the task a single participant is allowed to see. It is the
// only way task assignments leave the round, and it is always delivered to
// that participant alone.
func (r *round) TaskFor(id string) string {
	if r.imposters[id] {
		return r.imposterTask
	}
	return r.innocentTask
}

func (r *round) IsImposter(id string) bool {
	return r.imposters[id]
}

// ImposterIDs returns the imposter set, sorted for stable output.
func (r *round) ImposterIDs() []string {
	ids := make([]string, 0, len(r.imposters))
	for id := range r.imposters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RevealRoles flips the round from roles-hidden to roles-revealed and returns
// the imposter set for public broadcast. The transition is one-way for the
// lifetime of the round.
func (r *round) RevealRoles() []string {
	r.revealed = true
	return r.ImposterIDs()
}

// RevealTask returns the innocent task for display on the shared overlay
// without exposing who received the other one.
func (r *round) RevealTask() string {
	return r.innocentTask
}

func (r *round) Revealed() bool {
	return r.revealed
}
