package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberOr(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		def  int
		want int
	}{
		{"absent defaults", ``, 1, 1},
		{"null defaults", `null`, 1, 1},
		{"explicit zero stays zero", `0`, 1, 0},
		{"plain number", `3`, 1, 3},
		{"negative number", `-2`, 0, -2},
		{"quoted number", `"4"`, 1, 4},
		{"float truncates", `2.9`, 1, 2},
		{"garbage defaults", `"banana"`, 1, 1},
		{"object defaults", `{"n":3}`, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, numberOr(json.RawMessage(tc.raw), tc.def))
		})
	}
}

func TestClientMessageCountDistinguishesAbsentFromZero(t *testing.T) {
	var withZero, without ClientMessage

	require.NoError(t, json.Unmarshal([]byte(`{"type":"startRound","inno":"a","out":"b","count":0}`), &withZero))
	require.NoError(t, json.Unmarshal([]byte(`{"type":"startRound","inno":"a","out":"b"}`), &without))

	assert.Equal(t, 0, numberOr(withZero.Count, 1))
	assert.Equal(t, 1, numberOr(without.Count, 1))
}

func TestPlayerListMessageWireShape(t *testing.T) {
	msg := PlayerListMessage{
		Type: "updatePlayerList",
		Players: map[string]Participant{
			"c-1": {ID: "c-1", Login: "alice", Name: "Alice", Score: 2},
		},
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	// Logins are server-side only and must never reach the wire.
	assert.NotContains(t, string(data), "alice\"")
	assert.Contains(t, string(data), `"name":"Alice"`)
	assert.Contains(t, string(data), `"score":2`)
}
