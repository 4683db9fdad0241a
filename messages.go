package main

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Messages coming from clients
type ClientMessage struct {
	Type         string          `json:"type"`                   // see readPump for the full list
	Name         string          `json:"name,omitempty"`         // join / whitelist commands
	ProfileImage string          `json:"profileImage,omitempty"` // join
	StreamID     string          `json:"streamId,omitempty"`     // join
	Inno         string          `json:"inno,omitempty"`         // startRound: task for the innocents
	Out          string          `json:"out,omitempty"`          // startRound: task for the imposters
	Count        json.RawMessage `json:"count,omitempty"`        // startRound: imposter count, absent means 1
	Image        string          `json:"image,omitempty"`        // submitDrawing
	ID           string          `json:"id,omitempty"`           // givePoints / revealOne / setHostId
	PlayerID     string          `json:"playerId,omitempty"`     // adminAnswer
	Amount       json.RawMessage `json:"amount,omitempty"`       // givePoints
	Text         string          `json:"text,omitempty"`         // playerQuestion / adminAnswer
}

// PlayerListMessage is the full roster snapshot, sent to everyone after every
// roster mutation.
type PlayerListMessage struct {
	Type    string                 `json:"type"` // "updatePlayerList"
	Players map[string]Participant `json:"players"`
}

// TaskMessage carries one participant's task for the round. It is only ever
// sent to that participant.
type TaskMessage struct {
	Type string `json:"type"` // "newTask"
	Task string `json:"task"`
}

// RoundInfoMessage is the round summary: both tasks plus the imposter set.
// Depending on configuration it goes to the admin console only, or to all.
type RoundInfoMessage struct {
	Type         string   `json:"type"` // "roundInfoUpdate"
	QuestionInno string   `json:"questionInno"`
	QuestionOut  string   `json:"questionOut"`
	ImposterIDs  []string `json:"imposterIds"`
}

// RolesMessage publishes the imposter set after the reveal.
type RolesMessage struct {
	Type        string   `json:"type"` // "showRoles"
	ImposterIDs []string `json:"imposterIds"`
}

// QuestionMessage publishes the innocent task on the shared overlay.
type QuestionMessage struct {
	Type     string `json:"type"` // "showQuestion"
	Question string `json:"question"`
}

// AnswerMessage publishes a single participant's drawing.
type AnswerMessage struct {
	Type  string `json:"type"` // "showOneAnswer"
	ID    string `json:"id"`
	Image string `json:"image"`
}

// HostMessage announces which participant's stream is featured.
type HostMessage struct {
	Type string `json:"type"` // "updateHost"
	ID   string `json:"id"`
}

// WhitelistMessage carries the current access list to the admin console.
type WhitelistMessage struct {
	Type  string   `json:"type"` // "updateWhitelist"
	Names []string `json:"names"`
}

// IncomingQuestionMessage relays a player's question to the admin console.
type IncomingQuestionMessage struct {
	Type string `json:"type"` // "incomingQuestion"
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// HostReplyMessage carries the admin's answer back to a single player.
type HostReplyMessage struct {
	Type string `json:"type"` // "hostReply"
	Text string `json:"text"`
}

// SimpleMessage is for bare signals ("resetOverlay", "timerStart", "timerStop").
type SimpleMessage struct {
	Type string `json:"type"`
}

// numberOr decodes a lenient integer from raw JSON: plain numbers, quoted
// numbers, and floats (truncated) all count; anything else, including an
// absent field, yields def. Keeping the raw bytes around is what lets the
// round start distinguish an explicit 0 from no value at all.
func numberOr(raw json.RawMessage, def int) int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return def
	}
	s = strings.Trim(s, `"`)

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
