package main

// Participant holds the data we store server-side for one connected player.
// The json tags are the wire shape of the roster broadcast, so the admin
// console and overlay can render names, pictures, scores and drawings from
// a single updatePlayerList event.
type Participant struct {
	ID           string `json:"id"`
	Login        string `json:"-"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage,omitempty"`
	StreamID     string `json:"streamId,omitempty"`
	Score        int    `json:"score"`
	Image        string `json:"image,omitempty"`
}

// Registry is the live roster, keyed by connection ID. It holds no locks and
// knows nothing about broadcasting; the hub serializes access to it and emits
// roster updates after each mutation.
type Registry struct {
	participants map[string]*Participant
}

func newRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
	}
}

// Upsert inserts or fully replaces the record for connID. A repeat join from
// the same connection overwrites every field, including the score.
func (reg *Registry) Upsert(connID string, p Participant) {
	if connID == "" {
		return
	}

	p.ID = connID
	reg.participants[connID] = &p
}

// Remove deletes the record for connID if present.
func (reg *Registry) Remove(connID string) {
	delete(reg.participants, connID)
}

// Get returns a copy of the record for connID.
func (reg *Registry) Get(connID string) (Participant, bool) {
	p, ok := reg.participants[connID]
	if !ok {
		return Participant{}, false
	}
	return *p, true
}

// All returns a snapshot of the roster keyed by connection ID.
func (reg *Registry) All() map[string]Participant {
	all := make(map[string]Participant, len(reg.participants))
	for id, p := range reg.participants {
		all[id] = *p
	}
	return all
}

// IDs returns the connection IDs of every current participant.
func (reg *Registry) IDs() []string {
	ids := make([]string, 0, len(reg.participants))
	for id := range reg.participants {
		ids = append(ids, id)
	}
	return ids
}

func (reg *Registry) Len() int {
	return len(reg.participants)
}

// FindByLogin returns the connection ID of the participant with the given
// login, if any. Used to migrate a player's entry across a reconnect.
func (reg *Registry) FindByLogin(login string) (string, bool) {
	if login == "" {
		return "", false
	}
	for id, p := range reg.participants {
		if p.Login == login {
			return id, true
		}
	}
	return "", false
}

// AdjustScore adds delta to the participant's score. Unknown IDs are ignored;
// scores may go negative.
func (reg *Registry) AdjustScore(connID string, delta int) {
	if p, ok := reg.participants[connID]; ok {
		p.Score += delta
	}
}

// SetArtifact stores the participant's submitted drawing, replacing any prior
// one. Unknown IDs are ignored.
func (reg *Registry) SetArtifact(connID, payload string) {
	if p, ok := reg.participants[connID]; ok {
		p.Image = payload
	}
}

// ClearArtifacts wipes every participant's drawing at the start of a round.
func (reg *Registry) ClearArtifacts() {
	for _, p := range reg.participants {
		p.Image = ""
	}
}
