// LDMN Imposter Drawing Game
//
// A moderated live-show game: every connected player gets a drawing task at
// the start of a round, except for a secret subset of "imposters" who get a
// different one. Players draw, submit, and the audience tries to spot the
// imposters before the reveal.
//
// Features:
// - One shared session per server, driven over a single /ws endpoint
// - Players, the admin console, and a public overlay all speak the same protocol
// - Admin picks both tasks and the imposter count per round
// - Task delivery is per-player; nobody can observe another player's task
// - Drawings are collected into the roster and revealed one at a time
// - Points are granted (or taken) by the admin; scores may go negative
// - Timer start/stop are pure broadcast signals; clients own the countdown
// - A dropped connection is only removed after a grace period, so a brief
//   network blip does not erase a player's score

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

type Client struct {
	conn   *websocket.Conn
	send   chan any
	connID string

	// Identity, resolved once at connect time from the session cookie.
	// Anonymous connections (the overlay) have an empty login.
	login        string
	displayName  string
	profileImage string
	isAdmin      bool
}

type joinRequest struct {
	client *Client
	msg    ClientMessage
}

type playerIntent struct {
	client *Client
	msg    ClientMessage
}

type adminCommand struct {
	client *Client
	msg    ClientMessage
}

// Hub owns the session: the roster, the current round, the featured stream,
// and every connected endpoint. All mutations happen under h.mu, fed by the
// run loop or by the delayed-removal goroutines.
type Hub struct {
	clients  map[*Client]bool
	registry *Registry
	round    *round
	hostID   string

	gate *AccessGate

	register chan *Client
	unreg    chan *Client
	joins    chan joinRequest
	plays    chan playerIntent
	admins   chan adminCommand

	mu sync.RWMutex
}

func newHub(gate *AccessGate) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		registry: newRegistry(),
		gate:     gate,
		register: make(chan *Client),
		unreg:    make(chan *Client),
		joins:    make(chan joinRequest),
		plays:    make(chan playerIntent),
		admins:   make(chan adminCommand),
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true

			// Bring the new endpoint up to date.
			c.send <- PlayerListMessage{
				Type:    "updatePlayerList",
				Players: h.registry.All(),
			}
			if h.hostID != "" {
				c.send <- HostMessage{
					Type: "updateHost",
					ID:   h.hostID,
				}
			}
			if c.isAdmin {
				c.send <- WhitelistMessage{
					Type:  "updateWhitelist",
					Names: h.gate.Names(),
				}
			}

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

			go h.scheduleRemoval(cfg, c.connID, c.login, cfg.gracePeriod)

		case jr := <-h.joins:
			h.handleJoin(cfg, jr)

		case pi := <-h.plays:
			h.handlePlayerIntent(pi)

		case cmd := <-h.admins:
			h.handleAdminCommand(cfg, cmd)
		}
	}
}

// sendToOneLocked delivers msg to the endpoint with the given connection ID,
// if it is still connected; otherwise the message is silently dropped. The
// participant may well have left between decision and send.
func (h *Hub) sendToOneLocked(connID string, msg any) {
	for client := range h.clients {
		if client.connID != connID {
			continue
		}
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
		return
	}
}

// sendToAllLocked delivers msg to every connected endpoint, at most once each.
// A client whose send buffer is full is dropped rather than blocked on.
func (h *Hub) sendToAllLocked(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) sendToAdminsLocked(msg any) {
	for client := range h.clients {
		if !client.isAdmin {
			continue
		}
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) broadcastPlayerListLocked() {
	h.sendToAllLocked(PlayerListMessage{
		Type:    "updatePlayerList",
		Players: h.registry.All(),
	})
}

// scheduleRemoval waits for d, and if no client with this login has
// reconnected in the meantime, removes the participant's entry and broadcasts
// the updated roster. A reconnect's join migrates the entry to the new
// connection ID first, so the removal then has nothing left to do.
func (h *Hub) scheduleRemoval(cfg *Config, connID, login string, d time.Duration) {
	time.Sleep(d)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.connID == connID {
			return
		}
		if login != "" && client.login == login {
			return
		}
	}

	if _, ok := h.registry.Get(connID); !ok {
		return
	}

	h.registry.Remove(connID)
	logf(cfg, "GAME: Removed %q after grace period", login)

	h.broadcastPlayerListLocked()
}

// handleJoin processes "join" intents. The access gate was consulted when the
// player page was served, but the socket is the real boundary, so it is
// checked again here.
func (h *Hub) handleJoin(cfg *Config, jr joinRequest) {
	c := jr.client
	msg := jr.msg

	// The identity provider's profile fills in anything the join omits.
	name := msg.Name
	if name == "" {
		name = c.displayName
	}
	image := msg.ProfileImage
	if image == "" {
		image = c.profileImage
	}

	if c.connID == "" || name == "" {
		return
	}
	if !h.gate.IsAllowed(c.login) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// A join under a fresh connection ID from a login we already know is a
	// reconnect: carry the score over and drop the stale entry.
	score := 0
	if oldID, ok := h.registry.FindByLogin(c.login); ok && oldID != c.connID {
		if old, ok := h.registry.Get(oldID); ok {
			score = old.Score
		}
		h.registry.Remove(oldID)
	}

	h.registry.Upsert(c.connID, Participant{
		Login:        c.login,
		Name:         name,
		ProfileImage: image,
		StreamID:     msg.StreamID,
		Score:        score,
	})
	logf(cfg, "GAME: Player %q joined", name)

	h.broadcastPlayerListLocked()
}

// handlePlayerIntent processes intents any joined player may issue.
func (h *Hub) handlePlayerIntent(pi playerIntent) {
	c := pi.client
	msg := pi.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.Type {
	case "submitDrawing":
		if _, ok := h.registry.Get(c.connID); !ok {
			return
		}
		h.registry.SetArtifact(c.connID, msg.Image)
		h.broadcastPlayerListLocked()

	case "playerQuestion":
		name := "unknown"
		if p, ok := h.registry.Get(c.connID); ok {
			name = p.Name
		}
		h.sendToAdminsLocked(IncomingQuestionMessage{
			Type: "incomingQuestion",
			ID:   c.connID,
			Name: name,
			Text: msg.Text,
		})
	}
}

// handleAdminCommand processes moderator commands: round control, reveals,
// points, timers, the featured stream, and access-list management.
func (h *Hub) handleAdminCommand(cfg *Config, cmd adminCommand) {
	c := cmd.client
	msg := cmd.msg

	if !c.isAdmin {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	switch msg.Type {
	case "startRound":
		// An absent count means the traditional single imposter; an explicit
		// zero means none this round.
		count := numberOr(msg.Count, 1)
		h.round = startRound(msg.Inno, msg.Out, count, h.registry.IDs())
		h.registry.ClearArtifacts()

		h.sendToAllLocked(SimpleMessage{Type: "resetOverlay"})
		h.broadcastPlayerListLocked()

		// Task delivery is strictly per-player.
		for id := range h.registry.All() {
			h.sendToOneLocked(id, TaskMessage{
				Type: "newTask",
				Task: h.round.TaskFor(id),
			})
		}

		info := RoundInfoMessage{
			Type:         "roundInfoUpdate",
			QuestionInno: msg.Inno,
			QuestionOut:  msg.Out,
			ImposterIDs:  h.round.ImposterIDs(),
		}
		if cfg.summaryVisibility == summaryBroadcast {
			h.sendToAllLocked(info)
		} else {
			h.sendToAdminsLocked(info)
		}

		logf(cfg, "GAME: Round started with %d imposter(s) among %d player(s)",
			len(info.ImposterIDs), h.registry.Len())

	case "revealRoles":
		if h.round == nil {
			return
		}
		h.sendToAllLocked(RolesMessage{
			Type:        "showRoles",
			ImposterIDs: h.round.RevealRoles(),
		})

	case "revealQuestion":
		if h.round == nil {
			return
		}
		h.sendToAllLocked(QuestionMessage{
			Type:     "showQuestion",
			Question: h.round.RevealTask(),
		})

	case "revealOne":
		p, ok := h.registry.Get(msg.ID)
		if !ok || p.Image == "" {
			return
		}
		h.sendToAllLocked(AnswerMessage{
			Type:  "showOneAnswer",
			ID:    p.ID,
			Image: p.Image,
		})

	case "givePoints":
		h.registry.AdjustScore(msg.ID, numberOr(msg.Amount, 0))
		h.broadcastPlayerListLocked()

	case "startTimer":
		h.sendToAllLocked(SimpleMessage{Type: "timerStart"})

	case "stopTimer":
		h.sendToAllLocked(SimpleMessage{Type: "timerStop"})

	case "setHostId":
		h.hostID = msg.ID
		h.sendToAllLocked(HostMessage{
			Type: "updateHost",
			ID:   msg.ID,
		})

	case "adminAnswer":
		h.sendToOneLocked(msg.PlayerID, HostReplyMessage{
			Type: "hostReply",
			Text: msg.Text,
		})

	case "addWhitelist":
		h.gate.Add(msg.Name)
		h.sendToAdminsLocked(WhitelistMessage{
			Type:  "updateWhitelist",
			Names: h.gate.Names(),
		})

	case "removeWhitelist":
		h.gate.Remove(msg.Name)
		h.sendToAdminsLocked(WhitelistMessage{
			Type:  "updateWhitelist",
			Names: h.gate.Names(),
		})

	case "requestWhitelist":
		h.sendToOneLocked(c.connID, WhitelistMessage{
			Type:  "updateWhitelist",
			Names: h.gate.Names(),
		})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unreg <- c
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "join":
			h.joins <- joinRequest{
				client: c,
				msg:    msg,
			}
		case "submitDrawing", "playerQuestion":
			h.plays <- playerIntent{
				client: c,
				msg:    msg,
			}
		case "startRound", "revealRoles", "revealQuestion", "revealOne",
			"givePoints", "startTimer", "stopTimer", "setHostId",
			"adminAnswer", "addWhitelist", "removeWhitelist", "requestWhitelist":
			h.admins <- adminCommand{
				client: c,
				msg:    msg,
			}
		default:
			// ignore unknown types
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// serveWS upgrades the connection and admits it to the hub. Identity comes
// from the session cookie when present; the overlay connects anonymously and
// only ever listens.
func serveWS(cfg *Config, h *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ident, _ := identityFromRequest(cfg, r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SERVE: Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:         conn,
			send:         make(chan any, 16),
			connID:       uuid.NewString(),
			login:        ident.Login,
			displayName:  ident.DisplayName,
			profileImage: ident.ProfileImage,
			isAdmin:      h.gate.IsAdministrator(ident.Login),
		}

		h.register <- client

		go client.writePump()
		client.readPump(h)
	}
}
