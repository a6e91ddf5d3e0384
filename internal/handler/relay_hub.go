package handler

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"tabletop-backend/internal/config"
	"tabletop-backend/internal/protocol"
)

// ErrRoomNotFound is returned by JoinRoom for an unknown room id.
var ErrRoomNotFound = errors.New("room not found")

// wsConn is the slice of the websocket connection the relay writes to.
// Unit tests substitute an in-process fake.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

const textMessage = 1

// RelayClient is one participant connection. The id is server-generated
// at connect time; the display name is whatever the client chose.
type RelayClient struct {
	ID      string
	Name    string
	conn    wsConn
	writeMu sync.Mutex
	roomID  string
}

// NewRelayClient wraps an accepted connection.
func NewRelayClient(conn wsConn) *RelayClient {
	return &RelayClient{ID: uuid.NewString(), conn: conn}
}

// send frames and writes one message. Write failures are logged and
// otherwise ignored; the read loop notices the dead connection.
func (c *RelayClient) send(t protocol.MsgType, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("[Relay] Failed to encode %s for %s: %v", t, c.ID, err)
		return
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(textMessage, data); err != nil {
		log.Printf("[Relay] Failed to send %s to %s: %v", t, c.ID, err)
	}
}

// RelayRoom groups the connections sharing one surface. Exactly one
// player is host; the host's snapshot is the authoritative state.
type RelayRoom struct {
	ID        string
	hostID    string
	players   map[string]*RelayClient
	joinOrder []string
	snapshot  json.RawMessage // latest authoritative state, may be nil
	chat      []protocol.ChatBroadcast
	mu        sync.RWMutex
}

// RelayHub owns every room. One instance is constructed at process
// start; its methods are the only mutation surface for room state.
type RelayHub struct {
	rooms map[string]*RelayRoom
	mu    sync.RWMutex
	cfg   *config.Config
}

// NewRelayHub creates the hub.
func NewRelayHub(cfg *config.Config) *RelayHub {
	return &RelayHub{
		rooms: make(map[string]*RelayRoom),
		cfg:   cfg,
	}
}

// CreateRoom allocates (or reuses) a room and assigns the requester as
// its host.
func (h *RelayHub) CreateRoom(c *RelayClient, req *protocol.CreateRoom) {
	roomID := req.RoomID
	if roomID == "" {
		roomID = uuid.NewString()[:8]
	}

	h.mu.Lock()
	room, exists := h.rooms[roomID]
	if !exists {
		room = &RelayRoom{
			ID:      roomID,
			players: make(map[string]*RelayClient),
		}
		h.rooms[roomID] = room
	}
	h.mu.Unlock()

	c.Name = req.PlayerName

	room.mu.Lock()
	room.hostID = c.ID
	room.players[c.ID] = c
	room.joinOrder = append(room.joinOrder, c.ID)
	room.mu.Unlock()
	c.roomID = roomID

	log.Printf("[Relay] Room %s created, host=%s (%s)", roomID, c.ID, c.Name)

	c.send(protocol.MsgRoomCreated, protocol.RoomCreated{
		RoomID:   roomID,
		PlayerID: c.ID,
		IsHost:   true,
	})
	room.broadcastRoster()
}

// JoinRoom registers the requester as a guest. The joiner receives the
// latest authoritative snapshot (possibly null), the host is told about
// the new player, and the roster goes to the whole room.
func (h *RelayHub) JoinRoom(c *RelayClient, req *protocol.JoinRoom) error {
	h.mu.RLock()
	room, ok := h.rooms[req.RoomID]
	h.mu.RUnlock()
	if !ok {
		c.send(protocol.MsgError, protocol.Error{Error: "Room not found"})
		return ErrRoomNotFound
	}

	c.Name = req.PlayerName

	room.mu.Lock()
	room.players[c.ID] = c
	room.joinOrder = append(room.joinOrder, c.ID)
	hostID := room.hostID
	host := room.players[hostID]
	snapshot := room.snapshot
	history := append([]protocol.ChatBroadcast(nil), room.chat...)
	room.mu.Unlock()
	c.roomID = room.ID

	log.Printf("[Relay] %s (%s) joined room %s, total=%d", c.ID, c.Name, room.ID, room.playerCount())

	c.send(protocol.MsgRoomJoined, protocol.RoomJoined{
		RoomID:    room.ID,
		PlayerID:  c.ID,
		IsHost:    false,
		HostID:    hostID,
		GameState: snapshot,
	})
	if host != nil {
		host.send(protocol.MsgPlayerJoined, protocol.PlayerJoined{
			PlayerID:   c.ID,
			PlayerName: c.Name,
		})
	}
	// Recent chat so late joiners have context.
	for _, line := range history {
		c.send(protocol.MsgChatMessage, line)
	}
	room.broadcastRoster()
	return nil
}

// PublishSnapshot accepts a new authoritative snapshot from the room's
// host and rebroadcasts it verbatim to every other connection. A
// non-host sender is silently ignored.
func (h *RelayHub) PublishSnapshot(c *RelayClient, req *protocol.GameStateUpdate) {
	room := h.roomOf(c)
	if room == nil {
		return
	}

	room.mu.Lock()
	if room.hostID != c.ID {
		room.mu.Unlock()
		return
	}
	room.snapshot = req.State
	room.mu.Unlock()

	room.broadcastExcept(c.ID, protocol.MsgSyncState, protocol.SyncState{State: req.State})
}

// SubmitAction forwards a guest's action request to the current host,
// tagged with the sender's connection id. Actions from the host itself
// are silently ignored.
func (h *RelayHub) SubmitAction(c *RelayClient, req *protocol.GameAction) {
	room := h.roomOf(c)
	if room == nil {
		return
	}

	room.mu.RLock()
	host := room.players[room.hostID]
	isHost := room.hostID == c.ID
	room.mu.RUnlock()

	if isHost || host == nil {
		return
	}
	host.send(protocol.MsgPlayerAction, protocol.PlayerAction{
		Action:   req.Action,
		SenderID: c.ID,
	})
}

// Chat broadcasts a line to the whole room, sender included.
func (h *RelayHub) Chat(c *RelayClient, req *protocol.ChatSend) {
	room := h.roomOf(c)
	if room == nil || req.Message == "" {
		return
	}

	line := protocol.ChatBroadcast{
		SenderID:   c.ID,
		SenderName: c.Name,
		Message:    req.Message,
		Timestamp:  time.Now().UnixMilli(),
	}

	room.mu.Lock()
	room.chat = append(room.chat, line)
	if max := h.cfg.Room.ChatHistorySize; max > 0 && len(room.chat) > max {
		room.chat = room.chat[len(room.chat)-max:]
	}
	room.mu.Unlock()

	room.broadcastExcept("", protocol.MsgChatMessage, line)
}

// Disconnect removes the connection from its room. Host departure
// promotes the first remaining connection in join order; an empty room
// is destroyed. Unexpected disconnects land here exactly like graceful
// leaves.
func (h *RelayHub) Disconnect(c *RelayClient) {
	room := h.roomOf(c)
	if room == nil {
		return
	}

	room.mu.Lock()
	delete(room.players, c.ID)
	order := room.joinOrder[:0]
	for _, id := range room.joinOrder {
		if id != c.ID {
			order = append(order, id)
		}
	}
	room.joinOrder = order

	wasHost := room.hostID == c.ID
	var promoted *RelayClient
	if wasHost {
		room.hostID = ""
		if len(room.joinOrder) > 0 {
			room.hostID = room.joinOrder[0]
			promoted = room.players[room.hostID]
		}
	}
	empty := len(room.players) == 0
	room.mu.Unlock()

	log.Printf("[Relay] %s left room %s (host=%v, remaining=%d)", c.ID, room.ID, wasHost, room.playerCount())

	if empty {
		h.mu.Lock()
		delete(h.rooms, room.ID)
		h.mu.Unlock()
		log.Printf("[Relay] Room %s destroyed", room.ID)
		return
	}

	room.broadcastExcept("", protocol.MsgPlayerLeft, protocol.PlayerLeft{PlayerID: c.ID})
	if promoted != nil {
		promoted.send(protocol.MsgBecameHost, protocol.BecameHost{})
		log.Printf("[Relay] Room %s promoted %s to host", room.ID, promoted.ID)
	}
	room.broadcastRoster()
}

// RoomCount reports the number of live rooms, for health reporting.
func (h *RelayHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *RelayHub) roomOf(c *RelayClient) *RelayRoom {
	if c.roomID == "" {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[c.roomID]
}

// =============================================================================
// Room helpers
// =============================================================================

func (r *RelayRoom) playerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// broadcastExcept sends to everyone in the room, skipping the given
// connection id (pass "" to reach all).
func (r *RelayRoom) broadcastExcept(exceptID string, t protocol.MsgType, payload any) {
	r.mu.RLock()
	targets := make([]*RelayClient, 0, len(r.players))
	for id, p := range r.players {
		if id != exceptID {
			targets = append(targets, p)
		}
	}
	r.mu.RUnlock()

	for _, p := range targets {
		p.send(t, payload)
	}
}

// broadcastRoster sends the full player list to the room.
func (r *RelayRoom) broadcastRoster() {
	r.mu.RLock()
	list := protocol.PlayerList{Players: make([]protocol.PlayerInfo, 0, len(r.players))}
	for _, id := range r.joinOrder {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		list.Players = append(list.Players, protocol.PlayerInfo{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.ID == r.hostID,
		})
	}
	r.mu.RUnlock()

	r.broadcastExcept("", protocol.MsgPlayerList, list)
}
