// Package protocol defines the relay wire messages as a closed tagged
// union. Anything that fails to parse into a known kind is dropped by
// the relay instead of being trusted at runtime.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MsgType discriminates the wire message kinds.
type MsgType string

// Client → server kinds.
const (
	MsgCreateRoom      MsgType = "CREATE_ROOM"
	MsgJoinRoom        MsgType = "JOIN_ROOM"
	MsgGameStateUpdate MsgType = "GAME_STATE_UPDATE" // host only
	MsgGameAction      MsgType = "GAME_ACTION"       // guest only
	MsgChatMessage     MsgType = "CHAT_MESSAGE"      // any role, both directions
)

// Server → client kinds.
const (
	MsgRoomCreated  MsgType = "ROOM_CREATED"
	MsgRoomJoined   MsgType = "ROOM_JOINED"
	MsgError        MsgType = "ERROR"
	MsgSyncState    MsgType = "SYNC_STATE"
	MsgPlayerAction MsgType = "PLAYER_ACTION"
	MsgPlayerJoined MsgType = "PLAYER_JOINED"
	MsgPlayerList   MsgType = "PLAYER_LIST"
	MsgPlayerLeft   MsgType = "PLAYER_LEFT"
	MsgBecameHost   MsgType = "BECAME_HOST"
)

// Envelope is the outer frame of every wire message.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// CreateRoom requests a room; the requester becomes host. RoomID is
// optional, the relay allocates one when absent.
type CreateRoom struct {
	RoomID     string `json:"roomId,omitempty"`
	PlayerName string `json:"playerName"`
}

// JoinRoom registers the requester as a guest of an existing room.
type JoinRoom struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// GameStateUpdate carries the host's authoritative snapshot, opaque to
// the relay.
type GameStateUpdate struct {
	State json.RawMessage `json:"state"`
}

// GameAction carries a guest's action request, opaque to the relay.
type GameAction struct {
	Action json.RawMessage `json:"action"`
}

// ChatSend is the client-side chat payload.
type ChatSend struct {
	Message string `json:"message"`
}

// RoomCreated confirms room creation to the new host.
type RoomCreated struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	IsHost   bool   `json:"isHost"`
}

// RoomJoined confirms a join. GameState is the latest authoritative
// snapshot and may be null when the host has not published one yet.
type RoomJoined struct {
	RoomID    string          `json:"roomId"`
	PlayerID  string          `json:"playerId"`
	IsHost    bool            `json:"isHost"`
	HostID    string          `json:"hostId"`
	GameState json.RawMessage `json:"gameState,omitempty"`
}

// Error is an explicit failure reply (unknown room, for instance).
type Error struct {
	Error string `json:"error"`
}

// SyncState delivers the authoritative snapshot to guests.
type SyncState struct {
	State json.RawMessage `json:"state"`
}

// PlayerAction forwards a guest action to the host, tagged with the
// sender's connection id.
type PlayerAction struct {
	Action   json.RawMessage `json:"action"`
	SenderID string          `json:"senderId"`
}

// ChatBroadcast fans a chat line out to the whole room.
type ChatBroadcast struct {
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// PlayerJoined notifies the host of a new guest.
type PlayerJoined struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// PlayerInfo is one roster entry.
type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

// PlayerList is the full room roster.
type PlayerList struct {
	Players []PlayerInfo `json:"players"`
}

// PlayerLeft announces a departure to the room.
type PlayerLeft struct {
	PlayerID string `json:"playerId"`
}

// BecameHost informs the promoted connection after host failover.
type BecameHost struct{}

// Encode frames a payload into an envelope's raw bytes.
func Encode(t MsgType, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}

// DecodeClient parses an inbound client frame into its typed payload.
// Unknown kinds and malformed payloads return an error; the relay logs
// and drops them without closing the connection.
func DecodeClient(data []byte) (MsgType, any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("malformed envelope: %w", err)
	}

	var payload any
	switch env.Type {
	case MsgCreateRoom:
		payload = &CreateRoom{}
	case MsgJoinRoom:
		payload = &JoinRoom{}
	case MsgGameStateUpdate:
		payload = &GameStateUpdate{}
	case MsgGameAction:
		payload = &GameAction{}
	case MsgChatMessage:
		payload = &ChatSend{}
	default:
		return env.Type, nil, fmt.Errorf("unknown message type %q", env.Type)
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return env.Type, nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
	}
	return env.Type, payload, nil
}
