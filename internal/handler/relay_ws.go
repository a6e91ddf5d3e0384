package handler

import (
	"log"

	"github.com/gofiber/contrib/websocket"

	"tabletop-backend/internal/protocol"
)

// RelayWSHandler binds websocket connections to the relay hub.
type RelayWSHandler struct {
	hub *RelayHub
}

// NewRelayWSHandler creates the handler.
func NewRelayWSHandler(hub *RelayHub) *RelayWSHandler {
	return &RelayWSHandler{hub: hub}
}

// HandleWebSocket runs one connection's read loop. Malformed frames are
// logged and dropped without closing the connection; role-mismatched
// messages are ignored inside the hub.
func (h *RelayWSHandler) HandleWebSocket(c *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Relay] WebSocket panic recovered: %v", r)
		}
	}()

	client := NewRelayClient(c)
	log.Printf("[Relay] Connection opened: %s", client.ID)

	defer func() {
		h.hub.Disconnect(client)
		c.Close()
		log.Printf("[Relay] Connection closed: %s", client.ID)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			break
		}
		h.dispatch(client, data)
	}
}

func (h *RelayWSHandler) dispatch(client *RelayClient, data []byte) {
	t, payload, err := protocol.DecodeClient(data)
	if err != nil {
		log.Printf("[Relay] Dropping frame from %s: %v", client.ID, err)
		return
	}

	switch t {
	case protocol.MsgCreateRoom:
		h.hub.CreateRoom(client, payload.(*protocol.CreateRoom))
	case protocol.MsgJoinRoom:
		if err := h.hub.JoinRoom(client, payload.(*protocol.JoinRoom)); err != nil {
			log.Printf("[Relay] Join failed for %s: %v", client.ID, err)
		}
	case protocol.MsgGameStateUpdate:
		h.hub.PublishSnapshot(client, payload.(*protocol.GameStateUpdate))
	case protocol.MsgGameAction:
		h.hub.SubmitAction(client, payload.(*protocol.GameAction))
	case protocol.MsgChatMessage:
		h.hub.Chat(client, payload.(*protocol.ChatSend))
	}
}
