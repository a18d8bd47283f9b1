package main

import (
	"encoding/json"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
)

// Client represents a WebSocket connection. Its ID doubles as the player's
// connection identity for the lifetime of the socket.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	binary     atomic.Bool // opted in to msgpack state frames
}

// NewClient creates a new Client with a fresh connection id
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         uuid.NewString(),
		remoteAddr: remoteAddr,
	}
}

// WantsBinary reports whether state frames should be msgpack-encoded
func (c *Client) WantsBinary() bool {
	return c.binary.Load()
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgJoinGame:
		c.handleJoinGame(env.D)
	case MsgStartGame:
		c.hub.game.Start(c.id)
	case MsgPlayerMove:
		c.handlePlayerMove(env.D)
	case MsgPlayerAttack:
		c.handlePlayerAttack(env.D)
	case MsgUseItem:
		c.handleUseItem(env.D)
	case MsgEarlyMovement:
		c.hub.game.EarlyMove(c.id)
	case MsgBinaryState:
		c.binary.Store(true)
	}
}

func (c *Client) handleJoinGame(data json.RawMessage) {
	var msg JoinGameMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.game.Join(c.id, msg, c)
}

func (c *Client) handlePlayerMove(data json.RawMessage) {
	var msg PlayerMoveMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.game.Move(c.id, msg.X, msg.Y)
}

func (c *Client) handlePlayerAttack(data json.RawMessage) {
	var msg PlayerAttackMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.game.Attack(c.id, msg.TargetID)
}

func (c *Client) handleUseItem(data json.RawMessage) {
	var msg UseItemMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	c.hub.game.UseItem(c.id, msg.ItemID)
}
