package main

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
)

// clientHandlers routes incoming message types to their handlers.
// Unknown types fall through and are dropped.
var clientHandlers = map[string]func(*Client, json.RawMessage){
	MsgJoinLobby:  (*Client).handleJoinLobby,
	MsgLeaveLobby: (*Client).handleLeaveLobby,
	MsgInput:      (*Client).handleInput,
	MsgAction:     (*Client).handleAction,
	MsgRegister:   (*Client).handleRegister,
	MsgLogin:      (*Client).handleLogin,
	MsgAuth:       (*Client).handleAuth,
	MsgProfile:    (*Client).handleProfile,
}

// Client represents one WebSocket connection. Its peer ID is the
// identity the router and matches track; account state layers on top
// after authentication.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	peerID     string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time

	accountID   int64  // 0 = guest
	accountName string // "" = guest
}

func NewClient(hub *Hub, conn *websocket.Conn, peerID, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		peerID:     peerID,
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection until it drops.
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
				c.hub.log.Debug().Err(err).Str("peer", c.peerID).Msg("ws read error")
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.log.Warn().Str("addr", c.remoteAddr).Msg("rate limit exceeded, disconnecting")
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes queued messages and periodic pings.
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
			// 0xFF prefix marks binary frames (snapshots)
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

// SendJSON marshals and queues a text message for the client.
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Error().Err(err).Msg("marshal error")
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes as a text message. A full buffer
// drops the message rather than blocking the server loop.
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}

// SendBinary queues bytes as a binary WebSocket message, prefixed with
// the 0xFF marker WritePump strips.
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

// handleMessage decodes the envelope once and dispatches on its type.
// Malformed or unknown messages are dropped without a reply.
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}
	if handler, ok := clientHandlers[env.T]; ok {
		handler(c, env.D)
	}
}

func sanitizeName(name string) string {
	if name == "" {
		return ""
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}
	return name
}

// handleJoinLobby enters the matchmaking pool. Only valid while the
// peer is routed to the lobby; peers mid-match are ignored.
func (c *Client) handleJoinLobby(data json.RawMessage) {
	if c.hub.router.Route(c.peerID).Kind != RouteLobby {
		return
	}
	var msg JoinLobbyMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	name := sanitizeName(msg.Name)
	if name == "" {
		name = c.accountName
	}
	if name == "" {
		name = GenerateGuestName()
	}
	c.hub.lobby.Join(c.peerID, name)
}

func (c *Client) handleLeaveLobby(json.RawMessage) {
	if c.hub.router.Route(c.peerID).Kind != RouteLobby {
		return
	}
	c.hub.lobby.Leave(c.peerID)
}

// handleInput forwards movement intent to the peer's match. Inputs from
// peers not in a match are dropped.
func (c *Client) handleInput(data json.RawMessage) {
	route := c.hub.router.Route(c.peerID)
	if route.Kind != RouteMatch {
		return
	}
	var input PlayerInput
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	if m, ok := c.hub.loop.Match(route.MatchID); ok {
		m.QueueInput(c.peerID, input)
	}
}

func (c *Client) handleAction(data json.RawMessage) {
	route := c.hub.router.Route(c.peerID)
	if route.Kind != RouteMatch {
		return
	}
	var action PlayerAction
	if err := json.Unmarshal(data, &action); err != nil {
		return
	}
	if m, ok := c.hub.loop.Match(route.MatchID); ok {
		m.QueueAction(c.peerID, action)
	}
}

func (c *Client) handleRegister(data json.RawMessage) {
	if c.hub.auth == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "accounts are disabled on this server"}})
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	c.setAccount(id, msg.Username)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "accounts are disabled on this server"}})
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
		return
	}
	if c.hub.IsOnline(id) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "account already online"}})
		return
	}
	c.setAccount(id, msg.Username)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    token,
		Username: msg.Username,
		PlayerID: id,
	}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "accounts are disabled on this server"}})
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "invalid token"}})
		return
	}
	if c.hub.IsOnline(id) {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "account already online"}})
		return
	}
	c.setAccount(id, username)
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PlayerID: id,
	}})
}

func (c *Client) setAccount(id int64, username string) {
	c.accountID = id
	c.accountName = username
	c.hub.SetOnline(id, c.peerID)
}

func (c *Client) handleProfile(json.RawMessage) {
	if c.hub.db == nil || c.accountID == 0 {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "not authenticated"}})
		return
	}
	stats, err := c.hub.db.Stats(c.accountID)
	if err != nil || stats == nil {
		c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: "profile not found"}})
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username: c.accountName,
		Kills:    stats.Kills,
		Deaths:   stats.Deaths,
		Wins:     stats.Wins,
		Matches:  stats.Matches,
		Gold:     stats.GoldEarned,
	}})
}
