package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatflow/internal/bus"
	"chatflow/internal/chat/service"
	"chatflow/internal/common"
	"chatflow/internal/registry"
)

// ReadModel is the slice of the conversation cache the hub needs: typing
// flags in, unread totals out.
type ReadModel interface {
	SetTyping(viewerID, partnerID string, isTyping bool)
	GetUnreadTotal(ctx context.Context, userID string) (int64, error)
}

// Hub bridges the event bus and live websocket connections. It owns the
// upgrade handshake, routes pipeline events out to registered channels and
// feeds inbound frames into the chat engine.
type Hub struct {
	registry  *registry.Registry
	engine    service.ChatService
	readModel ReadModel
	bus       *bus.Bus
	upgrader  websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(reg *registry.Registry, engine service.ChatService, readModel ReadModel, b *bus.Bus) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry:  reg,
		engine:    engine,
		readModel: readModel,
		bus:       b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run starts the bus consumer loop. Call once.
func (h *Hub) Run() {
	events, unsub := h.bus.Subscribe("", 256)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer unsub()
		for {
			select {
			case evt := <-events:
				h.dispatch(evt)
			case <-h.ctx.Done():
				return
			}
		}
	}()
	log.Println("✓ Live channel hub started")
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func (h *Hub) dispatch(evt bus.Event) {
	switch evt.Kind {
	case bus.KindMessageNew:
		if p, ok := evt.Payload.(bus.NewMessage); ok {
			h.deliverNewMessage(p)
		}
	case bus.KindMessageStatus:
		if p, ok := evt.Payload.(bus.StatusChange); ok {
			payload := StatusUpdatePayload{MessageID: p.MessageID, Status: p.Status}
			for _, userID := range p.Targets {
				h.sendToUser(userID, TypeStatusUpdate, payload)
			}
		}
	case bus.KindConversationUpdate:
		if p, ok := evt.Payload.(bus.ConversationUpdate); ok {
			h.sendToUser(p.UserID, TypeConversationUpdate, struct{}{})
		}
	case bus.KindUnreadUpdate:
		if p, ok := evt.Payload.(bus.UnreadUpdate); ok {
			total, err := h.readModel.GetUnreadTotal(h.ctx, p.UserID)
			if err != nil {
				log.Printf("ws: unread total for %s: %v", p.UserID, err)
				return
			}
			h.sendToUser(p.UserID, TypeUnreadCountUpdate, UnreadCountPayload{Total: total})
		}
	case bus.KindTyping:
		if p, ok := evt.Payload.(bus.Typing); ok {
			h.readModel.SetTyping(p.ToUserID, p.FromUserID, p.IsTyping)
			h.sendToUser(p.ToUserID, TypeTyping, TypingUpdatePayload{
				FromUserID: p.FromUserID,
				IsTyping:   p.IsTyping,
			})
		}
	}
}

// deliverNewMessage pushes a message to every live target and marks the
// message delivered once the recipient's connection accepts the frame.
func (h *Hub) deliverNewMessage(p bus.NewMessage) {
	msg := p.Message
	payload := messagePayload(msg)
	for _, userID := range p.Targets {
		if msg.HiddenForUser(userID) {
			continue
		}
		if !h.sendToUser(userID, TypeNewMessage, payload) {
			continue
		}
		if msg.RecipientID != nil && *msg.RecipientID == userID && msg.Status == common.StatusSent {
			if err := h.engine.MarkDelivered(h.ctx, msg.ID); err != nil {
				log.Printf("ws: mark delivered %s: %v", msg.ID, err)
			}
		}
	}
}

// sendToUser writes one frame to every open channel the user holds and
// reports whether at least one accepted it. Saturated channels just miss
// the frame.
func (h *Hub) sendToUser(userID, frameType string, payload any) bool {
	channels := h.registry.ActiveConnections(userID)
	if len(channels) == 0 {
		return false
	}

	env, err := NewEnvelope(frameType, payload)
	if err != nil {
		log.Printf("ws: marshal %s payload: %v", frameType, err)
		return false
	}
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("ws: marshal %s envelope: %v", frameType, err)
		return false
	}

	delivered := false
	for _, ch := range channels {
		if err := ch.Send(data); err != nil {
			log.Printf("ws: send %s to %s/%s: %v", frameType, userID, ch.ID(), err)
			continue
		}
		delivered = true
	}
	return delivered
}

// ServeWS upgrades the request, runs the AUTH handshake and hands the
// connection over to the pumps. Pending messages are replayed right after
// registration so a reconnecting client catches up before live traffic.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade failed: %v", err)
		return
	}

	userID, err := h.handshake(conn)
	if err != nil {
		h.rejectConn(conn, err)
		return
	}

	client := newClient(userID, conn, h)
	h.registry.Register(userID, client)
	go client.readPump()
	go client.writePump()
	log.Printf("✓ ws: user %s connected (channel %s)", userID, client.id)

	go h.replayPending(client)
}

// handshake reads the first frame, which must be AUTH with a valid token.
func (h *Hub) handshake(conn *websocket.Conn) (string, error) {
	conn.SetReadDeadline(time.Now().Add(authWait))
	defer conn.SetReadDeadline(time.Time{})

	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", &common.AuthorizationError{Actor: "unknown", Action: "authenticate"}
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type != TypeAuth {
		return "", &common.ValidationError{Field: "type", Reason: "first frame must be AUTH"}
	}
	var auth AuthPayload
	if err := json.Unmarshal(env.Payload, &auth); err != nil || auth.Token == "" {
		return "", &common.ValidationError{Field: "token", Reason: "missing token"}
	}

	claims, err := common.ValidToken(auth.Token)
	if err != nil {
		return "", &common.AuthorizationError{Actor: "unknown", Action: "authenticate"}
	}
	return claims.UserID, nil
}

func (h *Hub) rejectConn(conn *websocket.Conn, err error) {
	env, mErr := NewEnvelope(TypeError, ErrorPayload{Code: errorCode(err), Message: err.Error()})
	if mErr == nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		conn.WriteJSON(env)
	}
	conn.Close()
}

// replayPending flushes messages that arrived while the user was offline.
// DeliverPending marks them delivered and fans the receipts out itself; the
// hub only has to put the frames on this connection.
func (h *Hub) replayPending(c *Client) {
	ctx, cancel := context.WithTimeout(h.ctx, 30*time.Second)
	defer cancel()

	msgs, err := h.engine.DeliverPending(ctx, c.userID)
	if err != nil {
		log.Printf("ws: pending replay for %s: %v", c.userID, err)
		return
	}
	for _, msg := range msgs {
		env, err := NewEnvelope(TypeNewMessage, messagePayload(msg))
		if err != nil {
			continue
		}
		if err := c.Send(env); err != nil {
			log.Printf("ws: replay to %s: %v", c.userID, err)
			return
		}
	}
	if len(msgs) > 0 {
		log.Printf("✓ ws: replayed %d pending messages to %s", len(msgs), c.userID)
	}
}

func (h *Hub) disconnect(c *Client) {
	h.registry.Unregister(c.userID, c.id)
	c.Close()
	log.Printf("ws: user %s disconnected (channel %s)", c.userID, c.id)
}

// handleInbound routes one client frame. The connection is already
// authenticated; a second AUTH is an error.
func (h *Hub) handleInbound(c *Client, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.sendError(c, &common.ValidationError{Field: "frame", Reason: "malformed JSON"})
		return
	}

	switch env.Type {
	case TypeSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, &common.ValidationError{Field: "payload", Reason: "malformed SEND_MESSAGE"})
			return
		}
		msg, err := h.engine.SendMessage(h.ctx, service.SendRequest{
			SenderID:    c.userID,
			RecipientID: p.RecipientID,
			GroupID:     p.GroupID,
			Content:     p.Content,
			Type:        common.MessageType(p.Type),
			MediaRef:    p.MediaRef,
			ReplyToID:   p.ReplyToID,
			Mentions:    p.Mentions,
		})
		if err != nil {
			h.sendError(c, err)
			return
		}
		if env, err := NewEnvelope(TypeAck, AckPayload{MessageID: msg.ID}); err == nil {
			c.Send(env)
		}

	case TypeTyping:
		var p TypingPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.PeerID == "" {
			h.sendError(c, &common.ValidationError{Field: "payload", Reason: "malformed TYPING"})
			return
		}
		h.engine.Typing(c.userID, p.PeerID, p.IsTyping)

	case TypeAuth:
		h.sendError(c, &common.ConflictError{Reason: "already authenticated"})

	default:
		h.sendError(c, &common.ValidationError{Field: "type", Reason: "unknown frame type " + env.Type})
	}
}

func (h *Hub) sendError(c *Client, err error) {
	env, mErr := NewEnvelope(TypeError, ErrorPayload{Code: errorCode(err), Message: err.Error()})
	if mErr != nil {
		return
	}
	c.Send(env)
}

func errorCode(err error) string {
	switch {
	case common.IsValidation(err):
		return "VALIDATION_FAILED"
	case common.IsNotFound(err):
		return "NOT_FOUND"
	case common.IsAuthorization(err):
		return "FORBIDDEN"
	case common.IsConflict(err):
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}
