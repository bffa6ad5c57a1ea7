package ws

import (
	"encoding/json"
	"time"

	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

// Envelope is the single frame type exchanged over the live channel. The
// payload is left raw on the way in and typed on the way out.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Server-to-client frame types.
const (
	TypeNewMessage         = "NEW_MESSAGE"
	TypeStatusUpdate       = "STATUS_UPDATE"
	TypeTyping             = "TYPING"
	TypeConversationUpdate = "CONVERSATION_UPDATE"
	TypeUnreadCountUpdate  = "UNREAD_COUNT_UPDATE"
	TypeError              = "ERROR"
	TypeAck                = "ACK"
)

// Client-to-server frame types. AUTH must be the first frame on a fresh
// connection; everything else is rejected until it succeeds.
const (
	TypeAuth        = "AUTH"
	TypeSendMessage = "SEND_MESSAGE"
)

type AuthPayload struct {
	Token string `json:"token"`
}

type SendMessagePayload struct {
	RecipientID string   `json:"recipient_id,omitempty"`
	GroupID     string   `json:"group_id,omitempty"`
	Content     string   `json:"content"`
	Type        string   `json:"message_type"`
	MediaRef    string   `json:"media_ref,omitempty"`
	ReplyToID   string   `json:"reply_to_id,omitempty"`
	Mentions    []string `json:"mentions,omitempty"`
}

type TypingPayload struct {
	PeerID   string `json:"peer_id"`
	IsTyping bool   `json:"is_typing"`
}

// MessagePayload is the wire shape of a message pushed over NEW_MESSAGE.
type MessagePayload struct {
	ID          string               `json:"id"`
	SenderID    string               `json:"sender_id"`
	RecipientID string               `json:"recipient_id,omitempty"`
	GroupID     string               `json:"group_id,omitempty"`
	Content     string               `json:"content"`
	Type        common.MessageType   `json:"message_type"`
	Status      common.MessageStatus `json:"status"`
	MediaRef    string               `json:"media_ref,omitempty"`
	ReplyToID   string               `json:"reply_to_id,omitempty"`
	Mentions    []string             `json:"mentions,omitempty"`
	IsPinned    bool                 `json:"is_pinned"`
	CreatedAt   time.Time            `json:"created_at"`
}

type StatusUpdatePayload struct {
	MessageID string               `json:"message_id"`
	Status    common.MessageStatus `json:"status"`
}

type TypingUpdatePayload struct {
	FromUserID string `json:"from_user_id"`
	IsTyping   bool   `json:"is_typing"`
}

type UnreadCountPayload struct {
	Total int64 `json:"total"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AckPayload struct {
	MessageID string `json:"message_id,omitempty"`
}

// NewEnvelope marshals the payload into a ready-to-send frame.
func NewEnvelope(frameType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: frameType, Payload: raw}, nil
}

func messagePayload(msg *dbmysql.Message) MessagePayload {
	p := MessagePayload{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Type:      msg.Type,
		Status:    msg.Status,
		Mentions:  msg.Mentions,
		IsPinned:  msg.IsPinned,
		CreatedAt: msg.CreatedAt,
	}
	if msg.RecipientID != nil {
		p.RecipientID = *msg.RecipientID
	}
	if msg.GroupID != nil {
		p.GroupID = *msg.GroupID
	}
	if msg.MediaRef != nil {
		p.MediaRef = *msg.MediaRef
	}
	if msg.ReplyToID != nil {
		p.ReplyToID = *msg.ReplyToID
	}
	return p
}
