package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"chatflow/internal/chat/repository"
	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

// Dispatcher is the asynchronous fan-out stage. Every method returns
// immediately; nothing here can fail the synchronous caller.
type Dispatcher interface {
	// MessageSaved fans a freshly persisted message out to the durable
	// log, live channels, the push gateway and cache invalidation.
	MessageSaved(msg *dbmysql.Message)
	// StatusChanged fans out a single applied status transition.
	StatusChanged(msg *dbmysql.Message)
	// ConversationRead fans out one aggregate notification for a bulk
	// read, however many rows it covered.
	ConversationRead(recipientID, senderID string, count int64)
	// ConversationMutated fans out a pin/unpin or delete affecting the
	// given users' conversation lists.
	ConversationMutated(msg *dbmysql.Message, userIDs ...string)
	// Typing relays an ephemeral typing indicator.
	Typing(fromID, toID string, isTyping bool)
}

// SendRequest carries a validated-on-entry send call.
type SendRequest struct {
	SenderID    string
	RecipientID string
	GroupID     string
	Content     string
	Type        common.MessageType
	MediaRef    string
	ReplyToID   string
	Mentions    []string
}

// ChatService defines the interface exposed to the handler layer.
type ChatService interface {
	SendMessage(ctx context.Context, req SendRequest) (*dbmysql.Message, error)
	MarkDelivered(ctx context.Context, messageID string) error
	MarkRead(ctx context.Context, messageID, readerID string) (*dbmysql.Message, error)
	BulkMarkRead(ctx context.Context, recipientID, senderID string) (int64, error)
	SoftDelete(ctx context.Context, messageID, requesterID string, forEveryone bool) error
	SetPinned(ctx context.Context, messageID, requesterID string, pinned bool) (*dbmysql.Message, error)
	History(ctx context.Context, userID, peerID string, limit, offset int) ([]*dbmysql.Message, error)
	GroupHistory(ctx context.Context, userID, groupID string, limit, offset int) ([]*dbmysql.Message, error)
	DeliverPending(ctx context.Context, userID string) ([]*dbmysql.Message, error)
	Typing(userID, peerID string, isTyping bool)
}

type chatService struct {
	repo       repository.MessageRepository
	roster     common.GroupRoster
	directory  common.UserDirectory
	dispatcher Dispatcher

	// pin operations on the same conversation must not interleave
	convLocks *keyedMutex

	deleteForAllWindow time.Duration
}

// Constructor used in DI/wire
func NewChatService(
	repo repository.MessageRepository,
	roster common.GroupRoster,
	directory common.UserDirectory,
	dispatcher Dispatcher,
	deleteForAllWindow time.Duration,
) ChatService {
	return &chatService{
		repo:               repo,
		roster:             roster,
		directory:          directory,
		dispatcher:         dispatcher,
		convLocks:          newKeyedMutex(),
		deleteForAllWindow: deleteForAllWindow,
	}
}

// SendMessage persists the message synchronously; that result alone decides the
// caller-visible outcome. Fan-out happens after, off the caller's path.
func (s *chatService) SendMessage(ctx context.Context, req SendRequest) (*dbmysql.Message, error) {
	if req.SenderID == "" {
		return nil, &common.ValidationError{Field: "sender_id", Reason: "required"}
	}
	if err := common.ValidateTarget(req.RecipientID, req.GroupID); err != nil {
		return nil, err
	}
	if err := common.ValidateContent(req.Content, req.Type, req.MediaRef); err != nil {
		return nil, err
	}

	msg := &dbmysql.Message{
		ID:        uuid.NewString(),
		SenderID:  req.SenderID,
		Content:   req.Content,
		Type:      req.Type,
		Status:    common.StatusSent,
		Mentions:  req.Mentions,
		CreatedAt: time.Now().UTC(),
	}
	if req.MediaRef != "" {
		msg.MediaRef = &req.MediaRef
	}
	if req.ReplyToID != "" {
		msg.ReplyToID = &req.ReplyToID
	}

	if req.GroupID != "" {
		members, err := s.roster.Members(ctx, req.GroupID)
		if err != nil {
			return nil, err
		}
		if len(members) == 0 {
			return nil, &common.NotFoundError{Kind: "group", ID: req.GroupID}
		}
		if !memberOf(members, req.SenderID) {
			return nil, &common.AuthorizationError{Actor: req.SenderID, Action: "send to group " + req.GroupID}
		}
		msg.GroupID = &req.GroupID
	} else {
		if _, err := s.directory.DisplayName(ctx, req.RecipientID); err != nil {
			return nil, err
		}
		msg.RecipientID = &req.RecipientID
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	s.dispatcher.MessageSaved(msg)

	return msg, nil
}

// MarkDelivered applies SENT→DELIVERED. A regressing notification (e.g. a
// delivery ack replayed after READ) is an idempotent no-op, not an error.
func (s *chatService) MarkDelivered(ctx context.Context, messageID string) error {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return err
	}

	if !msg.Status.CanTransition(common.StatusDelivered) {
		return nil
	}

	now := time.Now().UTC()
	changed, err := s.repo.MarkDelivered(ctx, messageID, now)
	if err != nil {
		return err
	}
	if !changed {
		// Lost the race against another transition; final state is the same.
		return nil
	}

	msg.Status = common.StatusDelivered
	msg.DeliveredAt = &now
	s.dispatcher.StatusChanged(msg)
	return nil
}

func (s *chatService) MarkRead(ctx context.Context, messageID, readerID string) (*dbmysql.Message, error) {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeRead(ctx, msg, readerID); err != nil {
		return nil, err
	}

	if !msg.Status.CanTransition(common.StatusRead) {
		return msg, nil
	}

	now := time.Now().UTC()
	changed, err := s.repo.MarkRead(ctx, messageID, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return msg, nil
	}

	msg.Status = common.StatusRead
	msg.ReadAt = &now
	if msg.DeliveredAt == nil {
		msg.DeliveredAt = &now
	}
	s.dispatcher.StatusChanged(msg)
	return msg, nil
}

// BulkMarkRead transitions every SENT/DELIVERED message sender→recipient to
// READ in one batch. Opening a conversation emits one aggregate
// notification, not one per message.
func (s *chatService) BulkMarkRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	count, err := s.repo.BulkMarkRead(ctx, recipientID, senderID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.dispatcher.ConversationRead(recipientID, senderID, count)
	}
	return count, nil
}

func (s *chatService) SoftDelete(ctx context.Context, messageID, requesterID string, forEveryone bool) error {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return err
	}

	if forEveryone {
		if msg.SenderID != requesterID {
			return &common.AuthorizationError{Actor: requesterID, Action: "delete message for everyone"}
		}
		if time.Since(msg.CreatedAt) > s.deleteForAllWindow {
			return &common.ConflictError{Reason: "delete-for-everyone window expired"}
		}
		if err := s.repo.DeleteForEveryone(ctx, messageID); err != nil {
			return err
		}
		users, err := s.participants(ctx, msg)
		if err != nil {
			return err
		}
		s.dispatcher.ConversationMutated(msg, users...)
		return nil
	}

	if ok, err := s.isParticipant(ctx, msg, requesterID); err != nil {
		return err
	} else if !ok {
		return &common.AuthorizationError{Actor: requesterID, Action: "delete message " + messageID}
	}

	if err := s.repo.HideFor(ctx, messageID, requesterID); err != nil {
		return err
	}
	// Only the requester's derived view changed.
	s.dispatcher.ConversationMutated(msg, requesterID)
	return nil
}

// SetPinned enforces the single-pin-per-conversation invariant: the clear
// and the set run in one transaction, and all pin operations on the same
// conversation key are serialized here.
func (s *chatService) SetPinned(ctx context.Context, messageID, requesterID string, pinned bool) (*dbmysql.Message, error) {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizePin(ctx, msg, requesterID); err != nil {
		return nil, err
	}

	key := conversationKey(msg)
	s.convLocks.Lock(key)
	defer s.convLocks.Unlock(key)

	if msg.IsPinned == pinned {
		return msg, nil
	}

	if err := s.repo.SetPinned(ctx, msg, pinned); err != nil {
		return nil, err
	}
	msg.IsPinned = pinned

	users, err := s.participants(ctx, msg)
	if err != nil {
		return nil, err
	}
	s.dispatcher.ConversationMutated(msg, users...)
	return msg, nil
}

func (s *chatService) History(ctx context.Context, userID, peerID string, limit, offset int) ([]*dbmysql.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	messages, err := s.repo.History(ctx, userID, peerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dropHidden(messages, userID), nil
}

func (s *chatService) GroupHistory(ctx context.Context, userID, groupID string, limit, offset int) ([]*dbmysql.Message, error) {
	members, err := s.roster.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !memberOf(members, userID) {
		return nil, &common.AuthorizationError{Actor: userID, Action: "read group " + groupID}
	}

	if limit <= 0 {
		limit = 50
	}
	messages, err := s.repo.GroupHistory(ctx, groupID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dropHidden(messages, userID), nil
}

// DeliverPending fetches messages still SENT for a freshly connected user
// and marks them delivered, so senders get their STATUS_UPDATE(DELIVERED)
// retroactively.
func (s *chatService) DeliverPending(ctx context.Context, userID string) ([]*dbmysql.Message, error) {
	pending, err := s.repo.PendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, msg := range pending {
		changed, err := s.repo.MarkDelivered(ctx, msg.ID, now)
		if err != nil || !changed {
			continue
		}
		msg.Status = common.StatusDelivered
		msg.DeliveredAt = &now
		s.dispatcher.StatusChanged(msg)
	}
	return dropHidden(pending, userID), nil
}

func (s *chatService) Typing(userID, peerID string, isTyping bool) {
	s.dispatcher.Typing(userID, peerID, isTyping)
}

func (s *chatService) authorizeRead(ctx context.Context, msg *dbmysql.Message, readerID string) error {
	if readerID == msg.SenderID {
		return &common.AuthorizationError{Actor: readerID, Action: "mark own message read"}
	}
	if msg.GroupID != nil {
		members, err := s.roster.Members(ctx, *msg.GroupID)
		if err != nil {
			return err
		}
		if !memberOf(members, readerID) {
			return &common.AuthorizationError{Actor: readerID, Action: "mark message read"}
		}
		return nil
	}
	if msg.RecipientID == nil || *msg.RecipientID != readerID {
		return &common.AuthorizationError{Actor: readerID, Action: "mark message read"}
	}
	return nil
}

func (s *chatService) authorizePin(ctx context.Context, msg *dbmysql.Message, requesterID string) error {
	if msg.GroupID != nil {
		members, err := s.roster.Members(ctx, *msg.GroupID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.UserID == requesterID {
				if !m.Role.CanPin() {
					return &common.AuthorizationError{Actor: requesterID, Action: "pin in group " + *msg.GroupID}
				}
				return nil
			}
		}
		return &common.AuthorizationError{Actor: requesterID, Action: "pin in group " + *msg.GroupID}
	}

	if requesterID != msg.SenderID && (msg.RecipientID == nil || *msg.RecipientID != requesterID) {
		return &common.AuthorizationError{Actor: requesterID, Action: "pin message " + msg.ID}
	}
	return nil
}

func (s *chatService) isParticipant(ctx context.Context, msg *dbmysql.Message, userID string) (bool, error) {
	if userID == msg.SenderID {
		return true, nil
	}
	if msg.GroupID != nil {
		members, err := s.roster.Members(ctx, *msg.GroupID)
		if err != nil {
			return false, err
		}
		return memberOf(members, userID), nil
	}
	return msg.RecipientID != nil && *msg.RecipientID == userID, nil
}

func (s *chatService) participants(ctx context.Context, msg *dbmysql.Message) ([]string, error) {
	if msg.GroupID == nil {
		return []string{msg.SenderID, *msg.RecipientID}, nil
	}
	members, err := s.roster.Members(ctx, *msg.GroupID)
	if err != nil {
		return nil, err
	}
	users := make([]string, 0, len(members))
	for _, m := range members {
		users = append(users, m.UserID)
	}
	return users, nil
}

func memberOf(members []common.GroupMember, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func dropHidden(messages []*dbmysql.Message, userID string) []*dbmysql.Message {
	out := messages[:0]
	for _, msg := range messages {
		if !msg.HiddenForUser(userID) {
			out = append(out, msg)
		}
	}
	return out
}

// conversationKey identifies a conversation scope: the group id, or the
// order-independent user pair.
func conversationKey(msg *dbmysql.Message) string {
	if msg.GroupID != nil {
		return "g:" + *msg.GroupID
	}
	pair := []string{msg.SenderID, *msg.RecipientID}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1]
}
