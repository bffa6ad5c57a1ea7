package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatflow/internal/bus"
	"chatflow/internal/chat/service"
	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
	"chatflow/internal/registry"
)

type fakeEngine struct {
	sent         []service.SendRequest
	sendErr      error
	delivered    []string
	pending      []*dbmysql.Message
	typingEvents []string
}

func (f *fakeEngine) SendMessage(ctx context.Context, req service.SendRequest) (*dbmysql.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, req)
	return &dbmysql.Message{ID: "msg-new", SenderID: req.SenderID, Content: req.Content, Type: req.Type, Status: common.StatusSent}, nil
}

func (f *fakeEngine) MarkDelivered(ctx context.Context, messageID string) error {
	f.delivered = append(f.delivered, messageID)
	return nil
}

func (f *fakeEngine) MarkRead(ctx context.Context, messageID, readerID string) (*dbmysql.Message, error) {
	return nil, nil
}

func (f *fakeEngine) BulkMarkRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	return 0, nil
}

func (f *fakeEngine) SoftDelete(ctx context.Context, messageID, requesterID string, forEveryone bool) error {
	return nil
}

func (f *fakeEngine) SetPinned(ctx context.Context, messageID, requesterID string, pinned bool) (*dbmysql.Message, error) {
	return nil, nil
}

func (f *fakeEngine) History(ctx context.Context, userID, peerID string, limit, offset int) ([]*dbmysql.Message, error) {
	return nil, nil
}

func (f *fakeEngine) GroupHistory(ctx context.Context, userID, groupID string, limit, offset int) ([]*dbmysql.Message, error) {
	return nil, nil
}

func (f *fakeEngine) DeliverPending(ctx context.Context, userID string) ([]*dbmysql.Message, error) {
	return f.pending, nil
}

func (f *fakeEngine) Typing(userID, peerID string, isTyping bool) {
	f.typingEvents = append(f.typingEvents, userID+"->"+peerID)
}

type fakeReadModel struct {
	typing map[string]bool
	total  int64
}

func (f *fakeReadModel) SetTyping(viewerID, partnerID string, isTyping bool) {
	if f.typing == nil {
		f.typing = make(map[string]bool)
	}
	f.typing[viewerID+"/"+partnerID] = isTyping
}

func (f *fakeReadModel) GetUnreadTotal(ctx context.Context, userID string) (int64, error) {
	return f.total, nil
}

type recordingChannel struct {
	id     string
	userID string
	frames [][]byte
	full   bool
}

func (r *recordingChannel) ID() string     { return r.id }
func (r *recordingChannel) UserID() string { return r.userID }
func (r *recordingChannel) Send(payload any) error {
	if r.full {
		return ErrBufferFull
	}
	r.frames = append(r.frames, payload.([]byte))
	return nil
}
func (r *recordingChannel) LastSeen() time.Time { return time.Now() }
func (r *recordingChannel) Close() error        { return nil }

func (r *recordingChannel) lastEnvelope(t *testing.T) Envelope {
	t.Helper()
	require.NotEmpty(t, r.frames)
	var env Envelope
	require.NoError(t, json.Unmarshal(r.frames[len(r.frames)-1], &env))
	return env
}

type hubFixture struct {
	engine    *fakeEngine
	readModel *fakeReadModel
	registry  *registry.Registry
	bus       *bus.Bus
	hub       *Hub
}

func newHubFixture(t *testing.T) *hubFixture {
	f := &hubFixture{
		engine:    &fakeEngine{},
		readModel: &fakeReadModel{},
		registry:  registry.New(),
		bus:       bus.New(),
	}
	f.hub = NewHub(f.registry, f.engine, f.readModel, f.bus)
	t.Cleanup(f.registry.Shutdown)
	return f
}

func strPtr(s string) *string { return &s }

func TestHub_DeliverNewMessage_MarksDelivered(t *testing.T) {
	f := newHubFixture(t)
	ch := &recordingChannel{id: "ch-1", userID: "user-b"}
	f.registry.Register("user-b", ch)

	msg := &dbmysql.Message{
		ID: "msg-1", SenderID: "user-a", RecipientID: strPtr("user-b"),
		Content: "hi", Type: common.TypeText, Status: common.StatusSent,
	}
	f.hub.dispatch(bus.Event{Kind: bus.KindMessageNew, Payload: bus.NewMessage{
		Targets: []string{"user-b"}, Message: msg,
	}})

	env := ch.lastEnvelope(t)
	assert.Equal(t, TypeNewMessage, env.Type)

	var p MessagePayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, "msg-1", p.ID)
	assert.Equal(t, "user-b", p.RecipientID)

	assert.Equal(t, []string{"msg-1"}, f.engine.delivered)
}

func TestHub_DeliverNewMessage_OfflineTargetNotMarked(t *testing.T) {
	f := newHubFixture(t)

	msg := &dbmysql.Message{
		ID: "msg-1", SenderID: "user-a", RecipientID: strPtr("user-b"),
		Content: "hi", Type: common.TypeText, Status: common.StatusSent,
	}
	f.hub.dispatch(bus.Event{Kind: bus.KindMessageNew, Payload: bus.NewMessage{
		Targets: []string{"user-b"}, Message: msg,
	}})

	assert.Empty(t, f.engine.delivered)
}

func TestHub_DeliverNewMessage_SkipsHiddenTarget(t *testing.T) {
	f := newHubFixture(t)
	ch := &recordingChannel{id: "ch-1", userID: "user-b"}
	f.registry.Register("user-b", ch)

	msg := &dbmysql.Message{
		ID: "msg-1", SenderID: "user-a", RecipientID: strPtr("user-b"),
		HiddenFor: dbmysql.StringList{"user-b"},
		Content:   "hi", Type: common.TypeText, Status: common.StatusSent,
	}
	f.hub.dispatch(bus.Event{Kind: bus.KindMessageNew, Payload: bus.NewMessage{
		Targets: []string{"user-b"}, Message: msg,
	}})

	assert.Empty(t, ch.frames)
	assert.Empty(t, f.engine.delivered)
}

func TestHub_DeliverNewMessage_SaturatedChannelDropsFrame(t *testing.T) {
	f := newHubFixture(t)
	ch := &recordingChannel{id: "ch-1", userID: "user-b", full: true}
	f.registry.Register("user-b", ch)

	msg := &dbmysql.Message{
		ID: "msg-1", SenderID: "user-a", RecipientID: strPtr("user-b"),
		Content: "hi", Type: common.TypeText, Status: common.StatusSent,
	}
	f.hub.dispatch(bus.Event{Kind: bus.KindMessageNew, Payload: bus.NewMessage{
		Targets: []string{"user-b"}, Message: msg,
	}})

	// No channel accepted the frame, so no delivery receipt either.
	assert.Empty(t, f.engine.delivered)
}

func TestHub_StatusUpdate_ReachesAllDevices(t *testing.T) {
	f := newHubFixture(t)
	phone := &recordingChannel{id: "ch-phone", userID: "user-a"}
	laptop := &recordingChannel{id: "ch-laptop", userID: "user-a"}
	f.registry.Register("user-a", phone)
	f.registry.Register("user-a", laptop)

	f.hub.dispatch(bus.Event{Kind: bus.KindMessageStatus, Payload: bus.StatusChange{
		Targets: []string{"user-a"}, MessageID: "msg-1", Status: common.StatusRead,
	}})

	for _, ch := range []*recordingChannel{phone, laptop} {
		env := ch.lastEnvelope(t)
		assert.Equal(t, TypeStatusUpdate, env.Type)
		var p StatusUpdatePayload
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		assert.Equal(t, common.StatusRead, p.Status)
	}
}

func TestHub_UnreadUpdate_CarriesTotal(t *testing.T) {
	f := newHubFixture(t)
	f.readModel.total = 12
	ch := &recordingChannel{id: "ch-1", userID: "user-a"}
	f.registry.Register("user-a", ch)

	f.hub.dispatch(bus.Event{Kind: bus.KindUnreadUpdate, Payload: bus.UnreadUpdate{UserID: "user-a"}})

	env := ch.lastEnvelope(t)
	assert.Equal(t, TypeUnreadCountUpdate, env.Type)
	var p UnreadCountPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, int64(12), p.Total)
}

func TestHub_Typing_UpdatesReadModelAndRelays(t *testing.T) {
	f := newHubFixture(t)
	ch := &recordingChannel{id: "ch-1", userID: "user-b"}
	f.registry.Register("user-b", ch)

	f.hub.dispatch(bus.Event{Kind: bus.KindTyping, Payload: bus.Typing{
		FromUserID: "user-a", ToUserID: "user-b", IsTyping: true,
	}})

	assert.True(t, f.readModel.typing["user-b/user-a"])
	env := ch.lastEnvelope(t)
	assert.Equal(t, TypeTyping, env.Type)
}

func TestHub_HandleInbound_SendMessage(t *testing.T) {
	f := newHubFixture(t)
	c := newClient("user-a", nil, f.hub)

	payload, _ := json.Marshal(SendMessagePayload{RecipientID: "user-b", Content: "hello", Type: "text"})
	frame, _ := json.Marshal(Envelope{Type: TypeSendMessage, Payload: payload})
	f.hub.handleInbound(c, frame)

	require.Len(t, f.engine.sent, 1)
	assert.Equal(t, "user-a", f.engine.sent[0].SenderID)
	assert.Equal(t, "user-b", f.engine.sent[0].RecipientID)

	select {
	case data := <-c.egress:
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, TypeAck, env.Type)
		var ack AckPayload
		require.NoError(t, json.Unmarshal(env.Payload, &ack))
		assert.Equal(t, "msg-new", ack.MessageID)
	default:
		t.Fatal("expected an ACK frame on the egress buffer")
	}
}

func TestHub_HandleInbound_SendMessageError(t *testing.T) {
	f := newHubFixture(t)
	f.engine.sendErr = &common.ValidationError{Field: "content", Reason: "empty"}
	c := newClient("user-a", nil, f.hub)

	payload, _ := json.Marshal(SendMessagePayload{RecipientID: "user-b", Content: ""})
	frame, _ := json.Marshal(Envelope{Type: TypeSendMessage, Payload: payload})
	f.hub.handleInbound(c, frame)

	select {
	case data := <-c.egress:
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, TypeError, env.Type)
		var p ErrorPayload
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		assert.Equal(t, "VALIDATION_FAILED", p.Code)
	default:
		t.Fatal("expected an ERROR frame on the egress buffer")
	}
}

func TestHub_HandleInbound_Typing(t *testing.T) {
	f := newHubFixture(t)
	c := newClient("user-a", nil, f.hub)

	payload, _ := json.Marshal(TypingPayload{PeerID: "user-b", IsTyping: true})
	frame, _ := json.Marshal(Envelope{Type: TypeTyping, Payload: payload})
	f.hub.handleInbound(c, frame)

	assert.Equal(t, []string{"user-a->user-b"}, f.engine.typingEvents)
}

func TestHub_HandleInbound_SecondAuthRejected(t *testing.T) {
	f := newHubFixture(t)
	c := newClient("user-a", nil, f.hub)

	payload, _ := json.Marshal(AuthPayload{Token: "whatever"})
	frame, _ := json.Marshal(Envelope{Type: TypeAuth, Payload: payload})
	f.hub.handleInbound(c, frame)

	select {
	case data := <-c.egress:
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		assert.Equal(t, TypeError, env.Type)
	default:
		t.Fatal("expected an ERROR frame on the egress buffer")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &common.ValidationError{Field: "x", Reason: "y"}, "VALIDATION_FAILED"},
		{"not found", &common.NotFoundError{Kind: "message", ID: "m"}, "NOT_FOUND"},
		{"authorization", &common.AuthorizationError{Actor: "a", Action: "b"}, "FORBIDDEN"},
		{"conflict", &common.ConflictError{Reason: "x"}, "CONFLICT"},
		{"unknown", assert.AnError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorCode(tt.err))
		})
	}
}
