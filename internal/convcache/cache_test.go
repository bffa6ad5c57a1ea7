package convcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatflow/internal/chat/repository"
	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

type fakeSource struct {
	recent      []*dbmysql.Message
	unread      []repository.UnreadCount
	recentCalls int
}

func (f *fakeSource) RecentInvolving(ctx context.Context, userID string, groupIDs []string, limit int) ([]*dbmysql.Message, error) {
	f.recentCalls++
	return f.recent, nil
}

func (f *fakeSource) UnreadBySender(ctx context.Context, userID string) ([]repository.UnreadCount, error) {
	return f.unread, nil
}

type fakeRoster struct {
	groups []string
}

func (f *fakeRoster) Members(ctx context.Context, groupID string) ([]common.GroupMember, error) {
	return nil, nil
}

func (f *fakeRoster) GroupsOf(ctx context.Context, userID string) ([]string, error) {
	return f.groups, nil
}

type fakeDirectory struct {
	names map[string]string
}

func (f *fakeDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	if name, ok := f.names[userID]; ok {
		return name, nil
	}
	return "", &common.NotFoundError{Kind: "user", ID: userID}
}

func (f *fakeDirectory) AvatarURL(ctx context.Context, userID string) (string, error) {
	return "", &common.NotFoundError{Kind: "user", ID: userID}
}

func strPtr(s string) *string { return &s }

func msgAt(id, sender, recipient string, age time.Duration) *dbmysql.Message {
	return &dbmysql.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: strPtr(recipient),
		Status:      common.StatusDelivered,
		CreatedAt:   time.Now().Add(-age),
	}
}

func TestCache_FoldsLatestMessagePerPartner(t *testing.T) {
	source := &fakeSource{
		// Newest first, as the repository returns them.
		recent: []*dbmysql.Message{
			msgAt("msg-3", "user-b", "user-a", time.Minute),
			msgAt("msg-2", "user-a", "user-b", 2*time.Minute),
			msgAt("msg-1", "user-c", "user-a", 3*time.Minute),
		},
		unread: []repository.UnreadCount{
			{SenderID: "user-b", Count: 2},
		},
	}
	cache := New(source, &fakeRoster{}, &fakeDirectory{names: map[string]string{"user-b": "Bee"}})

	summaries, err := cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "user-b", summaries[0].PartnerID)
	assert.Equal(t, "msg-3", summaries[0].LastMessage.ID)
	assert.Equal(t, int64(2), summaries[0].UnreadCount)
	assert.Equal(t, "Bee", summaries[0].PartnerName)

	assert.Equal(t, "user-c", summaries[1].PartnerID)
	assert.Equal(t, "msg-1", summaries[1].LastMessage.ID)
	assert.Zero(t, summaries[1].UnreadCount)
}

func TestCache_UnreadTotalSumsAllSenders(t *testing.T) {
	source := &fakeSource{
		recent: []*dbmysql.Message{
			msgAt("msg-1", "user-b", "user-a", time.Minute),
			msgAt("msg-2", "user-c", "user-a", 2*time.Minute),
		},
		unread: []repository.UnreadCount{
			{SenderID: "user-b", Count: 2},
			{SenderID: "user-c", Count: 3},
		},
	}
	cache := New(source, &fakeRoster{}, &fakeDirectory{})

	total, err := cache.GetUnreadTotal(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}

func TestCache_ReadThroughAndInvalidate(t *testing.T) {
	source := &fakeSource{
		recent: []*dbmysql.Message{msgAt("msg-1", "user-b", "user-a", time.Minute)},
	}
	cache := New(source, &fakeRoster{}, &fakeDirectory{})

	// Two reads, one rebuild.
	_, err := cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	_, err = cache.GetUnreadTotal(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 1, source.recentCalls)

	// Invalidation forces a recompute on the next read.
	cache.Invalidate("user-a")
	_, err = cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 2, source.recentCalls)
}

func TestCache_HiddenMessagesAreSkipped(t *testing.T) {
	hidden := msgAt("msg-2", "user-b", "user-a", time.Minute)
	hidden.HiddenFor = dbmysql.StringList{"user-a"}

	source := &fakeSource{
		recent: []*dbmysql.Message{
			hidden,
			msgAt("msg-1", "user-b", "user-a", 2*time.Minute),
		},
	}
	cache := New(source, &fakeRoster{}, &fakeDirectory{})

	summaries, err := cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	// The hidden head is skipped; the older visible message becomes the head.
	assert.Equal(t, "msg-1", summaries[0].LastMessage.ID)
}

func TestCache_TypingFlagIsEphemeral(t *testing.T) {
	source := &fakeSource{
		recent: []*dbmysql.Message{msgAt("msg-1", "user-b", "user-a", time.Minute)},
	}
	cache := New(source, &fakeRoster{}, &fakeDirectory{})

	cache.SetTyping("user-a", "user-b", true)

	summaries, err := cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	assert.True(t, summaries[0].IsTyping)

	// Invalidation must not erase typing state.
	cache.Invalidate("user-a")
	summaries, err = cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	assert.True(t, summaries[0].IsTyping)

	cache.SetTyping("user-a", "user-b", false)
	summaries, err = cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	assert.False(t, summaries[0].IsTyping)
}

func TestCache_GroupHeadUsesGroupAsPartner(t *testing.T) {
	groupID := "group-1"
	groupMsg := &dbmysql.Message{
		ID:        "msg-g",
		SenderID:  "user-b",
		GroupID:   &groupID,
		Status:    common.StatusSent,
		CreatedAt: time.Now(),
	}
	source := &fakeSource{recent: []*dbmysql.Message{groupMsg}}
	cache := New(source, &fakeRoster{groups: []string{groupID}}, &fakeDirectory{})

	summaries, err := cache.GetConversationList(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].IsGroup)
	assert.Equal(t, "group-1", summaries[0].PartnerID)
}
