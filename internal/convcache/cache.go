// Package convcache holds the derived, per-user conversation read model:
// the latest message per conversation partner and unread counts. It is a
// read-through cache with explicit invalidation: unread staleness is a
// correctness bug, so nothing here expires on TTL.
package convcache

import (
	"context"
	"sync"
	"time"

	"chatflow/internal/chat/repository"
	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
)

// headScanLimit bounds how many recent messages one rebuild scans when
// folding conversation heads.
const headScanLimit = 1000

// Summary is one conversation row in a user's list. Derived state only;
// never written back to the message store.
type Summary struct {
	UserID        string           `json:"user_id"`
	PartnerID     string           `json:"partner_id"`
	IsGroup       bool             `json:"is_group"`
	PartnerName   string           `json:"partner_name,omitempty"`
	PartnerAvatar string           `json:"partner_avatar,omitempty"`
	LastMessage   *dbmysql.Message `json:"last_message"`
	UnreadCount   int64            `json:"unread_count"`
	IsTyping      bool             `json:"is_typing"`
}

// MessageSource is the slice of the message repository the cache reads on a
// miss. The full repository satisfies it.
type MessageSource interface {
	RecentInvolving(ctx context.Context, userID string, groupIDs []string, limit int) ([]*dbmysql.Message, error)
	UnreadBySender(ctx context.Context, userID string) ([]repository.UnreadCount, error)
}

type entry struct {
	summaries   []Summary
	unreadTotal int64
	builtAt     time.Time
}

type Cache struct {
	source    MessageSource
	roster    common.GroupRoster
	directory common.UserDirectory

	mu      sync.RWMutex
	entries map[string]*entry

	// typing flags are ephemeral and live outside the cached entries so a
	// rebuild does not erase them.
	typingMu sync.RWMutex
	typing   map[string]map[string]bool // viewer -> partner -> typing
}

func New(source MessageSource, roster common.GroupRoster, directory common.UserDirectory) *Cache {
	return &Cache{
		source:    source,
		roster:    roster,
		directory: directory,
		entries:   make(map[string]*entry),
		typing:    make(map[string]map[string]bool),
	}
}

func (c *Cache) GetConversationList(ctx context.Context, userID string) ([]Summary, error) {
	e, err := c.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.typingMu.RLock()
	flags := c.typing[userID]
	out := make([]Summary, len(e.summaries))
	for i, s := range e.summaries {
		s.IsTyping = flags[s.PartnerID]
		out[i] = s
	}
	c.typingMu.RUnlock()

	return out, nil
}

func (c *Cache) GetUnreadTotal(ctx context.Context, userID string) (int64, error) {
	e, err := c.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return e.unreadTotal, nil
}

// Invalidate drops the user's derived state so the next read recomputes.
// Only the fan-out dispatcher's invalidation task calls this.
func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// SetTyping records the ephemeral typing flag a viewer sees for a partner.
func (c *Cache) SetTyping(viewerID, partnerID string, isTyping bool) {
	c.typingMu.Lock()
	defer c.typingMu.Unlock()

	flags, ok := c.typing[viewerID]
	if !ok {
		if !isTyping {
			return
		}
		flags = make(map[string]bool)
		c.typing[viewerID] = flags
	}
	if isTyping {
		flags[partnerID] = true
	} else {
		delete(flags, partnerID)
		if len(flags) == 0 {
			delete(c.typing, viewerID)
		}
	}
}

func (c *Cache) load(ctx context.Context, userID string) (*entry, error) {
	c.mu.RLock()
	e, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok {
		return e, nil
	}

	e, err := c.rebuild(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// A concurrent rebuild may have stored a fresher entry; last write wins,
	// both derive from committed state.
	c.entries[userID] = e
	c.mu.Unlock()
	return e, nil
}

func (c *Cache) rebuild(ctx context.Context, userID string) (*entry, error) {
	groupIDs, err := c.roster.GroupsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := c.source.RecentInvolving(ctx, userID, groupIDs, headScanLimit)
	if err != nil {
		return nil, err
	}

	unread, err := c.source.UnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	unreadByPartner := make(map[string]int64, len(unread))
	var total int64
	for _, u := range unread {
		unreadByPartner[u.SenderID] = u.Count
		total += u.Count
	}

	// recent is newest-first, so the first message per partner is the head.
	seen := make(map[string]bool)
	var summaries []Summary
	for _, msg := range recent {
		if msg.HiddenForUser(userID) {
			continue
		}
		partner := msg.Partner(userID)
		if seen[partner] {
			continue
		}
		seen[partner] = true

		s := Summary{
			UserID:      userID,
			PartnerID:   partner,
			IsGroup:     msg.GroupID != nil,
			LastMessage: msg,
			UnreadCount: unreadByPartner[partner],
		}
		if !s.IsGroup {
			// Enrichment is best-effort; a directory miss leaves the id bare.
			if name, err := c.directory.DisplayName(ctx, partner); err == nil {
				s.PartnerName = name
			}
			if avatar, err := c.directory.AvatarURL(ctx, partner); err == nil {
				s.PartnerAvatar = avatar
			}
		}
		summaries = append(summaries, s)
	}

	return &entry{
		summaries:   summaries,
		unreadTotal: total,
		builtAt:     time.Now(),
	}, nil
}
