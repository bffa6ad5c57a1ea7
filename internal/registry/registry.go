// Package registry tracks which users currently hold open live channels.
// State here is ephemeral: it is rebuilt from zero on process restart, so a
// restart simply makes every user look disconnected until they reconnect.
package registry

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"time"
)

const shardCount = 32 // tune: 16/32/64 depending on load

// Channel is one live duplex connection held by a user. A user may hold
// several at once (multi-device).
type Channel interface {
	ID() string
	UserID() string
	Send(payload any) error
	LastSeen() time.Time
	Close() error
}

type shard struct {
	mu    sync.RWMutex
	users map[string]map[string]Channel // userID -> channelID -> Channel
}

// Registry is the only truly shared mutable state in the subsystem. Lookups
// during fan-out and register/unregister from connection handlers must not
// serialize unrelated users against each other, hence the sharding.
type Registry struct {
	shards [shardCount]*shard

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New() *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{ctx: ctx, cancel: cancel}
	for i := 0; i < shardCount; i++ {
		r.shards[i] = &shard{users: make(map[string]map[string]Channel)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Register adds a channel for the user. Registering the same channel id
// twice replaces the previous handle.
func (r *Registry) Register(userID string, ch Channel) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	conns, ok := s.users[userID]
	if !ok {
		conns = make(map[string]Channel)
		s.users[userID] = conns
	}
	conns[ch.ID()] = ch
}

// Unregister removes one channel. Removing an unknown channel, or removing
// the same channel twice, is a safe no-op.
func (r *Registry) Unregister(userID, channelID string) {
	s := r.shardFor(userID)
	s.mu.Lock()
	defer s.mu.Unlock()

	conns, ok := s.users[userID]
	if !ok {
		return
	}
	delete(conns, channelID)
	if len(conns) == 0 {
		delete(s.users, userID)
	}
}

func (r *Registry) IsConnected(userID string) bool {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users[userID]) > 0
}

// ActiveConnections returns a snapshot of the user's open channels.
func (r *Registry) ActiveConnections(userID string) []Channel {
	s := r.shardFor(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()

	conns := s.users[userID]
	out := make([]Channel, 0, len(conns))
	for _, ch := range conns {
		out = append(out, ch)
	}
	return out
}

// ConnectionCount returns the total number of open channels across all users.
func (r *Registry) ConnectionCount() int {
	total := 0
	for _, s := range r.shards {
		s.mu.RLock()
		for _, conns := range s.users {
			total += len(conns)
		}
		s.mu.RUnlock()
	}
	return total
}

// StartSweep launches the periodic liveness sweep. Channels with no
// heartbeat inside maxIdle are closed and dropped; this is the primary
// defense against leaked handles from ungracefully closed connections.
func (r *Registry) StartSweep(interval, maxIdle time.Duration) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if n := r.sweep(maxIdle); n > 0 {
					log.Printf("registry sweep evicted %d stale connections", n)
				}
			case <-r.ctx.Done():
				return
			}
		}
	}()
}

func (r *Registry) sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	evicted := 0

	for _, s := range r.shards {
		var stale []Channel

		s.mu.Lock()
		for userID, conns := range s.users {
			for id, ch := range conns {
				if ch.LastSeen().Before(cutoff) {
					delete(conns, id)
					stale = append(stale, ch)
				}
			}
			if len(conns) == 0 {
				delete(s.users, userID)
			}
		}
		s.mu.Unlock()

		// Close outside the shard lock.
		for _, ch := range stale {
			_ = ch.Close()
			evicted++
		}
	}
	return evicted
}

// Shutdown stops the sweep loop and closes every registered channel.
func (r *Registry) Shutdown() {
	r.cancel()
	r.wg.Wait()

	for _, s := range r.shards {
		s.mu.Lock()
		for userID, conns := range s.users {
			for _, ch := range conns {
				_ = ch.Close()
			}
			delete(s.users, userID)
		}
		s.mu.Unlock()
	}
}
