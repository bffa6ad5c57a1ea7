// Package fanout drives the asynchronous side effects of every message
// write: durable log publication, live-channel delivery, notification push
// and read-model invalidation. Each path runs on its own bounded worker
// pool; none of them can fail the synchronous send that already committed.
package fanout

import (
	"context"
	"log"
	"sync"
	"time"

	"chatflow/internal/bus"
	"chatflow/internal/common"
	"chatflow/internal/dbmysql"
	"chatflow/internal/registry"
)

// Invalidator is the read-model cache surface the dispatcher drives.
type Invalidator interface {
	Invalidate(userID string)
}

// StaleFinder locates messages whose status never advanced past SENT, for
// the background redelivery sweep.
type StaleFinder interface {
	StaleSent(ctx context.Context, cutoff time.Time) ([]*dbmysql.Message, error)
}

// Options tunes the dispatcher's pools and product policies.
type Options struct {
	Workers           int
	Buffer            int
	PushWhenConnected bool
	GroupPushTimeout  time.Duration
}

type Dispatcher struct {
	logPool  *pool
	livePool *pool
	pushPool *pool
	// companion queue of the live pool: cache invalidation rides here so
	// it cannot be starved by a slow gateway or log.
	cachePool *pool

	publisher common.DurableLogPublisher
	gateway   common.NotificationGateway
	roster    common.GroupRoster
	directory common.UserDirectory
	registry  *registry.Registry
	bus       *bus.Bus
	cache     Invalidator

	opts Options

	sweepCtx    context.Context
	sweepCancel context.CancelFunc
	sweepWG     sync.WaitGroup
}

func NewDispatcher(
	publisher common.DurableLogPublisher,
	gateway common.NotificationGateway,
	roster common.GroupRoster,
	directory common.UserDirectory,
	reg *registry.Registry,
	b *bus.Bus,
	cache Invalidator,
	opts Options,
) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 1000
	}
	if opts.GroupPushTimeout <= 0 {
		opts.GroupPushTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		logPool:     newPool("durable-log", opts.Workers, opts.Buffer),
		livePool:    newPool("live-delivery", opts.Workers, opts.Buffer),
		pushPool:    newPool("notification-push", opts.Workers, opts.Buffer),
		cachePool:   newPool("cache-invalidation", opts.Workers, opts.Buffer),
		publisher:   publisher,
		gateway:     gateway,
		roster:      roster,
		directory:   directory,
		registry:    reg,
		bus:         b,
		cache:       cache,
		opts:        opts,
		sweepCtx:    ctx,
		sweepCancel: cancel,
	}
}

// MessageSaved schedules the three delivery paths plus cache invalidation
// for a freshly persisted message. Returns immediately.
func (d *Dispatcher) MessageSaved(msg *dbmysql.Message) {
	d.logPool.submit(func(ctx context.Context) {
		d.publishEvent(ctx, "message.sent", msg)
	})

	d.livePool.submit(func(ctx context.Context) {
		targets, err := d.liveTargets(ctx, msg)
		if err != nil {
			log.Printf("live delivery: resolving targets for %s: %v", msg.ID, err)
			return
		}
		d.bus.Publish(bus.Event{
			Kind:      bus.KindMessageNew,
			Timestamp: time.Now(),
			Payload:   bus.NewMessage{Targets: targets, Message: msg},
		})
	})

	d.pushPool.submit(func(ctx context.Context) {
		d.pushMessage(ctx, msg)
	})

	d.invalidateFor(msg)
}

// StatusChanged schedules log publication, the sender-facing live update
// and invalidation for an applied status transition.
func (d *Dispatcher) StatusChanged(msg *dbmysql.Message) {
	d.logPool.submit(func(ctx context.Context) {
		d.publishEvent(ctx, "message.status", msg)
	})

	d.livePool.submit(func(ctx context.Context) {
		d.bus.Publish(bus.Event{
			Kind:      bus.KindMessageStatus,
			Timestamp: time.Now(),
			Payload: bus.StatusChange{
				Targets:   []string{msg.SenderID},
				MessageID: msg.ID,
				Status:    msg.Status,
			},
		})
	})

	d.invalidateFor(msg)
}

// ConversationRead handles a bulk read as one aggregate event, however many
// rows it covered.
func (d *Dispatcher) ConversationRead(recipientID, senderID string, count int64) {
	d.logPool.submit(func(ctx context.Context) {
		event := map[string]interface{}{
			"recipient_id": recipientID,
			"sender_id":    senderID,
			"count":        count,
			"at":           time.Now().UTC(),
		}
		if err := d.publisher.Publish(ctx, "conversation.read", event); err != nil {
			log.Printf("durable log publish failed: %v", err)
		}
	})

	d.livePool.submit(func(ctx context.Context) {
		now := time.Now()
		d.bus.Publish(bus.Event{
			Kind:      bus.KindConversationUpdate,
			Timestamp: now,
			Payload:   bus.ConversationUpdate{UserID: senderID},
		})
		d.bus.Publish(bus.Event{
			Kind:      bus.KindUnreadUpdate,
			Timestamp: now,
			Payload:   bus.UnreadUpdate{UserID: recipientID},
		})
	})

	d.cachePool.submit(func(ctx context.Context) {
		d.cache.Invalidate(recipientID)
		d.cache.Invalidate(senderID)
	})
}

// ConversationMutated covers pin/unpin and deletes: the listed users'
// conversation lists changed without a status transition.
func (d *Dispatcher) ConversationMutated(msg *dbmysql.Message, userIDs ...string) {
	d.logPool.submit(func(ctx context.Context) {
		d.publishEvent(ctx, "conversation.mutated", msg)
	})

	d.cachePool.submit(func(ctx context.Context) {
		now := time.Now()
		for _, id := range userIDs {
			d.cache.Invalidate(id)
			d.bus.Publish(bus.Event{
				Kind:      bus.KindConversationUpdate,
				Timestamp: now,
				Payload:   bus.ConversationUpdate{UserID: id},
			})
		}
	})
}

// Typing relays the ephemeral indicator straight onto the bus; it carries
// no durable state and skips the pools.
func (d *Dispatcher) Typing(fromID, toID string, isTyping bool) {
	d.bus.Publish(bus.Event{
		Kind:      bus.KindTyping,
		Timestamp: time.Now(),
		Payload:   bus.Typing{FromUserID: fromID, ToUserID: toID, IsTyping: isTyping},
	})
}

// StartRedeliverySweep periodically re-attempts live delivery of messages
// still SENT past the staleness threshold. This sweep is the recovery path
// for fan-out failures; nothing retries in the caller's path.
func (d *Dispatcher) StartRedeliverySweep(finder StaleFinder, interval, staleAfter time.Duration) {
	d.sweepWG.Add(1)
	go func() {
		defer d.sweepWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				d.redeliverStale(finder, staleAfter)
			case <-d.sweepCtx.Done():
				return
			}
		}
	}()
}

func (d *Dispatcher) redeliverStale(finder StaleFinder, staleAfter time.Duration) {
	ctx, cancel := context.WithTimeout(d.sweepCtx, 30*time.Second)
	defer cancel()

	stale, err := finder.StaleSent(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		log.Printf("redelivery sweep: %v", err)
		return
	}

	redelivered := 0
	for _, msg := range stale {
		if msg.RecipientID == nil || !d.registry.IsConnected(*msg.RecipientID) {
			continue
		}
		m := msg
		d.livePool.submit(func(ctx context.Context) {
			d.bus.Publish(bus.Event{
				Kind:      bus.KindMessageNew,
				Timestamp: time.Now(),
				Payload:   bus.NewMessage{Targets: []string{*m.RecipientID}, Message: m},
			})
		})
		redelivered++
	}
	if redelivered > 0 {
		log.Printf("redelivery sweep re-attempted %d stale messages", redelivered)
	}
}

// Shutdown stops the sweep and drains the pools.
func (d *Dispatcher) Shutdown() {
	d.sweepCancel()
	d.sweepWG.Wait()

	d.logPool.shutdown()
	d.livePool.shutdown()
	d.pushPool.shutdown()
	d.cachePool.shutdown()
	log.Println("fan-out dispatcher shutdown complete")
}

func (d *Dispatcher) publishEvent(ctx context.Context, topic string, msg *dbmysql.Message) {
	event := map[string]interface{}{
		"message_id": msg.ID,
		"sender_id":  msg.SenderID,
		"status":     msg.Status,
		"at":         time.Now().UTC(),
	}
	if msg.RecipientID != nil {
		event["recipient_id"] = *msg.RecipientID
	}
	if msg.GroupID != nil {
		event["group_id"] = *msg.GroupID
	}

	if err := d.publisher.Publish(ctx, topic, event); err != nil {
		// At-least-once, never surfaced to the sender. The redelivery
		// sweep is the user-visible recovery path.
		log.Printf("durable log publish failed for %s: %v", msg.ID, err)
	}
}

// liveTargets resolves who should receive the message over live channels:
// the recipient, or every group member except the sender.
func (d *Dispatcher) liveTargets(ctx context.Context, msg *dbmysql.Message) ([]string, error) {
	if msg.GroupID == nil {
		return []string{*msg.RecipientID}, nil
	}

	members, err := d.roster.Members(ctx, *msg.GroupID)
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(members))
	for _, m := range members {
		if m.UserID != msg.SenderID {
			targets = append(targets, m.UserID)
		}
	}
	return targets, nil
}

func (d *Dispatcher) pushMessage(ctx context.Context, msg *dbmysql.Message) {
	title := "New message"
	if name, err := d.directory.DisplayName(ctx, msg.SenderID); err == nil && name != "" {
		title = "Message from " + name
	}
	body := preview(msg)
	data := map[string]string{
		"message_id": msg.ID,
		"sender_id":  msg.SenderID,
	}

	if msg.GroupID == nil {
		target := *msg.RecipientID
		// A connected user may still be backgrounded, so the push fires
		// even when a live channel exists; operators can turn that off.
		if !d.opts.PushWhenConnected && d.registry.IsConnected(target) {
			return
		}
		if err := d.gateway.Push(ctx, target, title, body, data); err != nil {
			log.Printf("notification push to %s failed: %v", target, err)
		}
		return
	}

	targets, err := d.liveTargets(ctx, msg)
	if err != nil {
		log.Printf("group push: resolving members for %s: %v", *msg.GroupID, err)
		return
	}
	data["group_id"] = *msg.GroupID

	// Batch under one overall timeout: one slow device cannot stall the
	// rest, and leftovers are abandoned, not errors.
	batchCtx, cancel := context.WithTimeout(ctx, d.opts.GroupPushTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, target := range targets {
		if !d.opts.PushWhenConnected && d.registry.IsConnected(target) {
			continue
		}
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			if err := d.gateway.Push(batchCtx, target, title, body, data); err != nil {
				log.Printf("notification push to %s failed: %v", target, err)
			}
		}(target)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-batchCtx.Done():
		log.Printf("group push batch for %s timed out, abandoning remainder", msg.ID)
	}
}

// invalidateFor schedules one invalidation covering everyone whose derived
// conversation state the message touches.
func (d *Dispatcher) invalidateFor(msg *dbmysql.Message) {
	d.cachePool.submit(func(ctx context.Context) {
		targets, err := d.liveTargets(ctx, msg)
		if err != nil {
			log.Printf("cache invalidation: resolving targets for %s: %v", msg.ID, err)
			targets = nil
		}

		now := time.Now()
		for _, id := range append(targets, msg.SenderID) {
			d.cache.Invalidate(id)
			d.bus.Publish(bus.Event{
				Kind:      bus.KindUnreadUpdate,
				Timestamp: now,
				Payload:   bus.UnreadUpdate{UserID: id},
			})
		}
	})
}

func preview(msg *dbmysql.Message) string {
	switch msg.Type {
	case common.TypeText:
		if len(msg.Content) > 80 {
			return msg.Content[:80] + "…"
		}
		return msg.Content
	case common.TypeImage:
		return "📷 Photo"
	case common.TypeVideo:
		return "🎬 Video"
	case common.TypeAudio:
		return "🎤 Voice message"
	case common.TypeDocument:
		return "📄 Document"
	case common.TypeLocation:
		return "📍 Location"
	case common.TypeContact:
		return "👤 Contact"
	case common.TypeSticker:
		return "Sticker"
	}
	return "New message"
}
