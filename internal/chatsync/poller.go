// Package chatsync implements the consumer side of chat freshness. There
// is no push channel: a viewer stays approximately up to date by
// re-fetching the conversation list and the active conversation's messages
// on fixed intervals. The package also pins down the two observable UI
// behaviors that depend on those fetches: flicker-free merging of
// unchanged message lists and the auto-scroll decision.
package chatsync

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tharun06x/team-chanchal/internal/model"
)

const (
	// DefaultConversationInterval is how often the conversation list is
	// re-fetched while any chat surface is open.
	DefaultConversationInterval = 5 * time.Second

	// DefaultMessageInterval is how often the active conversation's
	// messages are re-fetched. Shorter than the conversation interval
	// because message latency matters more.
	DefaultMessageInterval = 3 * time.Second

	// BottomThreshold is how close to the bottom (in display units) a
	// viewer must be for a new message to pull the view down.
	BottomThreshold = 200.0
)

// Fetcher reads server state. Implementations typically wrap the REST API.
type Fetcher interface {
	Conversations(ctx context.Context, userID string) ([]model.Conversation, error)
	Messages(ctx context.Context, conversationID uint64) ([]model.Message, error)
}

// Sender posts a new message.
type Sender interface {
	Send(ctx context.Context, conversationID uint64, senderUID, text string) error
}

type Config struct {
	ConversationInterval time.Duration
	MessageInterval      time.Duration
}

// Poller keeps an in-memory view of one user's conversations and the
// active conversation's messages. Snapshots are safe for concurrent reads;
// the fetch loop runs until Stop.
type Poller struct {
	fetcher Fetcher
	sender  Sender
	userID  string

	convInterval time.Duration
	msgInterval  time.Duration

	mu            sync.Mutex
	conversations []model.Conversation
	messages      []model.Message
	activeConv    uint64
	draft         string

	onConversations func([]model.Conversation)
	onMessages      func([]model.Message)

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(fetcher Fetcher, sender Sender, userID string, cfg Config) *Poller {
	if cfg.ConversationInterval == 0 {
		cfg.ConversationInterval = DefaultConversationInterval
	}
	if cfg.MessageInterval == 0 {
		cfg.MessageInterval = DefaultMessageInterval
	}
	return &Poller{
		fetcher:      fetcher,
		sender:       sender,
		userID:       userID,
		convInterval: cfg.ConversationInterval,
		msgInterval:  cfg.MessageInterval,
	}
}

// OnConversations registers a callback invoked only when the conversation
// list actually changed. Must be called before Start.
func (p *Poller) OnConversations(fn func([]model.Conversation)) {
	p.onConversations = fn
}

// OnMessages registers a callback invoked only when the active message
// list actually changed. Must be called before Start.
func (p *Poller) OnMessages(fn func([]model.Message)) {
	p.onMessages = fn
}

// Start begins polling. The conversation list and the active conversation
// (if any) are fetched eagerly before the first tick.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run(ctx)
}

// Stop halts polling and waits for the loop to exit. Timers live and die
// with the viewing surface; a stopped poller can be started again.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context) {
	defer p.wg.Done()

	p.fetchConversations(ctx)
	p.fetchMessages(ctx)

	convTicker := time.NewTicker(p.convInterval)
	defer convTicker.Stop()
	msgTicker := time.NewTicker(p.msgInterval)
	defer msgTicker.Stop()

	for {
		select {
		case <-convTicker.C:
			p.fetchConversations(ctx)
		case <-msgTicker.C:
			p.fetchMessages(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SetActive switches the message poll target. The previous conversation's
// messages are dropped so a stale thread never flashes up.
func (p *Poller) SetActive(conversationID uint64) {
	p.mu.Lock()
	if p.activeConv != conversationID {
		p.activeConv = conversationID
		p.messages = nil
	}
	p.mu.Unlock()
}

// Conversations returns the current snapshot.
func (p *Poller) Conversations() []model.Conversation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conversations
}

// Messages returns the current snapshot for the active conversation.
func (p *Poller) Messages() []model.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages
}

// SetDraft stores the text being composed.
func (p *Poller) SetDraft(text string) {
	p.mu.Lock()
	p.draft = text
	p.mu.Unlock()
}

// Draft returns the pending input text.
func (p *Poller) Draft() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// Send posts the current draft to the active conversation. The draft is
// cleared before the round trip completes and stays cleared on failure;
// the user resubmits by hand. The sent message is NOT inserted locally; it
// becomes visible when a later poll returns it.
func (p *Poller) Send(ctx context.Context) error {
	p.mu.Lock()
	text := p.draft
	conv := p.activeConv
	p.draft = ""
	p.mu.Unlock()

	if text == "" || conv == 0 {
		return nil
	}
	return p.sender.Send(ctx, conv, p.userID, text)
}

func (p *Poller) fetchConversations(ctx context.Context) {
	fetched, err := p.fetcher.Conversations(ctx, p.userID)
	if err != nil {
		log.WithError(err).Debug("conversation poll failed")
		return
	}

	p.mu.Lock()
	merged, changed := mergeConversations(p.conversations, fetched)
	p.conversations = merged
	cb := p.onConversations
	p.mu.Unlock()

	if changed && cb != nil {
		cb(merged)
	}
}

func (p *Poller) fetchMessages(ctx context.Context) {
	p.mu.Lock()
	conv := p.activeConv
	p.mu.Unlock()
	if conv == 0 {
		return
	}

	fetched, err := p.fetcher.Messages(ctx, conv)
	if err != nil {
		log.WithError(err).Debug("message poll failed")
		return
	}

	p.mu.Lock()
	if p.activeConv != conv {
		// Viewer switched threads mid-fetch; discard.
		p.mu.Unlock()
		return
	}
	merged, changed := mergeMessages(p.messages, fetched)
	p.messages = merged
	cb := p.onMessages
	p.mu.Unlock()

	if changed && cb != nil {
		cb(merged)
	}
}

// ShouldAutoScroll decides whether a newly appended message pulls the view
// to the bottom: yes when the viewer sent it, or when the viewer was
// already reading near the bottom. A viewer scrolled up through history is
// left alone.
func ShouldAutoScroll(viewerUID, newestSenderUID string, distanceFromBottom float64) bool {
	if viewerUID != "" && viewerUID == newestSenderUID {
		return true
	}
	return distanceFromBottom <= BottomThreshold
}
