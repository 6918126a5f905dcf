package chatsync

import "github.com/tharun06x/team-chanchal/internal/model"

// mergeMessages keeps the previous slice (and its identity) when the fetch
// brought nothing new, so consumers holding the old reference re-render
// only on real change. Messages are immutable and append-only, so an
// unchanged length with the same boundary ids means an unchanged list.
func mergeMessages(prev, next []model.Message) ([]model.Message, bool) {
	if len(next) == len(prev) {
		if len(prev) == 0 {
			return prev, false
		}
		if prev[0].ID == next[0].ID && prev[len(prev)-1].ID == next[len(next)-1].ID {
			return prev, false
		}
	}
	return next, true
}

// mergeConversations applies the same no-flicker rule to the conversation
// list. Unlike messages, an existing conversation can change in place
// (summary fields, listing context), so every row is compared.
func mergeConversations(prev, next []model.Conversation) ([]model.Conversation, bool) {
	if len(prev) != len(next) {
		return next, true
	}
	for i := range prev {
		if !sameConversation(&prev[i], &next[i]) {
			return next, true
		}
	}
	return prev, false
}

func sameConversation(a, b *model.Conversation) bool {
	if a.ID != b.ID || a.ListingID != b.ListingID || a.ListingTitle != b.ListingTitle {
		return false
	}
	if a.LastMessageText != b.LastMessageText || a.LastMessageSenderUID != b.LastMessageSenderUID {
		return false
	}
	switch {
	case a.LastMessageAt == nil && b.LastMessageAt == nil:
		return true
	case a.LastMessageAt == nil || b.LastMessageAt == nil:
		return false
	default:
		return a.LastMessageAt.Equal(*b.LastMessageAt)
	}
}
