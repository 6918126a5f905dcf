package chatsync

import (
	"testing"
	"time"

	"github.com/tharun06x/team-chanchal/internal/model"
)

func msgs(ids ...uint64) []model.Message {
	out := make([]model.Message, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Message{ID: id, Text: "m"})
	}
	return out
}

func TestMergeMessages(t *testing.T) {
	tests := []struct {
		name        string
		prev, next  []model.Message
		wantChanged bool
	}{
		{"both empty", msgs(), msgs(), false},
		{"unchanged", msgs(1, 2, 3), msgs(1, 2, 3), false},
		{"appended", msgs(1, 2), msgs(1, 2, 3), true},
		{"first fetch", nil, msgs(1), true},
		{"different window same length", msgs(1, 2, 3), msgs(2, 3, 4), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := mergeMessages(tt.prev, tt.next)
			if changed != tt.wantChanged {
				t.Fatalf("changed=%v want=%v", changed, tt.wantChanged)
			}
			if !changed && len(tt.prev) > 0 && &got[0] != &tt.prev[0] {
				t.Fatalf("unchanged fetch must preserve the previous slice identity")
			}
			if changed && len(tt.next) > 0 && &got[0] != &tt.next[0] {
				t.Fatalf("changed fetch must adopt the fetched slice")
			}
		})
	}
}

func TestMergeConversations(t *testing.T) {
	at := time.Now()
	base := func() []model.Conversation {
		return []model.Conversation{
			{ID: 1, ListingID: 5, ListingTitle: "A", LastMessageText: "hi", LastMessageSenderUID: "u1", LastMessageAt: &at},
			{ID: 2, ListingID: 6, ListingTitle: "B"},
		}
	}

	prev := base()
	if _, changed := mergeConversations(prev, base()); changed {
		t.Fatalf("identical lists must not report change")
	}

	bumped := base()
	later := at.Add(time.Second)
	bumped[1].LastMessageText = "new"
	bumped[1].LastMessageAt = &later
	got, changed := mergeConversations(prev, bumped)
	if !changed {
		t.Fatalf("summary change must be reported")
	}
	if &got[0] != &bumped[0] {
		t.Fatalf("changed fetch must adopt the fetched slice")
	}

	relisted := base()
	relisted[0].ListingID = 7
	relisted[0].ListingTitle = "C"
	if _, changed := mergeConversations(prev, relisted); !changed {
		t.Fatalf("listing context change must be reported")
	}

	if _, changed := mergeConversations(prev, base()[:1]); !changed {
		t.Fatalf("length change must be reported")
	}
}
