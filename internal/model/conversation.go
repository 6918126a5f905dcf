package model

import (
	"strings"
	"time"
)

// Participant is a denormalized snapshot of one side of a conversation,
// taken when the conversation is created. It goes stale if the user later
// changes their profile.
type Participant struct {
	UID         string  `json:"uid"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// Conversation is a chat thread between exactly two users. A pair of users
// shares one conversation no matter how many listings they discuss: the
// listing context is overwritten (last write wins) when they move on to a
// different listing.
//
// PairKey is the participant UIDs joined in lexicographic order and carries
// a uniqueness constraint, so concurrent first-contact creates cannot
// produce duplicates. Participants A and B are stored in that same order.
type Conversation struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PairKey    string  `gorm:"column:pair_key;size:260;not null;uniqueIndex:uk_conversations_pair_key" json:"-"`
	UserAUID   string  `gorm:"column:user_a_uid;size:128;not null;index" json:"-"`
	UserAName  string  `gorm:"column:user_a_name;size:120" json:"-"`
	UserAPhoto *string `gorm:"column:user_a_photo;size:512" json:"-"`
	UserBUID   string  `gorm:"column:user_b_uid;size:128;not null;index" json:"-"`
	UserBName  string  `gorm:"column:user_b_name;size:120" json:"-"`
	UserBPhoto *string `gorm:"column:user_b_photo;size:512" json:"-"`

	ListingID    uint64 `gorm:"column:listing_id" json:"listingId"`
	ListingTitle string `gorm:"size:120" json:"listingTitle"`

	LastMessageText      string     `gorm:"type:text" json:"lastMessage"`
	LastMessageSenderUID string     `gorm:"column:last_message_sender_uid;size:128" json:"lastMessageBy"`
	LastMessageAt        *time.Time `gorm:"column:last_message_at;index" json:"lastMessageTimestamp"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// PairKeyFor normalizes an unordered participant pair into the composite
// lookup key.
func PairKeyFor(uid1, uid2 string) string {
	if uid1 > uid2 {
		uid1, uid2 = uid2, uid1
	}
	return uid1 + ":" + uid2
}

// Participants returns both snapshots in stored order.
func (c *Conversation) Participants() []Participant {
	return []Participant{
		{UID: c.UserAUID, DisplayName: c.UserAName, PhotoURL: c.UserAPhoto},
		{UID: c.UserBUID, DisplayName: c.UserBName, PhotoURL: c.UserBPhoto},
	}
}

// HasParticipant reports whether uid is one of the two participants.
func (c *Conversation) HasParticipant(uid string) bool {
	return uid != "" && (c.UserAUID == uid || c.UserBUID == uid)
}

// SetParticipants stores the two snapshots in pair-key order and fills
// PairKey.
func (c *Conversation) SetParticipants(p1, p2 Participant) {
	if strings.Compare(p1.UID, p2.UID) > 0 {
		p1, p2 = p2, p1
	}
	c.UserAUID, c.UserAName, c.UserAPhoto = p1.UID, p1.DisplayName, p1.PhotoURL
	c.UserBUID, c.UserBName, c.UserBPhoto = p2.UID, p2.DisplayName, p2.PhotoURL
	c.PairKey = c.UserAUID + ":" + c.UserBUID
}
