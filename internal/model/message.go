package model

import "time"

// Message is one chat message. Rows are immutable once created; CreatedAt
// is assigned by the server so ordering does not depend on client clocks.
// Ties on CreatedAt are broken by ID (insertion order).
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;not null;index" json:"conversationId"`
	SenderUID      string    `gorm:"column:sender_uid;size:128;not null;index" json:"senderId"`
	Text           string    `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

func (Message) TableName() string {
	return "messages"
}
