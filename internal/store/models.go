package store

import (
	"time"
)

// Message status values. Once a message is recalled no further transition is
// allowed.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusRecalled  = "recalled"
)

// Message content types
const (
	TypeText  = "text"
	TypeFile  = "file"
	TypeImage = "image"
	TypeEmoji = "emoji"
)

type User struct {
	Email    string `json:"email" bson:"_id"`
	FullName string `json:"fullName" bson:"fullName"`
	Avatar   string `json:"avatar,omitempty" bson:"avatar,omitempty"`
	// Serialized because the MySQL backend persists users as JSON documents;
	// handlers blank it before writing a response.
	PasswordHash string    `json:"passwordHash,omitempty" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Reaction is one identity's reaction to a message. Each identity owns at
// most one entry per message.
type Reaction struct {
	SenderEmail string    `json:"senderEmail" bson:"senderEmail"`
	Reaction    string    `json:"reaction" bson:"reaction"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
}

// Message is the shared shape for direct and group messages. ScopeID is the
// canonical conversation key for direct messages and the group id for group
// messages.
type Message struct {
	MessageID     string     `json:"messageId" bson:"messageId"`
	ScopeID       string     `json:"scopeId" bson:"scopeId"`
	SenderEmail   string     `json:"senderEmail" bson:"senderEmail"`
	ReceiverEmail string     `json:"receiverEmail,omitempty" bson:"receiverEmail,omitempty"`
	Content       string     `json:"content" bson:"content"`
	Type          string     `json:"type" bson:"type"`
	FileURL       string     `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	FileName      string     `json:"fileName,omitempty" bson:"fileName,omitempty"`
	FileSize      int64      `json:"fileSize,omitempty" bson:"fileSize,omitempty"`
	FileType      string     `json:"fileType,omitempty" bson:"fileType,omitempty"`
	Status        string     `json:"status" bson:"status"`
	IsDeleted     bool       `json:"isDeleted" bson:"isDeleted"`
	IsRecalled    bool       `json:"isRecalled" bson:"isRecalled"`
	Reactions     []Reaction `json:"reactions,omitempty" bson:"reactions,omitempty"`

	// Forward provenance. A forwarded message is a new message with a fresh
	// id; mutating it never touches the original.
	IsForwarded       bool   `json:"isForwarded,omitempty" bson:"isForwarded,omitempty"`
	OriginalMessageID string `json:"originalMessageId,omitempty" bson:"originalMessageId,omitempty"`
	OriginalScopeID   string `json:"originalScopeId,omitempty" bson:"originalScopeId,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Conversation is the canonical two-party thread. The id derives from both
// participant emails in sorted order so either direction resolves to the same
// document.
type Conversation struct {
	ConversationID string    `json:"conversationId" bson:"_id"`
	Participants   []string  `json:"participants" bson:"participants"`
	Messages       []Message `json:"messages" bson:"messages"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Group struct {
	GroupID     string    `json:"groupId" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Avatar      string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatorID   string    `json:"creatorId" bson:"creatorId"`
	Members     []string  `json:"members" bson:"members"`
	Admins      []string  `json:"admins" bson:"admins"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// GroupMessages holds a group's ordered message list as one document.
type GroupMessages struct {
	GroupID  string    `json:"groupId" bson:"_id"`
	Messages []Message `json:"messages" bson:"messages"`
}

type FriendEntry struct {
	Email    string    `json:"email" bson:"email"`
	FullName string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar   string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Since    time.Time `json:"since" bson:"since"`
}

type FriendRequest struct {
	Email  string    `json:"email" bson:"email"`
	SentAt time.Time `json:"sentAt" bson:"sentAt"`
}

// FriendLists is one identity's view of the friend graph: accepted friends
// plus the two pending directions. The mirrored entry lives in the
// counterpart's document.
type FriendLists struct {
	Email    string          `json:"email" bson:"_id"`
	Friends  []FriendEntry   `json:"friends" bson:"friends"`
	Sent     []FriendRequest `json:"sent" bson:"sent"`
	Received []FriendRequest `json:"received" bson:"received"`
}

// HasMember reports whether email is in the group's member set.
func (g *Group) HasMember(email string) bool {
	for _, m := range g.Members {
		if m == email {
			return true
		}
	}
	return false
}

// HasAdmin reports whether email is in the group's admin set.
func (g *Group) HasAdmin(email string) bool {
	for _, a := range g.Admins {
		if a == email {
			return true
		}
	}
	return false
}
