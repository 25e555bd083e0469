package gateway

import (
	"encoding/json"
	"fmt"

	"gochat/internal/common"
)

// Frame is the wire envelope in both directions: a named event with a JSON
// payload. Client frames may carry an ackId that the matching ack echoes.
type Frame struct {
	Event string          `json:"event"`
	AckID int64           `json:"ackId,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is an outbound named event.
type ServerEvent struct {
	Event string      `json:"event"`
	AckID int64       `json:"ackId,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Server→client event names.
const (
	EvtAck                 = "ack"
	EvtMessage             = "message"
	EvtMessageRead         = "messageRead"
	EvtTyping              = "typing"
	EvtReactionUpdate      = "reactionUpdate"
	EvtMessageRecalled     = "messageRecalled"
	EvtMessageDeleted      = "messageDeleted"
	EvtFriendRequestUpdate = "friendRequestUpdate"
	EvtFriendListUpdate    = "friendListUpdate"
	EvtFriendStatusUpdate  = "friendStatusUpdate"
	EvtGroupList           = "groupList"
	EvtGroupCreated        = "groupCreated"
	EvtGroupJoined         = "groupJoined"
	EvtGroupMembersUpdated = "groupMembersUpdated"
)

// Intent is the closed set of client requests. Keeping it a tagged union
// (rather than a string-keyed callback table) means the dispatcher's type
// switch covers every event kind at compile time.
type Intent interface{ intent() }

// SendIntent carries a new direct (ReceiverEmail set) or group (GroupID set)
// message.
type SendIntent struct {
	ReceiverEmail string `json:"receiverEmail,omitempty"`
	GroupID       string `json:"groupId,omitempty"`
	Content       string `json:"content"`
	Type          string `json:"type,omitempty"`
	FileURL       string `json:"fileUrl,omitempty"`
	FileName      string `json:"fileName,omitempty"`
	FileSize      int64  `json:"fileSize,omitempty"`
	FileType      string `json:"fileType,omitempty"`
}

type MarkReadIntent struct {
	PeerEmail string `json:"peerEmail"`
	MessageID string `json:"messageId"`
}

// TypingIntent is ephemeral: no validation, no persistence, no ordering
// promise.
type TypingIntent struct {
	ReceiverEmail string `json:"receiverEmail,omitempty"`
	GroupID       string `json:"groupId,omitempty"`
	Active        bool   `json:"-"`
}

type ReactIntent struct {
	PeerEmail string `json:"peerEmail,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
}

type RecallIntent struct {
	PeerEmail string `json:"peerEmail,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	MessageID string `json:"messageId"`
}

type DeleteIntent struct {
	PeerEmail string `json:"peerEmail,omitempty"`
	GroupID   string `json:"groupId,omitempty"`
	MessageID string `json:"messageId"`
}

type ForwardIntent struct {
	SourcePeerEmail string `json:"sourcePeerEmail,omitempty"`
	SourceGroupID   string `json:"sourceGroupId,omitempty"`
	MessageID       string `json:"messageId"`
	TargetPeerEmail string `json:"targetPeerEmail,omitempty"`
	TargetGroupID   string `json:"targetGroupId,omitempty"`
}

type JoinGroupIntent struct {
	GroupID string `json:"groupId"`
}

type LeaveGroupIntent struct {
	GroupID string `json:"groupId"`
}

type SendFriendRequestIntent struct {
	Email string `json:"email"`
}

type RespondFriendRequestIntent struct {
	Email  string `json:"email"`
	Accept bool   `json:"accept"`
}

type WithdrawFriendRequestIntent struct {
	Email string `json:"email"`
}

func (SendIntent) intent()                  {}
func (MarkReadIntent) intent()              {}
func (TypingIntent) intent()                {}
func (ReactIntent) intent()                 {}
func (RecallIntent) intent()                {}
func (DeleteIntent) intent()                {}
func (ForwardIntent) intent()               {}
func (JoinGroupIntent) intent()             {}
func (LeaveGroupIntent) intent()            {}
func (SendFriendRequestIntent) intent()     {}
func (RespondFriendRequestIntent) intent()  {}
func (WithdrawFriendRequestIntent) intent() {}

// DecodeIntent maps a client frame onto the tagged union.
func DecodeIntent(f Frame) (Intent, error) {
	decode := func(v interface{}) error {
		if len(f.Data) == 0 {
			return nil
		}
		if err := json.Unmarshal(f.Data, v); err != nil {
			return fmt.Errorf("malformed %s payload: %w", f.Event, common.ErrInvalid)
		}
		return nil
	}

	var (
		in  Intent
		err error
	)
	switch f.Event {
	case "sendMessage":
		var v SendIntent
		err, in = decode(&v), v
	case "markRead":
		var v MarkReadIntent
		err, in = decode(&v), v
	case "typingStart":
		var v TypingIntent
		err = decode(&v)
		v.Active = true
		in = v
	case "typingStop":
		var v TypingIntent
		err, in = decode(&v), v
	case "addReaction":
		var v ReactIntent
		err, in = decode(&v), v
	case "recallMessage":
		var v RecallIntent
		err, in = decode(&v), v
	case "deleteMessage":
		var v DeleteIntent
		err, in = decode(&v), v
	case "forwardMessage":
		var v ForwardIntent
		err, in = decode(&v), v
	case "joinGroup":
		var v JoinGroupIntent
		err, in = decode(&v), v
	case "leaveGroup":
		var v LeaveGroupIntent
		err, in = decode(&v), v
	case "friendRequestSent":
		var v SendFriendRequestIntent
		err, in = decode(&v), v
	case "friendRequestResponded":
		var v RespondFriendRequestIntent
		err, in = decode(&v), v
	case "friendRequestWithdrawn":
		var v WithdrawFriendRequestIntent
		err, in = decode(&v), v
	default:
		return nil, fmt.Errorf("unknown event %q: %w", f.Event, common.ErrInvalid)
	}
	if err != nil {
		return nil, err
	}
	return in, nil
}

// AckError is the error half of an acknowledgment.
type AckError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Ack is returned to the originating connection for every intent.
type Ack struct {
	OK    bool        `json:"ok"`
	Error *AckError   `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}
