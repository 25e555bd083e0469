// Package chat implements the message and conversation state machine for
// direct and group scopes: sending, read receipts, reactions, recall windows,
// deletion and forward provenance.
package chat

import (
	"sort"
	"strings"
	"time"
)

// RecallPlaceholder replaces the content of a recalled message.
const RecallPlaceholder = "This message has been recalled"

// ReactionPolicy controls what a second reaction from the same identity does.
type ReactionPolicy int

const (
	// ReactionReplace keeps exactly one reaction per identity; submitting the
	// same value again is a no-op replace.
	ReactionReplace ReactionPolicy = iota
	// ReactionToggle removes the identity's reaction when the same value is
	// submitted again.
	ReactionToggle
)

// DeletePolicy controls whether delete removes the message or flags it.
type DeletePolicy int

const (
	// DeleteHard erases the message from its thread entirely.
	DeleteHard DeletePolicy = iota
	// DeleteSoft keeps the message with IsDeleted set.
	DeleteSoft
)

// ScopeKind distinguishes the two message scopes.
type ScopeKind int

const (
	ScopeDirect ScopeKind = iota
	ScopeGroup
)

// Scope addresses a message thread: a two-party conversation (Peer relative
// to the acting identity) or a group.
type Scope struct {
	Kind    ScopeKind
	Peer    string // direct: the other participant
	GroupID string // group: the group id
}

func DirectScope(peer string) Scope   { return Scope{Kind: ScopeDirect, Peer: peer} }
func GroupScope(groupID string) Scope { return Scope{Kind: ScopeGroup, GroupID: groupID} }

// Key returns the storage key for the scope as seen by actor: the canonical
// conversation key for direct threads, the group id otherwise.
func (s Scope) Key(actor string) string {
	if s.Kind == ScopeGroup {
		return s.GroupID
	}
	return ConversationKey(actor, s.Peer)
}

// ConversationKey derives the deterministic two-party thread key. Both
// directions resolve to the same key because the participants are sorted.
func ConversationKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// Draft is the client-supplied portion of a new message.
type Draft struct {
	Content  string
	Type     string
	FileURL  string
	FileName string
	FileSize int64
	FileType string
}

// Config carries the state machine policies. Direct and group scopes run
// different reaction and delete policies; both are named here rather than
// hardcoded at the call sites.
type Config struct {
	RecallWindow    time.Duration
	DirectReactions ReactionPolicy
	GroupReactions  ReactionPolicy
	DirectDeletes   DeletePolicy
	GroupDeletes    DeletePolicy
}

// DefaultConfig matches the documented behaviour: 2 minute recall window,
// replace reactions in direct threads, toggle in groups, hard delete in
// direct threads, soft delete in groups.
func DefaultConfig() Config {
	return Config{
		RecallWindow:    2 * time.Minute,
		DirectReactions: ReactionReplace,
		GroupReactions:  ReactionToggle,
		DirectDeletes:   DeleteHard,
		GroupDeletes:    DeleteSoft,
	}
}
