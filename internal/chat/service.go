package chat

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gochat/internal/common"
	"gochat/internal/store"
)

// Service is the message/conversation state machine exposed to the gateway
// and the HTTP handlers. Every mutating operation re-fetches authoritative
// state before its permission check, applies the mutation, persists, and only
// then reports success.
type Service interface {
	Send(ctx context.Context, sender string, scope Scope, draft Draft) (*store.Message, error)
	MarkRead(ctx context.Context, actor, peer, messageID string) (*store.Message, error)
	React(ctx context.Context, actor string, scope Scope, messageID, reaction string) (*store.Message, error)
	Recall(ctx context.Context, actor string, scope Scope, messageID string) (*store.Message, error)
	Delete(ctx context.Context, actor string, scope Scope, messageID string) (*store.Message, error)
	Forward(ctx context.Context, actor string, src Scope, messageID string, dst Scope) (*store.Message, error)
	History(ctx context.Context, actor, peer string) ([]store.Message, error)
	GroupHistory(ctx context.Context, actor, groupID string, limit int, beforeID string) ([]store.Message, error)
}

type service struct {
	users     store.UserStore
	convs     store.ConversationStore
	groups    store.GroupStore
	groupMsgs store.GroupMessageStore
	cfg       Config
}

func NewService(users store.UserStore, convs store.ConversationStore, groups store.GroupStore, groupMsgs store.GroupMessageStore, cfg Config) Service {
	return &service{users: users, convs: convs, groups: groups, groupMsgs: groupMsgs, cfg: cfg}
}

func (s *service) newMessage(sender string, scopeKey string, draft Draft) store.Message {
	now := time.Now().UTC()
	msgType := draft.Type
	if msgType == "" {
		msgType = store.TypeText
	}
	return store.Message{
		MessageID:   uuid.NewString(),
		ScopeID:     scopeKey,
		SenderEmail: sender,
		Content:     draft.Content,
		Type:        msgType,
		FileURL:     draft.FileURL,
		FileName:    draft.FileName,
		FileSize:    draft.FileSize,
		FileType:    draft.FileType,
		Status:      store.StatusSent,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validateDraft(draft Draft) error {
	switch draft.Type {
	case "", store.TypeText, store.TypeEmoji:
		if draft.Content == "" {
			return fmt.Errorf("message content is required: %w", common.ErrInvalid)
		}
	case store.TypeFile, store.TypeImage:
		if draft.FileURL == "" {
			return fmt.Errorf("file url is required for %s messages: %w", draft.Type, common.ErrInvalid)
		}
	default:
		return fmt.Errorf("unknown message type %q: %w", draft.Type, common.ErrInvalid)
	}
	return nil
}

func (s *service) Send(ctx context.Context, sender string, scope Scope, draft Draft) (*store.Message, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	if scope.Kind == ScopeGroup {
		group, err := s.groups.GetGroup(ctx, scope.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(sender) {
			return nil, fmt.Errorf("sender is not a member of group %s: %w", scope.GroupID, common.ErrPermission)
		}

		msgs, err := s.groupMsgs.GetGroupMessages(ctx, scope.GroupID)
		if err != nil {
			return nil, err
		}
		msg := s.newMessage(sender, scope.GroupID, draft)
		msgs = append(msgs, msg)
		if err := s.groupMsgs.UpdateGroupMessages(ctx, scope.GroupID, msgs); err != nil {
			return nil, err
		}
		return &msg, nil
	}

	// Direct: both parties must be known identities.
	if _, err := s.users.GetUserByEmail(ctx, scope.Peer); err != nil {
		return nil, err
	}

	key := scope.Key(sender)
	conv, err := s.convs.GetConversation(ctx, key)
	if err != nil {
		if !common.IsNotFound(err) {
			return nil, err
		}
		now := time.Now().UTC()
		conv = &store.Conversation{
			ConversationID: key,
			Participants:   participants(sender, scope.Peer),
			CreatedAt:      now,
		}
	}

	msg := s.newMessage(sender, key, draft)
	msg.ReceiverEmail = scope.Peer
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	if err := s.convs.PutConversation(ctx, conv); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *service) MarkRead(ctx context.Context, actor, peer, messageID string) (*store.Message, error) {
	key := ConversationKey(actor, peer)
	conv, err := s.convs.GetConversation(ctx, key)
	if err != nil {
		return nil, err
	}

	i, ok := findMessage(conv.Messages, messageID)
	if !ok {
		return nil, fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	msg := &conv.Messages[i]
	if msg.ReceiverEmail != actor {
		return nil, fmt.Errorf("only the receiver can mark a message read: %w", common.ErrPermission)
	}
	if msg.IsRecalled {
		return nil, fmt.Errorf("recalled messages accept no status transition: %w", common.ErrPolicy)
	}

	msg.Status = store.StatusRead
	msg.UpdatedAt = time.Now().UTC()
	if err := s.convs.PutConversation(ctx, conv); err != nil {
		return nil, err
	}
	out := *msg
	return &out, nil
}

func (s *service) React(ctx context.Context, actor string, scope Scope, messageID, reaction string) (*store.Message, error) {
	if reaction == "" {
		return nil, fmt.Errorf("reaction value is required: %w", common.ErrInvalid)
	}

	thread, err := s.loadThread(ctx, actor, scope)
	if err != nil {
		return nil, err
	}
	i, ok := findMessage(thread.messages, messageID)
	if !ok || thread.messages[i].IsDeleted {
		return nil, fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	msg := &thread.messages[i]
	if msg.IsRecalled {
		return nil, fmt.Errorf("recalled messages cannot be reacted to: %w", common.ErrPolicy)
	}

	policy := s.cfg.DirectReactions
	if scope.Kind == ScopeGroup {
		policy = s.cfg.GroupReactions
	}
	applyReaction(msg, actor, reaction, policy)
	msg.UpdatedAt = time.Now().UTC()

	if err := thread.save(ctx); err != nil {
		return nil, err
	}
	out := *msg
	return &out, nil
}

// applyReaction enforces the at-most-one-reaction-per-identity rule under the
// scope's policy.
func applyReaction(msg *store.Message, actor, reaction string, policy ReactionPolicy) {
	now := time.Now().UTC()
	for i, r := range msg.Reactions {
		if r.SenderEmail != actor {
			continue
		}
		if policy == ReactionToggle && r.Reaction == reaction {
			msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			return
		}
		msg.Reactions[i] = store.Reaction{SenderEmail: actor, Reaction: reaction, Timestamp: now}
		return
	}
	msg.Reactions = append(msg.Reactions, store.Reaction{SenderEmail: actor, Reaction: reaction, Timestamp: now})
}

func (s *service) Recall(ctx context.Context, actor string, scope Scope, messageID string) (*store.Message, error) {
	thread, err := s.loadThread(ctx, actor, scope)
	if err != nil {
		return nil, err
	}
	i, ok := findMessage(thread.messages, messageID)
	if !ok || thread.messages[i].IsDeleted {
		return nil, fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	msg := &thread.messages[i]
	if msg.IsRecalled {
		return nil, fmt.Errorf("message is already recalled: %w", common.ErrPolicy)
	}

	adminOverride := scope.Kind == ScopeGroup && thread.group.HasAdmin(actor)
	if msg.SenderEmail != actor && !adminOverride {
		return nil, fmt.Errorf("only the sender can recall a message: %w", common.ErrPermission)
	}
	if !adminOverride && time.Since(msg.CreatedAt) > s.cfg.RecallWindow {
		return nil, fmt.Errorf("recall window of %s exceeded: %w", s.cfg.RecallWindow, common.ErrPolicy)
	}

	msg.Status = store.StatusRecalled
	msg.IsRecalled = true
	msg.Content = RecallPlaceholder
	msg.FileURL = ""
	msg.FileName = ""
	msg.FileSize = 0
	msg.FileType = ""
	msg.UpdatedAt = time.Now().UTC()

	if err := thread.save(ctx); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"messageId": messageID,
		"actor":     actor,
		"admin":     adminOverride,
	}).Info("message recalled")

	out := *msg
	return &out, nil
}

func (s *service) Delete(ctx context.Context, actor string, scope Scope, messageID string) (*store.Message, error) {
	thread, err := s.loadThread(ctx, actor, scope)
	if err != nil {
		return nil, err
	}
	i, ok := findMessage(thread.messages, messageID)
	if !ok || thread.messages[i].IsDeleted {
		return nil, fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	msg := thread.messages[i]

	if scope.Kind == ScopeGroup {
		if msg.SenderEmail != actor && !thread.group.HasAdmin(actor) {
			return nil, fmt.Errorf("only the sender or a group admin can delete this message: %w", common.ErrPermission)
		}
	} else if msg.SenderEmail != actor {
		return nil, fmt.Errorf("only the sender can delete this message: %w", common.ErrPermission)
	}

	policy := s.cfg.DirectDeletes
	if scope.Kind == ScopeGroup {
		policy = s.cfg.GroupDeletes
	}
	switch policy {
	case DeleteHard:
		thread.messages = append(thread.messages[:i], thread.messages[i+1:]...)
	case DeleteSoft:
		thread.messages[i].IsDeleted = true
		thread.messages[i].UpdatedAt = time.Now().UTC()
		msg = thread.messages[i]
	}

	if err := thread.save(ctx); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *service) Forward(ctx context.Context, actor string, src Scope, messageID string, dst Scope) (*store.Message, error) {
	srcThread, err := s.loadThread(ctx, actor, src)
	if err != nil {
		return nil, err
	}
	i, ok := findMessage(srcThread.messages, messageID)
	if !ok || srcThread.messages[i].IsDeleted {
		return nil, fmt.Errorf("message %s: %w", messageID, common.ErrNotFound)
	}
	original := srcThread.messages[i]
	if original.IsRecalled {
		return nil, fmt.Errorf("recalled messages cannot be forwarded: %w", common.ErrPolicy)
	}

	// The forwarded copy is a brand-new message with an independent
	// lifecycle; only content and provenance carry over.
	forwarded, err := s.Send(ctx, actor, dst, Draft{
		Content:  original.Content,
		Type:     original.Type,
		FileURL:  original.FileURL,
		FileName: original.FileName,
		FileSize: original.FileSize,
		FileType: original.FileType,
	})
	if err != nil {
		return nil, err
	}

	forwarded.IsForwarded = true
	forwarded.OriginalMessageID = original.MessageID
	forwarded.OriginalScopeID = src.Key(actor)
	if err := s.amend(ctx, actor, dst, forwarded); err != nil {
		return nil, err
	}
	return forwarded, nil
}

// amend rewrites an already-persisted message in place (used to attach
// provenance to a freshly created forward copy).
func (s *service) amend(ctx context.Context, actor string, scope Scope, msg *store.Message) error {
	thread, err := s.loadThread(ctx, actor, scope)
	if err != nil {
		return err
	}
	i, ok := findMessage(thread.messages, msg.MessageID)
	if !ok {
		return fmt.Errorf("message %s: %w", msg.MessageID, common.ErrNotFound)
	}
	thread.messages[i] = *msg
	return thread.save(ctx)
}

func (s *service) History(ctx context.Context, actor, peer string) ([]store.Message, error) {
	key := ConversationKey(actor, peer)
	conv, err := s.convs.GetConversation(ctx, key)
	if common.IsNotFound(err) {
		return []store.Message{}, nil
	}
	if err != nil {
		return nil, err
	}

	msgs := append([]store.Message(nil), conv.Messages...)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.Before(msgs[j].CreatedAt) })
	return msgs, nil
}

func (s *service) GroupHistory(ctx context.Context, actor, groupID string, limit int, beforeID string) ([]store.Message, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(actor) {
		return nil, fmt.Errorf("not a member of group %s: %w", groupID, common.ErrPermission)
	}

	msgs, err := s.groupMsgs.GetGroupMessages(ctx, groupID)
	if err != nil {
		return nil, err
	}

	end := len(msgs)
	if beforeID != "" {
		if i, ok := findMessage(msgs, beforeID); ok {
			end = i
		}
	}
	start := 0
	if limit > 0 && end-limit > 0 {
		start = end - limit
	}
	return append([]store.Message(nil), msgs[start:end]...), nil
}

// thread abstracts the two storage shapes behind one load/mutate/save cycle.
type thread struct {
	messages []store.Message
	group    *store.Group // nil for direct scopes
	save     func(ctx context.Context) error
}

func (s *service) loadThread(ctx context.Context, actor string, scope Scope) (*thread, error) {
	if scope.Kind == ScopeGroup {
		group, err := s.groups.GetGroup(ctx, scope.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.HasMember(actor) {
			return nil, fmt.Errorf("not a member of group %s: %w", scope.GroupID, common.ErrPermission)
		}
		msgs, err := s.groupMsgs.GetGroupMessages(ctx, scope.GroupID)
		if err != nil {
			return nil, err
		}
		t := &thread{messages: msgs, group: group}
		t.save = func(ctx context.Context) error {
			return s.groupMsgs.UpdateGroupMessages(ctx, scope.GroupID, t.messages)
		}
		return t, nil
	}

	conv, err := s.convs.GetConversation(ctx, scope.Key(actor))
	if err != nil {
		return nil, err
	}
	t := &thread{messages: conv.Messages}
	t.save = func(ctx context.Context) error {
		conv.Messages = t.messages
		conv.UpdatedAt = time.Now().UTC()
		return s.convs.PutConversation(ctx, conv)
	}
	return t, nil
}

func findMessage(msgs []store.Message, messageID string) (int, bool) {
	for i := range msgs {
		if msgs[i].MessageID == messageID {
			return i, true
		}
	}
	return 0, false
}

func participants(a, b string) []string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair
}
