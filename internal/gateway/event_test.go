package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"gochat/internal/common"
)

func TestDecodeIntentCoversEveryEvent(t *testing.T) {
	tests := []struct {
		event string
		data  string
		want  Intent
	}{
		{
			event: "sendMessage",
			data:  `{"receiverEmail":"bob@example.com","content":"hi"}`,
			want:  SendIntent{ReceiverEmail: "bob@example.com", Content: "hi"},
		},
		{
			event: "markRead",
			data:  `{"peerEmail":"alice@example.com","messageId":"m1"}`,
			want:  MarkReadIntent{PeerEmail: "alice@example.com", MessageID: "m1"},
		},
		{
			event: "typingStart",
			data:  `{"groupId":"g1"}`,
			want:  TypingIntent{GroupID: "g1", Active: true},
		},
		{
			event: "typingStop",
			data:  `{"receiverEmail":"bob@example.com"}`,
			want:  TypingIntent{ReceiverEmail: "bob@example.com"},
		},
		{
			event: "addReaction",
			data:  `{"groupId":"g1","messageId":"m1","reaction":"🎉"}`,
			want:  ReactIntent{GroupID: "g1", MessageID: "m1", Reaction: "🎉"},
		},
		{
			event: "recallMessage",
			data:  `{"peerEmail":"bob@example.com","messageId":"m1"}`,
			want:  RecallIntent{PeerEmail: "bob@example.com", MessageID: "m1"},
		},
		{
			event: "deleteMessage",
			data:  `{"groupId":"g1","messageId":"m1"}`,
			want:  DeleteIntent{GroupID: "g1", MessageID: "m1"},
		},
		{
			event: "forwardMessage",
			data:  `{"sourcePeerEmail":"bob@example.com","messageId":"m1","targetGroupId":"g1"}`,
			want:  ForwardIntent{SourcePeerEmail: "bob@example.com", MessageID: "m1", TargetGroupID: "g1"},
		},
		{
			event: "joinGroup",
			data:  `{"groupId":"g1"}`,
			want:  JoinGroupIntent{GroupID: "g1"},
		},
		{
			event: "leaveGroup",
			data:  `{"groupId":"g1"}`,
			want:  LeaveGroupIntent{GroupID: "g1"},
		},
		{
			event: "friendRequestSent",
			data:  `{"email":"bob@example.com"}`,
			want:  SendFriendRequestIntent{Email: "bob@example.com"},
		},
		{
			event: "friendRequestResponded",
			data:  `{"email":"bob@example.com","accept":true}`,
			want:  RespondFriendRequestIntent{Email: "bob@example.com", Accept: true},
		},
		{
			event: "friendRequestWithdrawn",
			data:  `{"email":"bob@example.com"}`,
			want:  WithdrawFriendRequestIntent{Email: "bob@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			got, err := DecodeIntent(Frame{Event: tt.event, Data: json.RawMessage(tt.data)})
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeIntentUnknownEvent(t *testing.T) {
	_, err := DecodeIntent(Frame{Event: "teleport"})
	require.ErrorIs(t, err, common.ErrInvalid)
}

func TestDecodeIntentMalformedPayload(t *testing.T) {
	_, err := DecodeIntent(Frame{Event: "sendMessage", Data: json.RawMessage(`{"content":42`)})
	require.ErrorIs(t, err, common.ErrInvalid)
}

func TestDecodeIntentEmptyPayload(t *testing.T) {
	got, err := DecodeIntent(Frame{Event: "typingStart"})
	require.NoError(t, err)
	require.Equal(t, TypingIntent{Active: true}, got)
}
