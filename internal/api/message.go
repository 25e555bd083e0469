package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gochat/internal/chat"
)

type MessageHandler struct {
	chats chat.Service
}

func NewMessageHandler(chats chat.Service) *MessageHandler {
	return &MessageHandler{chats: chats}
}

// History returns the full direct thread with a peer, oldest first.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chats.History(r.Context(), identityFrom(r), mux.Vars(r)["peerEmail"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// GroupHistory returns a page of group messages; ?limit and ?before page
// backwards from the newest message.
func (h *MessageHandler) GroupHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	beforeID := r.URL.Query().Get("before")

	msgs, err := h.chats.GroupHistory(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], limit, beforeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}
