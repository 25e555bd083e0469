package api

import (
	"net/http"

	"gochat/internal/friend"
)

type FriendHandler struct {
	friends friend.Service
}

func NewFriendHandler(friends friend.Service) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// Lists returns the caller's friends plus pending requests in both
// directions. Reading through the service runs its consistency repair pass.
func (h *FriendHandler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.friends.Lists(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}
