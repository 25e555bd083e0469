package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"gochat/internal/gateway"
	"gochat/internal/group"
	"gochat/internal/store"
)

type GroupHandler struct {
	groups group.Service
	gw     *gateway.Gateway
}

func NewGroupHandler(groups group.Service, gw *gateway.Gateway) *GroupHandler {
	return &GroupHandler{groups: groups, gw: gw}
}

type createGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
	Members     []string `json:"members,omitempty"`
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	actor := identityFrom(r)
	grp, err := h.groups.Create(r.Context(), actor, req.Name, req.Description, req.Avatar, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}

	// Every invited member that made it in learns about the group right away.
	for _, member := range grp.Members {
		if member != actor {
			h.gw.Notify(member, gateway.EvtGroupCreated, grp)
		}
	}
	writeJSON(w, http.StatusCreated, grp)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	grp, err := h.groups.Get(r.Context(), identityFrom(r), mux.Vars(r)["groupId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grp)
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.groups.ListFor(r.Context(), identityFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []*store.Group{}
	}
	writeJSON(w, http.StatusOK, list)
}

type updateGroupRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateGroupRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grp, err := h.groups.Update(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], req.Name, req.Description, req.Avatar)
	if err != nil {
		writeError(w, err)
		return
	}
	h.gw.NotifyMany(grp.Members, gateway.EvtGroupMembersUpdated, grp)
	writeJSON(w, http.StatusOK, grp)
}

type memberRequest struct {
	Email string `json:"email"`
}

func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grp, err := h.groups.AddMember(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	h.gw.Notify(req.Email, gateway.EvtGroupJoined, grp)
	h.gw.NotifyMany(grp.Members, gateway.EvtGroupMembersUpdated, grp)
	writeJSON(w, http.StatusOK, grp)
}

func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grp, err := h.groups.RemoveMember(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	h.gw.NotifyMany(grp.Members, gateway.EvtGroupMembersUpdated, grp)
	// The removed member gets a fresh group list instead of membership detail
	// they no longer have access to.
	h.notifyGroupList(r, req.Email)
	writeJSON(w, http.StatusOK, grp)
}

func (h *GroupHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grp, err := h.groups.AddAdmin(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	h.gw.NotifyMany(grp.Members, gateway.EvtGroupMembersUpdated, grp)
	writeJSON(w, http.StatusOK, grp)
}

func (h *GroupHandler) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grp, err := h.groups.RemoveAdmin(r.Context(), identityFrom(r), mux.Vars(r)["groupId"], req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	h.gw.NotifyMany(grp.Members, gateway.EvtGroupMembersUpdated, grp)
	writeJSON(w, http.StatusOK, grp)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["groupId"]
	actor := identityFrom(r)

	grp, err := h.groups.Get(r.Context(), actor, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.groups.Delete(r.Context(), actor, groupID); err != nil {
		writeError(w, err)
		return
	}

	for _, member := range grp.Members {
		h.notifyGroupList(r, member)
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *GroupHandler) notifyGroupList(r *http.Request, email string) {
	list, err := h.groups.ListFor(r.Context(), email)
	if err != nil {
		return
	}
	h.gw.Notify(email, gateway.EvtGroupList, list)
}
