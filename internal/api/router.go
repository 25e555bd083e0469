package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gochat/internal/common"
	"gochat/internal/gateway"
)

// NewRouter assembles the full HTTP surface: public auth endpoints, the
// authenticated REST API, the websocket upgrade endpoint (which carries its
// own token check), health and metrics.
func NewRouter(auth *AuthHandler, groups *GroupHandler, messages *MessageHandler, friends *FriendHandler, gw *gateway.Gateway, tokens *common.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", auth.Login).Methods(http.MethodPost)

	r.HandleFunc("/ws", gw.HandleWS)

	s := r.PathPrefix("/api").Subrouter()
	s.Use(RequireAuth(tokens))

	s.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet)

	s.HandleFunc("/groups", groups.Create).Methods(http.MethodPost)
	s.HandleFunc("/groups", groups.List).Methods(http.MethodGet)
	s.HandleFunc("/groups/{groupId}", groups.Get).Methods(http.MethodGet)
	s.HandleFunc("/groups/{groupId}", groups.Update).Methods(http.MethodPut)
	s.HandleFunc("/groups/{groupId}", groups.Delete).Methods(http.MethodDelete)
	s.HandleFunc("/groups/{groupId}/members", groups.AddMember).Methods(http.MethodPost)
	s.HandleFunc("/groups/{groupId}/members", groups.RemoveMember).Methods(http.MethodDelete)
	s.HandleFunc("/groups/{groupId}/admins", groups.AddAdmin).Methods(http.MethodPost)
	s.HandleFunc("/groups/{groupId}/admins", groups.RemoveAdmin).Methods(http.MethodDelete)
	s.HandleFunc("/groups/{groupId}/messages", messages.GroupHistory).Methods(http.MethodGet)

	s.HandleFunc("/messages/{peerEmail}", messages.History).Methods(http.MethodGet)

	s.HandleFunc("/friends", friends.Lists).Methods(http.MethodGet)

	return r
}
