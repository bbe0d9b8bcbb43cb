package api

import (
	"net/http"
	"strings"

	"github.com/pvdabholker/HomeHero-Synap5e/internal/models"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// actor is the verified identity forwarded by the upstream gateway.
type actor struct {
	ID   string
	Role string
}

// requireActor extracts the actor headers or answers 401. The gateway
// is trusted to have authenticated the caller; this service only reads
// the result.
func requireActor(w http.ResponseWriter, r *http.Request) (actor, bool) {
	a := actor{
		ID:   strings.TrimSpace(r.Header.Get(headerActorID)),
		Role: strings.TrimSpace(r.Header.Get(headerActorRole)),
	}
	if a.ID == "" || !models.IsValidRole(a.Role) {
		writeError(w, http.StatusUnauthorized, "missing or invalid actor identity")
		return actor{}, false
	}
	return a, true
}

// requireRole narrows requireActor to a single role, answering 403 on
// mismatch.
func requireRole(w http.ResponseWriter, r *http.Request, role string) (actor, bool) {
	a, ok := requireActor(w, r)
	if !ok {
		return actor{}, false
	}
	if a.Role != role {
		writeError(w, http.StatusForbidden, "access denied")
		return actor{}, false
	}
	return a, true
}
