package fakeapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/apichallenges/todo-contract-tests/apidef"
)

func (s *Server) heartbeat(sess *session, w http.ResponseWriter, r *http.Request) {
	method := r.Method
	overridden := false
	if override := strings.TrimSpace(r.Header.Get(apidef.HeaderMethodOverride)); override != "" && method == http.MethodPost {
		method = strings.ToUpper(override)
		overridden = true
	}

	switch method {
	case http.MethodGet, http.MethodHead:
		if method == http.MethodGet && !overridden {
			sess.complete(chGetHeartbeat)
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodOptions:
		w.Header().Set("Allow", "OPTIONS, GET, HEAD")
		w.WriteHeader(http.StatusOK)
	case http.MethodPatch:
		sess.complete(pick(overridden, chOverridePatchHeartbeat, chPatchHeartbeat))
		w.WriteHeader(http.StatusInternalServerError)
	case http.MethodTrace:
		sess.complete(pick(overridden, chOverrideTraceHeartbeat, chTraceHeartbeat))
		w.WriteHeader(http.StatusNotImplemented)
	case http.MethodDelete:
		sess.complete(pick(overridden, chOverrideDeleteHeartbeat, chDeleteHeartbeat))
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func pick(overridden bool, ifOverridden, otherwise challengeID) challengeID {
	if overridden {
		return ifOverridden
	}
	return otherwise
}

func (s *Server) secretToken(sess *session, w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	username, password, ok := r.BasicAuth()
	if !ok || username != apidef.AdminUsername || password != apidef.AdminPassword {
		sess.complete(chTokenUnauthorized)
		w.Header().Set("WWW-Authenticate", `Basic realm="User Visible Realm"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	sess.complete(chTokenCreated)
	w.Header().Set(apidef.HeaderAuthToken, sess.token())
	w.WriteHeader(http.StatusCreated)
}

type authResult int

const (
	authMissing authResult = iota
	authInvalid
	authByHeader
	authByBearer
)

// authorize checks the credentials for the secret note. X-AUTH-TOKEN takes precedence over a
// bearer token in the Authorization header.
func authorize(sess *session, r *http.Request) authResult {
	if token := r.Header.Get(apidef.HeaderAuthToken); token != "" {
		if sess.authToken != "" && token == sess.authToken {
			return authByHeader
		}
		return authInvalid
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if token := strings.TrimPrefix(auth, "Bearer "); sess.authToken != "" && token == sess.authToken {
			return authByBearer
		}
		return authInvalid
	}
	return authMissing
}

type secretNote struct {
	Note string `json:"note"`
}

func (s *Server) secretNote(sess *session, w http.ResponseWriter, r *http.Request) {
	var missing, invalid, byHeader, byBearer challengeID
	switch r.Method {
	case http.MethodGet:
		missing, invalid, byHeader, byBearer = chGetNoteUnauthorized, chGetNoteForbidden, chGetNote, chGetNoteBearer
	case http.MethodPost:
		missing, invalid, byHeader, byBearer = chPostNoteUnauthorized, chPostNoteForbidden, chPostNote, chPostNoteBearer
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result := authorize(sess, r)
	switch result {
	case authMissing:
		sess.complete(missing)
		w.WriteHeader(http.StatusUnauthorized)
		return
	case authInvalid:
		sess.complete(invalid)
		w.WriteHeader(http.StatusForbidden)
		return
	}

	if r.Method == http.MethodPost {
		data, err := readBody(r)
		if err != nil {
			writeErrors(w, http.StatusRequestEntityTooLarge, formatJSON, apidef.RequestTooLarge)
			return
		}
		var note secretNote
		if err := json.Unmarshal(data, &note); err != nil {
			writeErrors(w, http.StatusBadRequest, formatJSON, "Failed to parse request body: "+err.Error())
			return
		}
		sess.note = note.Note
	}
	sess.complete(pick(result == authByBearer, byBearer, byHeader))
	writeJSON(w, http.StatusOK, secretNote{Note: sess.note})
}
