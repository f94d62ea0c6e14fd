package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"go.uber.org/zap"
)

type invokeRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type invokeResponse struct {
	Status    string `json:"status"`
	Action    string `json:"action"`
	Invited   int    `json:"invited"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// invokeHandler dispatches POST /invoke on the request's action.
func invokeHandler(st Store, hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		var req invokeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}

		// A token is optional, but when sent it has to be valid and it
		// pins the identity the payload may claim.
		var caller *principal
		if tok, ok := bearerToken(r); ok {
			p, err := parseToken(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			caller = &p
		} else if r.Header.Get("Authorization") != "" {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		log := logger.With(zap.String("action", req.Action), zap.String("idempotency_key", key))

		var (
			emailID string
			applied Applied
			event   ServerEvent
			err     error
		)
		switch req.Action {
		case aboutme.ActionAboutMe:
			var p aboutme.Payload
			if p, err = decodePayload[aboutme.Payload](req.Payload); err == nil {
				p, err = p.Normalize()
			}
			if err != nil {
				writePayloadError(w, err)
				return
			}
			if !allowed(caller, p.EmailID) {
				writeError(w, http.StatusForbidden, "identity_mismatch")
				return
			}
			emailID = p.EmailID
			applied, err = st.ApplyAboutMe(r.Context(), key, p)
			event = ServerEvent{Type: eventAboutMeSaved, Data: p}

		case aboutme.ActionInvite:
			var p aboutme.InvitePayload
			if p, err = decodePayload[aboutme.InvitePayload](req.Payload); err == nil {
				p, err = p.Normalize()
			}
			if err != nil {
				writePayloadError(w, err)
				return
			}
			if len(p.Invitation) == 0 {
				writeError(w, http.StatusBadRequest, "no_invitees")
				return
			}
			if !allowed(caller, p.EmailID) {
				writeError(w, http.StatusForbidden, "identity_mismatch")
				return
			}
			emailID = p.EmailID
			applied, err = st.ApplyInvite(r.Context(), key, p)
			event = ServerEvent{Type: eventInvitationsSent, Data: p.Invitation}

		default:
			writeError(w, http.StatusBadRequest, "unknown_action")
			return
		}

		log = log.With(zap.String("email_id", emailID))
		if errors.Is(err, errKeyReused) {
			log.Warn("Idempotency key reused for a different request")
			writeError(w, http.StatusUnprocessableEntity, "idempotency_key_reused")
			return
		}
		if err != nil {
			log.Error("Failed to apply submission", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		if applied.Duplicate {
			log.Info("Replayed submission ignored")
		} else {
			log.Info("Submission applied", zap.Int("invited", applied.Invited))
			hub.sendToUser(emailID, event)
			if req.Action == aboutme.ActionAboutMe && applied.Invited > 0 {
				hub.sendToUser(emailID, ServerEvent{Type: eventInvitationsSent, Data: applied.Invited})
			}
		}

		writeJSON(w, http.StatusOK, invokeResponse{
			Status:    "ok",
			Action:    req.Action,
			Invited:   applied.Invited,
			Duplicate: applied.Duplicate,
		})
	}
}

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, errMissingPayload
	}
	err := json.Unmarshal(raw, &v)
	return v, err
}

var errMissingPayload = errors.New("missing payload")

func writePayloadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, aboutme.ErrNoIdentity):
		writeError(w, http.StatusBadRequest, "missing_email_id")
	case errors.Is(err, aboutme.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "invalid_email")
	default:
		writeError(w, http.StatusBadRequest, "invalid_payload")
	}
}

func allowed(caller *principal, emailID string) bool {
	return caller == nil || caller.Email == emailID
}
