package main

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// GET /me/aboutme
func meAboutMeHandler(st Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		p, _ := principalFrom(r.Context())

		profile, err := st.AboutMe(r.Context(), p.Email)
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		if err != nil {
			logger.Error("Error loading about me", zap.String("email", p.Email), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		writeJSON(w, http.StatusOK, profile)
	})
}

// GET /me/invitations
func meInvitationsHandler(st Store) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		p, _ := principalFrom(r.Context())

		invitations, err := st.Invitations(r.Context(), p.Email)
		if err != nil {
			logger.Error("Error loading invitations", zap.String("email", p.Email), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		if len(invitations) == 0 {
			writeJSON(w, http.StatusOK, invitations)
			return
		}

		loaders := GetDataLoadersFromContext(r.Context())
		if loaders == nil {
			loaders = NewDataLoaders(st)
		}
		emails := make([]string, len(invitations))
		for i, inv := range invitations {
			emails[i] = inv.Email
		}
		members, errs := loaders.MemberLoader.LoadMany(r.Context(), emails)()
		for i := range invitations {
			if i < len(errs) && errs[i] != nil {
				logger.Error("Error resolving invitee", zap.String("invitee", invitations[i].Email), zap.Error(errs[i]))
				writeError(w, http.StatusInternalServerError, "db_error")
				return
			}
			invitations[i].Joined = members[i] != nil
		}
		writeJSON(w, http.StatusOK, invitations)
	})
}
