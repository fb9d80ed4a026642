package ical

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/rest"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetToken hands the authenticated user their personal feed URL.
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	userID, token, err := h.service.TokenForCurrentUser(r.Context())
	if errors.Is(err, user.ErrNoUser) {
		rest.WriteError(w, http.StatusUnauthorized, "Authentication required", "")
		return
	} else if err != nil {
		log.Errorf("failed to issue feed token: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	response := map[string]string{
		"token": token,
		"url":   fmt.Sprintf("/api/calendar/ical/feed/%d/%s", userID, token),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("failed to encode token response: %v", err)
	}
}

// GetFeed serves the ICS document. No session is required; the token is the
// credential.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid user id", err.Error())
		return
	}

	feed, err := h.service.Feed(r.Context(), userID, vars["token"])
	if errors.Is(err, ErrInvalidToken) {
		rest.WriteError(w, http.StatusForbidden, "Invalid feed token", "")
		return
	} else if err != nil {
		log.Errorf("failed to build feed for user %d: %v", userID, err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\"eduflex.ics\"")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Errorf("failed to write feed: %v", err)
	}
}
