package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
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

// EventRequest is the create payload.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Platform    string `json:"platform"`
	MeetingLink string `json:"meetingLink"`
	IsMandatory bool   `json:"isMandatory"`
	Topic       string `json:"topic"`
	CourseID    int    `json:"courseId"`
	AttendeeIDs []int  `json:"attendeeIds"`
}

type EventDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Platform    string `json:"platform"`
	MeetingLink string `json:"meetingLink"`
	IsMandatory bool   `json:"isMandatory"`
	Topic       string `json:"topic"`
	OwnerID     int    `json:"ownerId"`
	OwnerName   string `json:"ownerName"`
	CourseID    int    `json:"courseId"`
	AttendeeIDs []int  `json:"attendeeIds"`
}

func ToDTO(e Event) EventDTO {
	return EventDTO{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime.Format(wireTimeLayout),
		EndTime:     e.EndTime.Format(wireTimeLayout),
		Type:        string(e.Type),
		Status:      string(e.Status),
		Platform:    string(e.Platform),
		MeetingLink: e.MeetingLink,
		IsMandatory: e.IsMandatory,
		Topic:       e.Topic,
		OwnerID:     e.OwnerID,
		OwnerName:   e.OwnerName,
		CourseID:    e.CourseID,
		AttendeeIDs: e.AttendeeIDs,
	}
}

func ToDTOs(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, ToDTO(e))
	}
	return dtos
}

func filterFromQuery(r *http.Request) ListFilter {
	var filter ListFilter
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				filter.Types = append(filter.Types, Type(t))
			}
		}
	}
	filter.Search = r.URL.Query().Get("search")
	return filter
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.EventsForActor(r.Context(), filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(events))
}

func (h *Handler) GetEventsForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid user id", err.Error())
		return
	}
	events, err := h.service.EventsForUser(r.Context(), userID, filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(events))
}

func (h *Handler) GetEventsForCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.Atoi(mux.Vars(r)["courseId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid course id", err.Error())
		return
	}
	events, err := h.service.EventsForCourse(r.Context(), courseID, filterFromQuery(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTOs(events))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	start, err := parseWireTime(req.StartTime)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid startTime", err.Error())
		return
	}
	end, err := parseWireTime(req.EndTime)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid endTime", err.Error())
		return
	}

	created, err := h.service.CreateEvent(r.Context(), Event{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   start,
		EndTime:     end,
		Type:        Type(req.Type),
		Status:      Status(req.Status),
		Platform:    Platform(req.Platform),
		MeetingLink: req.MeetingLink,
		IsMandatory: req.IsMandatory,
		Topic:       req.Topic,
		CourseID:    req.CourseID,
		AttendeeIDs: req.AttendeeIDs,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", err.Error())
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	next := Status(req.Status)
	if !validStatus(next) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid status", req.Status)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), id, next)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ToDTO(updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["eventId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", err.Error())
		return
	}
	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, err := strconv.Atoi(query.Get("userId"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid userId", err.Error())
		return
	}
	start, err := parseWireTime(query.Get("start"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid start", err.Error())
		return
	}
	end, err := parseWireTime(query.Get("end"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid end", err.Error())
		return
	}
	exclude := uuid.Nil
	if raw := query.Get("excludeEventId"); raw != "" {
		if exclude, err = uuid.Parse(raw); err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid excludeEventId", err.Error())
			return
		}
	}

	busy, err := h.service.IsUserBusy(r.Context(), userID, start, end, exclude)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"busy": busy})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "Authentication required", "")
	case errors.Is(err, ErrForbidden):
		rest.WriteError(w, http.StatusForbidden, "Operation not permitted", "")
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	case errors.Is(err, ErrInvalidTransition):
		rest.WriteError(w, http.StatusConflict, "Invalid status transition", err.Error())
	case errors.Is(err, ErrInvalidTimeRange):
		rest.WriteError(w, http.StatusBadRequest, "Invalid time range", err.Error())
	default:
		log.Errorf("event handler: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
