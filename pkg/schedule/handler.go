package schedule

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/rest"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

const dateLayout = "2006-01-02"

type Handler struct {
	store *SessionStore
}

func NewHandler(store *SessionStore) *Handler {
	return &Handler{store: store}
}

type LensDTO struct {
	Slot     string `json:"slot"`
	Kind     string `json:"kind"`
	TargetID int    `json:"targetId"`
	Label    string `json:"label,omitempty"`
}

type PlacementDTO struct {
	event.EventDTO
	IsFiltered  bool    `json:"isFiltered"`
	IsSecondary bool    `json:"isSecondary"`
	Top         float64 `json:"top"`
	Height      float64 `json:"height"`
}

type DayDTO struct {
	Date   string         `json:"date"`
	Events []PlacementDTO `json:"events"`
}

type StatsDTO struct {
	LessonCount   int `json:"lessonCount"`
	DistinctUsers int `json:"distinctUsers"`
}

type WeekPageDTO struct {
	WeekAnchor    string   `json:"weekAnchor"`
	WeekNumber    int      `json:"weekNumber"`
	StartHour     int      `json:"startHour"`
	EndHour       int      `json:"endHour"`
	PrimaryLens   *LensDTO `json:"primaryLens,omitempty"`
	SecondaryLens *LensDTO `json:"secondaryLens,omitempty"`
	Days          []DayDTO `json:"days"`
	Stats         StatsDTO `json:"stats"`
}

func toPageDTO(state ViewState, page WeekPage) WeekPageDTO {
	dto := WeekPageDTO{
		WeekAnchor:    page.WeekAnchor.Format(dateLayout),
		WeekNumber:    page.WeekNumber,
		StartHour:     state.VisibleHours.StartHour,
		EndHour:       state.VisibleHours.EndHour,
		PrimaryLens:   toLensDTO(state.PrimaryLens),
		SecondaryLens: toLensDTO(state.SecondaryLens),
		Days:          make([]DayDTO, 0, 7),
		Stats:         StatsDTO{LessonCount: page.Stats.LessonCount, DistinctUsers: page.Stats.DistinctUsers},
	}
	for _, day := range page.Days {
		d := DayDTO{Date: day.Date.Format(dateLayout), Events: make([]PlacementDTO, 0, len(day.Events))}
		for _, pl := range day.Events {
			d.Events = append(d.Events, PlacementDTO{
				EventDTO:    event.ToDTO(pl.Event),
				IsFiltered:  pl.IsFiltered,
				IsSecondary: pl.IsSecondary,
				Top:         pl.Top,
				Height:      pl.Height,
			})
		}
		dto.Days = append(dto.Days, d)
	}
	return dto
}

func toLensDTO(l *Lens) *LensDTO {
	if l == nil {
		return nil
	}
	return &LensDTO{Slot: string(l.Slot), Kind: string(l.Kind), TargetID: l.TargetID, Label: l.Label}
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*Controller, bool) {
	viewer, err := user.CurrentUser(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusUnauthorized, "Authentication required", "")
		return nil, false
	}
	return h.store.ControllerFor(r.Context(), viewer), true
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.writePage(w, c)
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req struct {
		DeltaWeeks int `json:"deltaWeeks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	c.Navigate(r.Context(), req.DeltaWeeks)
	h.writePage(w, c)
}

func (h *Handler) Jump(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	date, err := time.ParseInLocation(dateLayout, req.Date, time.Local)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date", err.Error())
		return
	}

	c.JumpTo(r.Context(), date)
	h.writePage(w, c)
}

func (h *Handler) SetLens(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind     string `json:"kind"`
		TargetID int    `json:"targetId"`
		Label    string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	lens := Lens{
		Slot:     LensSlot(mux.Vars(r)["slot"]),
		Kind:     LensKind(req.Kind),
		TargetID: req.TargetID,
		Label:    req.Label,
	}
	if err := c.SetLens(r.Context(), lens); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid lens", err.Error())
		return
	}
	h.writePage(w, c)
}

func (h *Handler) ClearLens(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	slot := LensSlot(mux.Vars(r)["slot"])
	if slot != LensPrimary && slot != LensSecondary {
		rest.WriteError(w, http.StatusBadRequest, "Invalid lens slot", string(slot))
		return
	}

	c.ClearLens(slot)
	h.writePage(w, c)
}

func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req struct {
		Types  []string `json:"types"`
		Search string   `json:"search"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	filter := event.ListFilter{Search: req.Search}
	for _, t := range req.Types {
		filter.Types = append(filter.Types, event.Type(t))
	}

	c.SetFilter(r.Context(), filter)
	h.writePage(w, c)
}

func (h *Handler) writePage(w http.ResponseWriter, c *Controller) {
	dto := toPageDTO(c.State(), c.Page())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto); err != nil {
		log.Errorf("failed to encode week page: %v", err)
	}
}
