package event

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// wireTimeLayout is the timestamp format EduFlex emits: local wall-clock
// time without a zone offset.
const wireTimeLayout = "2006-01-02T15:04:05"

// RawOwner mirrors the nested owner object on the wire.
type RawOwner struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RawCourse mirrors the nested course object on the wire.
type RawCourse struct {
	ID int `json:"id"`
}

// RawEvent is a calendar event as received from an EduFlex backend, before
// normalization.
type RawEvent struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Platform    string     `json:"platform"`
	MeetingLink string     `json:"meetingLink"`
	IsMandatory bool       `json:"isMandatory"`
	Topic       string     `json:"topic"`
	Owner       *RawOwner  `json:"owner"`
	Course      *RawCourse `json:"course"`
	Attendees   []RawOwner `json:"attendees"`
}

func parseWireTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.ParseInLocation(wireTimeLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// Normalize converts a raw wire record into an Event. Records with an
// unparseable timestamp are rejected so a single bad row never reaches the
// layout projector.
func (r RawEvent) Normalize() (Event, error) {
	start, err := parseWireTime(r.StartTime)
	if err != nil {
		return Event{}, fmt.Errorf("invalid startTime %q: %w", r.StartTime, err)
	}
	end, err := parseWireTime(r.EndTime)
	if err != nil {
		return Event{}, fmt.Errorf("invalid endTime %q: %w", r.EndTime, err)
	}

	e := Event{
		Title:       r.Title,
		Description: r.Description,
		StartTime:   start,
		EndTime:     end,
		Type:        Type(r.Type),
		Status:      Status(r.Status),
		Platform:    Platform(r.Platform),
		MeetingLink: r.MeetingLink,
		IsMandatory: r.IsMandatory,
		Topic:       r.Topic,
		OwnerName:   UnknownOwnerName,
	}
	if id, err := uuid.Parse(r.ID); err == nil {
		e.ID = id
	}
	if e.Type == "" {
		e.Type = TypeOther
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	if e.Platform == "" {
		e.Platform = PlatformNone
	}
	if r.Owner != nil {
		e.OwnerID = r.Owner.ID
		if name := strings.TrimSpace(r.Owner.FirstName + " " + r.Owner.LastName); name != "" {
			e.OwnerName = name
		}
	}
	if r.Course != nil {
		e.CourseID = r.Course.ID
	}
	for _, a := range r.Attendees {
		e.AttendeeIDs = append(e.AttendeeIDs, a.ID)
	}
	return e, nil
}

// DecodeEvents reads a JSON array of raw events and normalizes each record.
// Malformed payloads and unparseable records degrade to fewer (or zero)
// events rather than an error; the schedule must stay usable when the feed
// is broken.
func DecodeEvents(body io.Reader) []Event {
	var raws []RawEvent
	if err := json.NewDecoder(body).Decode(&raws); err != nil {
		log.Warnf("discarding malformed event payload: %v", err)
		return []Event{}
	}

	events := make([]Event, 0, len(raws))
	quarantined := 0
	for _, raw := range raws {
		e, err := raw.Normalize()
		if err != nil {
			quarantined++
			log.Warnf("quarantining event %q: %v", raw.Title, err)
			continue
		}
		events = append(events, e)
	}
	if quarantined > 0 {
		log.Warnf("quarantined %d of %d events", quarantined, len(raws))
	}
	return events
}
