package schedule

import (
	"time"

	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
)

type LensSlot string

const (
	LensPrimary   LensSlot = "primary"
	LensSecondary LensSlot = "secondary"
)

type LensKind string

const (
	LensUser   LensKind = "user"
	LensCourse LensKind = "course"
)

// Lens scopes the visible event set to one user or one course.
type Lens struct {
	Slot     LensSlot
	Kind     LensKind
	TargetID int
	Label    string
}

// HourRange is the visible window of the week grid, [StartHour, EndHour).
type HourRange struct {
	StartHour int
	EndHour   int
}

// ViewState is everything the week grid needs besides the events themselves.
// WeekAnchor is always the Monday of the displayed week at 00:00 local.
type ViewState struct {
	WeekAnchor    time.Time
	PrimaryLens   *Lens
	SecondaryLens *Lens
	Filter        event.ListFilter
	VisibleHours  HourRange
}

// Placement is an event annotated for rendering: its pixel geometry within
// the day column and its lens tags.
type Placement struct {
	Event       event.Event
	IsFiltered  bool
	IsSecondary bool
	Top         float64
	Height      float64
}

// DayColumn holds one weekday's placements. Secondary placements sort below
// primaries so they render with reduced emphasis underneath.
type DayColumn struct {
	Date   time.Time
	Events []Placement
}

// WeekStats are pure projections over the displayed events, recomputed on
// every page build and never persisted.
type WeekStats struct {
	LessonCount   int
	DistinctUsers int
}

// WeekPage is one fully assembled week of the schedule.
type WeekPage struct {
	WeekAnchor time.Time
	WeekNumber int
	Days       [7]DayColumn
	Stats      WeekStats
}
