package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/datemath"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

const (
	slotBase      = "base"
	slotPrimary   = string(LensPrimary)
	slotSecondary = string(LensSecondary)
)

// Controller drives one user's week view: it owns the view state, loads the
// backing event sets, and assembles week pages.
//
// Every fetch slot (base, primary lens, secondary lens) carries a
// monotonically increasing request id. A fetch result is applied only when
// its id is still the latest issued for that slot, so a slow earlier fetch
// can never overwrite a fresher one.
type Controller struct {
	mu        sync.Mutex
	source    event.Source
	projector Projector
	viewer    user.User

	anchor  time.Time
	lenses  map[LensSlot]*Lens
	filter  event.ListFilter
	loaded  map[string][]event.Event
	reqIDs  map[string]uint64
	touched time.Time
}

func NewController(source event.Source, projector Projector, viewer user.User, now time.Time) *Controller {
	return &Controller{
		source:    source,
		projector: projector,
		viewer:    viewer,
		anchor:    datemath.MondayOf(now),
		lenses:    make(map[LensSlot]*Lens),
		loaded:    make(map[string][]event.Event),
		reqIDs:    make(map[string]uint64),
		touched:   now,
	}
}

// Load performs the initial fetch of the base event set.
func (c *Controller) Load(ctx context.Context) {
	c.reloadBase(ctx)
}

// Navigate moves the anchor by whole weeks and reloads.
func (c *Controller) Navigate(ctx context.Context, deltaWeeks int) {
	c.mu.Lock()
	c.anchor = datemath.AddDays(c.anchor, deltaWeeks*7)
	c.mu.Unlock()
	c.reloadBase(ctx)
}

// JumpTo anchors the view on the Monday of the given date's week.
func (c *Controller) JumpTo(ctx context.Context, date time.Time) {
	c.mu.Lock()
	c.anchor = datemath.MondayOf(date)
	c.mu.Unlock()
	c.reloadBase(ctx)
}

// SetLens installs a lens and fetches its scoped event set.
func (c *Controller) SetLens(ctx context.Context, lens Lens) error {
	if lens.Slot != LensPrimary && lens.Slot != LensSecondary {
		return fmt.Errorf("unknown lens slot %q", lens.Slot)
	}
	if lens.Kind != LensUser && lens.Kind != LensCourse {
		return fmt.Errorf("unknown lens kind %q", lens.Kind)
	}

	c.mu.Lock()
	l := lens
	c.lenses[lens.Slot] = &l
	id := c.nextRequestLocked(string(lens.Slot))
	filter := c.filter
	c.mu.Unlock()

	var events []event.Event
	var err error
	switch lens.Kind {
	case LensUser:
		events, err = c.source.EventsForUser(ctx, lens.TargetID, filter)
	case LensCourse:
		events, err = c.source.EventsForCourse(ctx, lens.TargetID, filter)
	}

	c.applyResult(string(lens.Slot), id, events, err)
	return nil
}

// ClearLens empties one slot. Bumping the request id makes any in-flight
// fetch for the slot land stale.
func (c *Controller) ClearLens(slot LensSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lenses, slot)
	delete(c.loaded, string(slot))
	c.nextRequestLocked(string(slot))
}

// SetFilter applies a type/search filter and reloads every active slot.
func (c *Controller) SetFilter(ctx context.Context, filter event.ListFilter) {
	c.mu.Lock()
	c.filter = filter
	lenses := c.activeLensesLocked()
	c.mu.Unlock()

	c.reloadBase(ctx)
	for _, lens := range lenses {
		if err := c.SetLens(ctx, lens); err != nil {
			log.Warnf("failed to reload lens %s: %v", lens.Slot, err)
		}
	}
}

// Refresh reloads every slot with unchanged inputs. Called after booking
// mutations and on change notifications.
func (c *Controller) Refresh(ctx context.Context) {
	c.SetFilter(ctx, c.currentFilter())
}

// State returns a snapshot of the view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := ViewState{
		WeekAnchor:   c.anchor,
		Filter:       c.filter,
		VisibleHours: c.projector.Window,
	}
	if l, ok := c.lenses[LensPrimary]; ok {
		lens := *l
		state.PrimaryLens = &lens
	}
	if l, ok := c.lenses[LensSecondary]; ok {
		lens := *l
		state.SecondaryLens = &lens
	}
	return state
}

// Page assembles the displayed week. The primary lens result, when a
// primary lens is set, fully replaces the base set; the secondary lens
// result is always overlaid on top. Both lenses targeting the same entity
// therefore show the same events twice, once per slot.
func (c *Controller) Page() WeekPage {
	c.mu.Lock()
	defer c.mu.Unlock()

	var displayed []Placement
	if _, ok := c.lenses[LensPrimary]; ok {
		for _, e := range c.loaded[slotPrimary] {
			displayed = append(displayed, Placement{Event: e, IsFiltered: true})
		}
	} else {
		for _, e := range c.loaded[slotBase] {
			displayed = append(displayed, Placement{Event: e})
		}
	}
	if _, ok := c.lenses[LensSecondary]; ok {
		for _, e := range c.loaded[slotSecondary] {
			displayed = append(displayed, Placement{Event: e, IsFiltered: true, IsSecondary: true})
		}
	}

	weekEnd := datemath.AddDays(c.anchor, 7)
	inWeek := make([]Placement, 0, len(displayed))
	for _, pl := range displayed {
		if !pl.Event.StartTime.Before(c.anchor) && pl.Event.StartTime.Before(weekEnd) {
			inWeek = append(inWeek, pl)
		}
	}

	return WeekPage{
		WeekAnchor: c.anchor,
		WeekNumber: datemath.ISOWeekNumber(c.anchor),
		Days:       c.projector.ProjectWeek(c.anchor, inWeek),
		Stats:      weekStats(inWeek),
	}
}

// Touch records activity for session expiry; LastTouched reads it back.
func (c *Controller) Touch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched = now
}

func (c *Controller) LastTouched() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

func (c *Controller) reloadBase(ctx context.Context) {
	c.mu.Lock()
	id := c.nextRequestLocked(slotBase)
	filter := c.filter
	c.mu.Unlock()

	var events []event.Event
	var err error
	if user.CapabilitiesOf(c.viewer.Role).CanViewAll {
		events, err = c.source.EventsGlobal(ctx, filter)
	} else {
		events, err = c.source.EventsForUser(ctx, c.viewer.ID, filter)
	}
	c.applyResult(slotBase, id, events, err)
}

// applyResult installs a fetch result unless a newer request has been
// issued for the slot since. Fetch errors degrade the slot to empty; the
// schedule stays usable when the source is down.
func (c *Controller) applyResult(slot string, id uint64, events []event.Event, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.reqIDs[slot] != id {
		log.Debugf("discarding stale fetch result for slot %s (id %d)", slot, id)
		return
	}
	if err != nil {
		log.Warnf("fetch for slot %s failed, degrading to empty: %v", slot, err)
		c.loaded[slot] = []event.Event{}
		return
	}
	c.loaded[slot] = events
}

func (c *Controller) nextRequestLocked(slot string) uint64 {
	c.reqIDs[slot]++
	return c.reqIDs[slot]
}

func (c *Controller) activeLensesLocked() []Lens {
	lenses := make([]Lens, 0, 2)
	for _, l := range c.lenses {
		lenses = append(lenses, *l)
	}
	return lenses
}

func (c *Controller) currentFilter() event.ListFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// weekStats projects the displayed events into the header statistics:
// lesson count and how many distinct users are involved as owner or
// attendee.
func weekStats(placements []Placement) WeekStats {
	stats := WeekStats{}
	seen := make(map[int]struct{})
	for _, pl := range placements {
		if pl.Event.Type == event.TypeLesson {
			stats.LessonCount++
		}
		if pl.Event.OwnerID != 0 {
			seen[pl.Event.OwnerID] = struct{}{}
		}
		for _, id := range pl.Event.AttendeeIDs {
			seen[id] = struct{}{}
		}
	}
	stats.DistinctUsers = len(seen)
	return stats
}
