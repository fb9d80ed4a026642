package schedule

import (
	"sort"
	"time"

	"github.com/alexwest1981/EduFlex-sub004/internal/config"
	"github.com/alexwest1981/EduFlex-sub004/internal/datemath"
)

// Projector turns events into absolutely positioned blocks on the week
// grid. The grid renders equal hourly rows of HourHeightPx pixels across a
// fixed visible window; an event's block is placed by its offset from the
// window start.
//
// No collision handling is done: overlapping events in the same day stack
// as full-width blocks, secondaries below primaries. Known limitation.
type Projector struct {
	Window       HourRange
	HourHeightPx float64
	MinHeightPx  float64
}

func NewProjector(cfg config.Calendar) Projector {
	return Projector{
		Window:       HourRange{StartHour: cfg.DayStartHour, EndHour: cfg.DayEndHour},
		HourHeightPx: float64(cfg.HourHeightPx),
		MinHeightPx:  float64(cfg.MinEventHeightPx),
	}
}

// Place computes the pixel geometry of one placement from its event's
// wall-clock start and end.
func (p Projector) Place(pl Placement) Placement {
	start := pl.Event.StartTime
	end := pl.Event.EndTime

	offsetStart := float64(start.Hour()-p.Window.StartHour) + float64(start.Minute())/60
	offsetEnd := float64(end.Hour()-p.Window.StartHour) + float64(end.Minute())/60

	pl.Top = offsetStart * p.HourHeightPx
	pl.Height = (offsetEnd - offsetStart) * p.HourHeightPx
	if pl.Height < p.MinHeightPx {
		pl.Height = p.MinHeightPx
	}
	return pl
}

// ProjectWeek buckets placements into the seven day columns starting at
// monday, placing each exactly once per calendar day. Events outside the
// week are dropped.
func (p Projector) ProjectWeek(monday time.Time, placements []Placement) [7]DayColumn {
	var days [7]DayColumn
	for i := range days {
		days[i].Date = datemath.AddDays(monday, i)
		days[i].Events = []Placement{}
	}

	for _, pl := range placements {
		for i := range days {
			if datemath.SameDay(pl.Event.StartTime, days[i].Date) {
				days[i].Events = append(days[i].Events, p.Place(pl))
				break
			}
		}
	}

	// secondaries first so primaries paint on top of them
	for i := range days {
		col := days[i].Events
		sort.SliceStable(col, func(a, b int) bool {
			if col[a].IsSecondary != col[b].IsSecondary {
				return col[a].IsSecondary
			}
			return col[a].Event.StartTime.Before(col[b].Event.StartTime)
		})
	}
	return days
}
