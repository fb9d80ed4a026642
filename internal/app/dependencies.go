package app

import (
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/alexwest1981/EduFlex-sub004/internal/config"
	"github.com/alexwest1981/EduFlex-sub004/internal/event_bus"
	"github.com/alexwest1981/EduFlex-sub004/internal/utils"
	"github.com/alexwest1981/EduFlex-sub004/pkg/course"
	"github.com/alexwest1981/EduFlex-sub004/pkg/event"
	"github.com/alexwest1981/EduFlex-sub004/pkg/ical"
	"github.com/alexwest1981/EduFlex-sub004/pkg/schedule"
	"github.com/alexwest1981/EduFlex-sub004/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock
	Cron     *cron.Cron

	UserService user.Service
	UserHandler *user.Handler

	CourseService course.Service
	CourseHandler *course.Handler

	EventRepo    event.Repository
	EventService event.Service
	EventHandler *event.Handler

	EventSource     event.Source
	ScheduleStore   *schedule.SessionStore
	ScheduleHandler *schedule.Handler

	ICalService ical.Service
	ICalHandler *ical.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}
	deps.Cron = cron.New()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.CourseService = course.NewCourseService(course.NewCourseRepo(db))
	deps.CourseHandler = course.NewHandler(deps.CourseService)

	deps.EventRepo = event.NewEventRepository(db)
	deps.EventService = event.NewEventService(deps.EventRepo, deps.EventBus)
	deps.EventHandler = event.NewHandler(deps.EventService)

	// The schedule engine reads either the local store or a remote EduFlex
	// deployment, selected by configuration.
	if cfg.Events.UpstreamURL != "" {
		log.Infof("Reading schedule events from upstream %s", cfg.Events.UpstreamURL)
		deps.EventSource = event.NewRemoteSource(cfg.Events.UpstreamURL)
	} else {
		deps.EventSource = deps.EventService
	}

	projector := schedule.NewProjector(cfg.Calendar)
	ttl := time.Duration(cfg.Calendar.SessionTTLMinutes) * time.Minute
	deps.ScheduleStore = schedule.NewSessionStore(deps.EventSource, projector, deps.Clock, ttl)
	deps.ScheduleStore.SubscribeInvalidation(deps.EventBus)
	if err := deps.ScheduleStore.StartSweeper(deps.Cron); err != nil {
		return nil, err
	}
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleStore)

	deps.ICalService = ical.NewICalService(deps.EventService, deps.Clock, cfg.ICal.Secret)
	deps.ICalHandler = ical.NewHandler(deps.ICalService)

	return deps, nil
}
