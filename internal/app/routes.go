package app

import (
	"github.com/gorilla/mux"

	"github.com/alexwest1981/EduFlex-sub004/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.GetEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/calendar/check-availability", deps.EventHandler.CheckAvailability).Methods("GET")
	r.HandleFunc("/api/events/user/{userId}", deps.EventHandler.GetEventsForUser).Methods("GET")
	r.HandleFunc("/api/events/course/{courseId}", deps.EventHandler.GetEventsForCourse).Methods("GET")
	r.HandleFunc("/api/events/{eventId}/status", deps.EventHandler.UpdateEventStatus).Methods("PATCH")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Week schedule
	r.HandleFunc("/api/schedule/week", deps.ScheduleHandler.GetWeek).Methods("GET")
	r.HandleFunc("/api/schedule/navigate", deps.ScheduleHandler.Navigate).Methods("POST")
	r.HandleFunc("/api/schedule/jump", deps.ScheduleHandler.Jump).Methods("POST")
	r.HandleFunc("/api/schedule/filter", deps.ScheduleHandler.SetFilter).Methods("PUT")
	r.HandleFunc("/api/schedule/lens/{slot}", deps.ScheduleHandler.SetLens).Methods("PUT")
	r.HandleFunc("/api/schedule/lens/{slot}", deps.ScheduleHandler.ClearLens).Methods("DELETE")

	// Calendar feed
	r.HandleFunc("/api/calendar/ical/token", deps.ICalHandler.GetToken).Methods("GET")
	r.HandleFunc("/api/calendar/ical/feed/{userId}/{token}", deps.ICalHandler.GetFeed).Methods("GET")

	// Users and courses
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetUsers).Methods("GET")
	r.HandleFunc("/api/courses", deps.CourseHandler.GetCourses).Methods("GET")
}
