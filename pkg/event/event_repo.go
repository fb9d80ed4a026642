package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	StoreEvent(ctx context.Context, e Event) (Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (Event, error)
	GetAllEvents(ctx context.Context, filter ListFilter) ([]Event, error)
	GetEventsForParticipant(ctx context.Context, userID int, filter ListFilter) ([]Event, error)
	GetEventsForCourse(ctx context.Context, courseID int, filter ListFilter) ([]Event, error)
	GetOverlappingEvents(ctx context.Context, userID int, start, end time.Time, exclude uuid.UUID) ([]Event, error)
	UpdateEventStatus(ctx context.Context, id uuid.UUID, status Status) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const eventColumns = `e.uid, e.title, e.description, e.start_time, e.end_time, e.type, e.status,
	e.platform, e.meeting_link, e.is_mandatory, e.topic, e.owner_id, e.course_id,
	u.first_name, u.last_name`

const eventFrom = ` FROM calendar_event e LEFT JOIN users u ON u.id = e.owner_id`

// filterClause appends type and search conditions to a query, continuing
// the placeholder numbering from the args already collected.
func filterClause(filter ListFilter, args []any) (string, []any) {
	var sb strings.Builder
	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			args = append(args, string(t))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		sb.WriteString(" AND e.type IN (" + strings.Join(placeholders, ", ") + ")")
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		n := len(args)
		sb.WriteString(fmt.Sprintf(" AND (LOWER(e.title) LIKE $%d OR LOWER(e.description) LIKE $%d)", n, n))
	}
	return sb.String(), args
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, e Event) (Event, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Event{}, err
	}
	defer tx.Rollback()

	query := `INSERT INTO calendar_event
		(uid, title, description, start_time, end_time, type, status, platform,
		 meeting_link, is_mandatory, topic, owner_id, course_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = tx.ExecContext(ctx, query,
		e.ID.String(), e.Title, e.Description,
		e.StartTime.UnixMilli(), e.EndTime.UnixMilli(),
		string(e.Type), string(e.Status), string(e.Platform),
		e.MeetingLink, e.IsMandatory, e.Topic,
		nullableID(e.OwnerID), nullableID(e.CourseID))
	if err != nil {
		log.Errorf("failed to store event: %v", err)
		return Event{}, err
	}

	for _, attendeeID := range e.AttendeeIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO event_attendee (event_uid, user_id) VALUES ($1, $2)`,
			e.ID.String(), attendeeID)
		if err != nil {
			log.Errorf("failed to store event attendee: %v", err)
			return Event{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Event{}, err
	}
	return r.GetEvent(ctx, e.ID)
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, id uuid.UUID) (Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.uid = $1`
	row := r.db.QueryRowContext(ctx, query, id.String())
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrEventNotFound
	} else if err != nil {
		log.Errorf("failed to get event %s: %v", id, err)
		return Event{}, err
	}
	if err := r.loadAttendees(ctx, []*Event{&e}); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (r *RepositoryImpl) GetAllEvents(ctx context.Context, filter ListFilter) ([]Event, error) {
	clause, args := filterClause(filter, nil)
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE 1=1` + clause + ` ORDER BY e.start_time`
	return r.queryEvents(ctx, query, args...)
}

func (r *RepositoryImpl) GetEventsForParticipant(ctx context.Context, userID int, filter ListFilter) ([]Event, error) {
	args := []any{userID}
	clause, args := filterClause(filter, args)
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE (e.owner_id = $1
			OR EXISTS (SELECT 1 FROM event_attendee a WHERE a.event_uid = e.uid AND a.user_id = $1)
			OR EXISTS (SELECT 1 FROM courses c WHERE c.id = e.course_id AND c.teacher_id = $1)
			OR EXISTS (SELECT 1 FROM course_students cs WHERE cs.course_id = e.course_id AND cs.student_id = $1))` +
		clause + ` ORDER BY e.start_time`
	return r.queryEvents(ctx, query, args...)
}

func (r *RepositoryImpl) GetEventsForCourse(ctx context.Context, courseID int, filter ListFilter) ([]Event, error) {
	args := []any{courseID}
	clause, args := filterClause(filter, args)
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.course_id = $1` +
		clause + ` ORDER BY e.start_time`
	return r.queryEvents(ctx, query, args...)
}

func (r *RepositoryImpl) GetOverlappingEvents(ctx context.Context, userID int, start, end time.Time, exclude uuid.UUID) ([]Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + `
		WHERE e.status != $1
			AND e.start_time < $2 AND e.end_time > $3
			AND e.uid != $4
			AND (e.owner_id = $5
				OR EXISTS (SELECT 1 FROM event_attendee a WHERE a.event_uid = e.uid AND a.user_id = $5))
		ORDER BY e.start_time`
	return r.queryEvents(ctx, query,
		string(StatusRejected), end.UnixMilli(), start.UnixMilli(), exclude.String(), userID)
}

func (r *RepositoryImpl) UpdateEventStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE calendar_event SET status = $1 WHERE uid = $2`,
		string(status), id.String())
	if err != nil {
		log.Errorf("failed to update event status: %v", err)
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_attendee WHERE event_uid = $1`, id.String()); err != nil {
		log.Errorf("failed to delete event attendees: %v", err)
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM calendar_event WHERE uid = $1`, id.String())
	if err != nil {
		log.Errorf("failed to delete event: %v", err)
		return err
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrEventNotFound
	}
	return tx.Commit()
}

func (r *RepositoryImpl) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Errorf("could not query events: %v", err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 20)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			log.Errorf("could not scan event row: %v", err)
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*Event, len(events))
	for i := range events {
		refs[i] = &events[i]
	}
	if err := r.loadAttendees(ctx, refs); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *RepositoryImpl) loadAttendees(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}

	byUID := make(map[string]*Event, len(events))
	placeholders := make([]string, 0, len(events))
	args := make([]any, 0, len(events))
	for _, e := range events {
		byUID[e.ID.String()] = e
		args = append(args, e.ID.String())
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := `SELECT event_uid, user_id FROM event_attendee WHERE event_uid IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Errorf("could not query event attendees: %v", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var uid string
		var userID int
		if err := rows.Scan(&uid, &userID); err != nil {
			return err
		}
		if e, ok := byUID[uid]; ok {
			e.AttendeeIDs = append(e.AttendeeIDs, userID)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (Event, error) {
	var e Event
	var uid string
	var startMillis, endMillis int64
	var eventType, status, platform string
	var ownerID, courseID sql.NullInt64
	var firstName, lastName sql.NullString

	err := row.Scan(&uid, &e.Title, &e.Description, &startMillis, &endMillis,
		&eventType, &status, &platform, &e.MeetingLink, &e.IsMandatory, &e.Topic,
		&ownerID, &courseID, &firstName, &lastName)
	if err != nil {
		return Event{}, err
	}

	e.ID, err = uuid.Parse(uid)
	if err != nil {
		return Event{}, fmt.Errorf("invalid event uid %q: %w", uid, err)
	}
	e.StartTime = time.UnixMilli(startMillis).In(time.Local)
	e.EndTime = time.UnixMilli(endMillis).In(time.Local)
	e.Type = Type(eventType)
	e.Status = Status(status)
	e.Platform = Platform(platform)
	e.OwnerID = int(ownerID.Int64)
	e.CourseID = int(courseID.Int64)
	e.OwnerName = UnknownOwnerName
	if name := strings.TrimSpace(firstName.String + " " + lastName.String); name != "" {
		e.OwnerName = name
	}
	return e, nil
}

func nullableID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}
