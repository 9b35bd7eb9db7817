package db

import (
	"context"
	"time"

	"github.com/gogo-study/backend/internal/model"
)

const sessionColumns = `id, study_id, title, date, created_at`

func scanSession(row interface{ Scan(dest ...any) error }) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := row.Scan(
		&session.ID,
		&session.StudyID,
		&session.Title,
		&session.Date,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (db *Postgres) CreateSession(ctx context.Context, studyID int64, title string, date time.Time) (*model.AttendanceSession, error) {
	query := `
		INSERT INTO attendance_sessions (study_id, title, date, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING ` + sessionColumns
	return scanSession(db.Pool.QueryRow(ctx, query, studyID, title, date))
}

func (db *Postgres) FindSessionByID(ctx context.Context, sessionID int64) (*model.AttendanceSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM attendance_sessions WHERE id = $1`
	return scanSession(db.Pool.QueryRow(ctx, query, sessionID))
}

// UpsertAttendance records or overwrites the member's status for a session.
// Re-submitting just moves the status, it never creates a second row.
func (db *Postgres) UpsertAttendance(ctx context.Context, sessionID, userID int64, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	query := `
		INSERT INTO attendance_records (session_id, user_id, status, recorded_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, user_id)
		DO UPDATE SET status = EXCLUDED.status, recorded_at = NOW()
		RETURNING id, session_id, user_id, status, recorded_at
	`
	var record model.AttendanceRecord
	err := db.Pool.QueryRow(ctx, query, sessionID, userID, status).Scan(
		&record.ID,
		&record.SessionID,
		&record.UserID,
		&record.Status,
		&record.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (db *Postgres) AttendanceSummaryByStudy(ctx context.Context, studyID int64) (map[string]int64, error) {
	query := `
		SELECT r.status, COUNT(*)
		FROM attendance_records r
		JOIN attendance_sessions s ON s.id = r.session_id
		WHERE s.study_id = $1
		GROUP BY r.status
	`
	rows, err := db.Pool.Query(ctx, query, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := make(map[string]int64)
	for rows.Next() {
		var status string
		var total int64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}
		summary[status] = total
	}
	return summary, rows.Err()
}

func (db *Postgres) ListRecordsByUser(ctx context.Context, userID int64) ([]model.RecordWithSession, error) {
	query := `
		SELECT r.id, r.session_id, r.user_id, r.status, r.recorded_at,
		       s.id, s.study_id, s.title, s.date, s.created_at,
		       st.id, st.title, st.description, st.category, st.max_members, st.leader_id, st.status, st.created_at, st.updated_at
		FROM attendance_records r
		JOIN attendance_sessions s ON s.id = r.session_id
		JOIN studies st ON st.id = s.study_id
		WHERE r.user_id = $1
		ORDER BY r.recorded_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.RecordWithSession
	for rows.Next() {
		var r model.RecordWithSession
		err := rows.Scan(
			&r.ID, &r.SessionID, &r.UserID, &r.Status, &r.RecordedAt,
			&r.Session.ID, &r.Session.StudyID, &r.Session.Title, &r.Session.Date, &r.Session.CreatedAt,
			&r.Study.ID, &r.Study.Title, &r.Study.Description, &r.Study.Category,
			&r.Study.MaxMembers, &r.Study.LeaderID, &r.Study.Status,
			&r.Study.CreatedAt, &r.Study.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (db *Postgres) CountSessions(ctx context.Context) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM attendance_sessions`)
}

func (db *Postgres) CountSessionsSince(ctx context.Context, since time.Time) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM attendance_sessions WHERE date >= $1`, since)
}

func (db *Postgres) CountRecords(ctx context.Context) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM attendance_records`)
}
