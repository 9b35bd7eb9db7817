package db

import (
	"context"

	"github.com/gogo-study/backend/internal/model"
)

const studyColumns = `id, title, description, category, max_members, leader_id, status, created_at, updated_at`

func scanStudy(row interface{ Scan(dest ...any) error }) (*model.Study, error) {
	var study model.Study
	err := row.Scan(
		&study.ID,
		&study.Title,
		&study.Description,
		&study.Category,
		&study.MaxMembers,
		&study.LeaderID,
		&study.Status,
		&study.CreatedAt,
		&study.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &study, nil
}

type NewStudy struct {
	Title       string
	Description string
	Category    *string
	MaxMembers  *int
	LeaderID    int64
}

// CreateStudyWithLeader inserts the study and the leader's APPROVED
// membership in one transaction so a study never exists without its leader.
func (db *Postgres) CreateStudyWithLeader(ctx context.Context, params NewStudy) (*model.Study, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO studies (title, description, category, max_members, leader_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING `+studyColumns,
		params.Title, params.Description, params.Category, params.MaxMembers, params.LeaderID,
	)
	study, err := scanStudy(row)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO study_members (study_id, user_id, member_role, status, joined_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, study.ID, params.LeaderID, model.MemberRoleLeader, model.MemberApproved); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return study, nil
}

func (db *Postgres) FindStudyByID(ctx context.Context, studyID int64) (*model.Study, error) {
	query := `SELECT ` + studyColumns + ` FROM studies WHERE id = $1`
	return scanStudy(db.Pool.QueryRow(ctx, query, studyID))
}

func (db *Postgres) IsStudyLeader(ctx context.Context, studyID, userID int64) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM studies WHERE id = $1 AND leader_id = $2)`,
		studyID, userID,
	).Scan(&exists)
	return exists, err
}

const memberColumns = `id, study_id, user_id, member_role, status, joined_at`

func scanMember(row interface{ Scan(dest ...any) error }) (*model.StudyMember, error) {
	var member model.StudyMember
	err := row.Scan(
		&member.ID,
		&member.StudyID,
		&member.UserID,
		&member.MemberRole,
		&member.Status,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (db *Postgres) FindMembership(ctx context.Context, studyID, userID int64) (*model.StudyMember, error) {
	query := `SELECT ` + memberColumns + ` FROM study_members WHERE study_id = $1 AND user_id = $2`
	return scanMember(db.Pool.QueryRow(ctx, query, studyID, userID))
}

func (db *Postgres) InsertMember(ctx context.Context, studyID, userID int64, role model.MemberRole, status model.MemberStatus) (*model.StudyMember, error) {
	query := `
		INSERT INTO study_members (study_id, user_id, member_role, status, joined_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + memberColumns
	return scanMember(db.Pool.QueryRow(ctx, query, studyID, userID, role, status))
}

func (db *Postgres) CountApprovedMembers(ctx context.Context, studyID int64) (int64, error) {
	return db.count(ctx,
		`SELECT COUNT(*) FROM study_members WHERE study_id = $1 AND status = $2`,
		studyID, model.MemberApproved,
	)
}

// ListMembershipsByUser returns the user's memberships with each study
// inlined, newest first. Empty filters match everything.
func (db *Postgres) ListMembershipsByUser(ctx context.Context, userID int64, role, status string) ([]model.MembershipWithStudy, error) {
	query := `
		SELECT m.id, m.study_id, m.user_id, m.member_role, m.status, m.joined_at,
		       s.id, s.title, s.description, s.category, s.max_members, s.leader_id, s.status, s.created_at, s.updated_at
		FROM study_members m
		JOIN studies s ON s.id = m.study_id
		WHERE m.user_id = $1
		  AND ($2 = '' OR m.member_role = $2)
		  AND ($3 = '' OR m.status = $3)
		ORDER BY m.joined_at DESC
	`
	rows, err := db.Pool.Query(ctx, query, userID, role, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []model.MembershipWithStudy
	for rows.Next() {
		var m model.MembershipWithStudy
		err := rows.Scan(
			&m.ID, &m.StudyID, &m.UserID, &m.MemberRole, &m.Status, &m.JoinedAt,
			&m.Study.ID, &m.Study.Title, &m.Study.Description, &m.Study.Category,
			&m.Study.MaxMembers, &m.Study.LeaderID, &m.Study.Status,
			&m.Study.CreatedAt, &m.Study.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// ListStudies is the admin index: studies with leader summary and aggregate
// counts, filtered by status and paginated.
func (db *Postgres) ListStudies(ctx context.Context, status string, offset, limit int) ([]model.StudyListItem, error) {
	query := `
		SELECT s.id, s.title, s.description, s.category, s.max_members, s.leader_id, s.status, s.created_at, s.updated_at,
		       u.id, u.name, u.email,
		       (SELECT COUNT(*) FROM study_members m WHERE m.study_id = s.id),
		       (SELECT COUNT(*) FROM attendance_sessions a WHERE a.study_id = s.id)
		FROM studies s
		JOIN users u ON u.id = s.leader_id
		WHERE ($1 = '' OR s.status = $1)
		ORDER BY s.created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := db.Pool.Query(ctx, query, status, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.StudyListItem
	for rows.Next() {
		var item model.StudyListItem
		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Category,
			&item.MaxMembers, &item.LeaderID, &item.Status,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Leader.ID, &item.Leader.Name, &item.Leader.Email,
			&item.MemberCount, &item.SessionCount,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (db *Postgres) CountStudies(ctx context.Context, status string) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM studies WHERE ($1 = '' OR status = $1)`, status)
}

func (db *Postgres) CountPendingMembers(ctx context.Context) (int64, error) {
	return db.count(ctx, `SELECT COUNT(*) FROM study_members WHERE status = $1`, model.MemberPending)
}
