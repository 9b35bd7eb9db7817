package service

import (
	"context"
	"time"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

// StudyStore is the datastore contract for studies, memberships and
// attendance.
type StudyStore interface {
	CreateStudyWithLeader(ctx context.Context, params db.NewStudy) (*model.Study, error)
	FindStudyByID(ctx context.Context, studyID int64) (*model.Study, error)
	IsStudyLeader(ctx context.Context, studyID, userID int64) (bool, error)
	FindMembership(ctx context.Context, studyID, userID int64) (*model.StudyMember, error)
	InsertMember(ctx context.Context, studyID, userID int64, role model.MemberRole, status model.MemberStatus) (*model.StudyMember, error)
	CountApprovedMembers(ctx context.Context, studyID int64) (int64, error)
	CreateSession(ctx context.Context, studyID int64, title string, date time.Time) (*model.AttendanceSession, error)
	FindSessionByID(ctx context.Context, sessionID int64) (*model.AttendanceSession, error)
	UpsertAttendance(ctx context.Context, sessionID, userID int64, status model.AttendanceStatus) (*model.AttendanceRecord, error)
	AttendanceSummaryByStudy(ctx context.Context, studyID int64) (map[string]int64, error)
}

type StudyService struct {
	repo StudyStore
}

func NewStudyService(repo StudyStore) *StudyService {
	return &StudyService{repo: repo}
}

func (s *StudyService) CreateStudy(ctx context.Context, leaderID int64, title, description string, category *string, maxMembers *int) (*model.Study, error) {
	if title == "" || description == "" {
		return nil, apperr.InvalidPayload("title and description are required")
	}
	if maxMembers != nil && *maxMembers < 1 {
		return nil, apperr.InvalidPayload("maxMembers must be positive")
	}

	study, err := s.repo.CreateStudyWithLeader(ctx, db.NewStudy{
		Title:       title,
		Description: description,
		Category:    category,
		MaxMembers:  maxMembers,
		LeaderID:    leaderID,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return study, nil
}

func (s *StudyService) JoinStudy(ctx context.Context, studyID, userID int64) (*model.StudyMember, error) {
	study, err := s.repo.FindStudyByID(ctx, studyID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.StudyNotFound()
		}
		return nil, storeErr(err)
	}

	existing, err := s.repo.FindMembership(ctx, studyID, userID)
	if err != nil && !db.IsNoRows(err) {
		return nil, storeErr(err)
	}
	if existing != nil {
		return nil, apperr.AlreadyJoined()
	}

	if study.MaxMembers != nil {
		count, err := s.repo.CountApprovedMembers(ctx, studyID)
		if err != nil {
			return nil, storeErr(err)
		}
		if count >= int64(*study.MaxMembers) {
			return nil, apperr.StudyFull()
		}
	}

	member, err := s.repo.InsertMember(ctx, studyID, userID, model.MemberRoleMember, model.MemberApproved)
	if err != nil {
		// A concurrent join wins the unique (study_id, user_id) race.
		if db.IsUniqueViolation(err) {
			return nil, apperr.AlreadyJoined()
		}
		return nil, storeErr(err)
	}
	return member, nil
}

func (s *StudyService) CreateSession(ctx context.Context, studyID int64, title string, date time.Time) (*model.AttendanceSession, error) {
	if title == "" {
		return nil, apperr.InvalidPayload("title and date are required")
	}

	if _, err := s.repo.FindStudyByID(ctx, studyID); err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.StudyNotFound()
		}
		return nil, storeErr(err)
	}

	session, err := s.repo.CreateSession(ctx, studyID, title, date)
	if err != nil {
		return nil, storeErr(err)
	}
	return session, nil
}

// RecordAttendance upserts the caller's status for a session. Only APPROVED
// members of the owning study may record attendance.
func (s *StudyService) RecordAttendance(ctx context.Context, studyID, sessionID, userID int64, status string) (*model.AttendanceRecord, error) {
	if !model.ValidAttendanceStatus(status) {
		return nil, apperr.InvalidStatus()
	}

	membership, err := s.repo.FindMembership(ctx, studyID, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotAMember()
		}
		return nil, storeErr(err)
	}
	if membership.Status != model.MemberApproved {
		return nil, apperr.NotAMember()
	}

	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.SessionNotFound()
		}
		return nil, storeErr(err)
	}
	if session.StudyID != studyID {
		return nil, apperr.SessionNotFound()
	}

	record, err := s.repo.UpsertAttendance(ctx, sessionID, userID, model.AttendanceStatus(status))
	if err != nil {
		return nil, storeErr(err)
	}
	return record, nil
}

func (s *StudyService) AttendanceSummary(ctx context.Context, studyID int64) (*model.AttendanceSummary, error) {
	counts, err := s.repo.AttendanceSummaryByStudy(ctx, studyID)
	if err != nil {
		return nil, storeErr(err)
	}

	summary := &model.AttendanceSummary{StudyID: studyID, Counts: counts}
	for _, total := range counts {
		summary.Total += total
	}
	return summary, nil
}

// IsLeader backs the study-leader ownership check in the middleware.
func (s *StudyService) IsLeader(ctx context.Context, studyID, userID int64) (bool, error) {
	isLeader, err := s.repo.IsStudyLeader(ctx, studyID, userID)
	if err != nil {
		return false, storeErr(err)
	}
	return isLeader, nil
}
