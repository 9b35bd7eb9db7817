package service

import (
	"context"
	"time"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

type AdminService struct {
	repo *db.Postgres
}

func NewAdminService(repo *db.Postgres) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeErr(err)
	}

	profiles := make([]model.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}

func (s *AdminService) ChangeRole(ctx context.Context, userID int64, role string) (*model.UserProfile, error) {
	if !model.ValidRole(role) {
		return nil, apperr.InvalidRole()
	}

	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.UserNotFound()
		}
		return nil, storeErr(err)
	}

	updated, err := s.repo.UpdateUserRole(ctx, userID, model.Role(role))
	if err != nil {
		return nil, storeErr(err)
	}
	profile := updated.Profile()
	return &profile, nil
}

func (s *AdminService) Deactivate(ctx context.Context, userID int64) (*model.UserProfile, error) {
	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.UserNotFound()
		}
		return nil, storeErr(err)
	}

	updated, err := s.repo.UpdateUserStatus(ctx, userID, model.StatusInactive)
	if err != nil {
		return nil, storeErr(err)
	}
	profile := updated.Profile()
	return &profile, nil
}

func (s *AdminService) UserAttendance(ctx context.Context, userID int64) (*model.UserAttendanceResponse, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.UserNotFound()
		}
		return nil, storeErr(err)
	}

	records, err := s.repo.ListRecordsByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if records == nil {
		records = []model.RecordWithSession{}
	}

	return &model.UserAttendanceResponse{User: user.Profile(), Records: records}, nil
}

func (s *AdminService) Studies(ctx context.Context, status string, page, size int) (*model.Page[model.StudyListItem], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	total, err := s.repo.CountStudies(ctx, status)
	if err != nil {
		return nil, storeErr(err)
	}

	items, err := s.repo.ListStudies(ctx, status, (page-1)*size, size)
	if err != nil {
		return nil, storeErr(err)
	}
	if items == nil {
		items = []model.StudyListItem{}
	}

	totalPages := total / int64(size)
	if total%int64(size) != 0 {
		totalPages++
	}

	return &model.Page[model.StudyListItem]{
		Items:      items,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *AdminService) StatsOverview(ctx context.Context) (*model.StatsOverview, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &model.StatsOverview{}
	var err error

	if stats.Users.Total, err = s.repo.CountUsers(ctx); err != nil {
		return nil, storeErr(err)
	}
	if stats.Users.Active, err = s.repo.CountUsersByStatus(ctx, model.StatusActive); err != nil {
		return nil, storeErr(err)
	}
	if stats.Users.Admins, err = s.repo.CountUsersByRole(ctx, model.RoleAdmin); err != nil {
		return nil, storeErr(err)
	}
	if stats.Studies.Total, err = s.repo.CountStudies(ctx, ""); err != nil {
		return nil, storeErr(err)
	}
	if stats.Studies.Recruiting, err = s.repo.CountStudies(ctx, string(model.StudyRecruiting)); err != nil {
		return nil, storeErr(err)
	}
	if stats.Attendance.SessionsTotal, err = s.repo.CountSessions(ctx); err != nil {
		return nil, storeErr(err)
	}
	if stats.Attendance.SessionsToday, err = s.repo.CountSessionsSince(ctx, midnight); err != nil {
		return nil, storeErr(err)
	}
	if stats.Attendance.Records, err = s.repo.CountRecords(ctx); err != nil {
		return nil, storeErr(err)
	}
	if stats.Attendance.PendingMembers, err = s.repo.CountPendingMembers(ctx); err != nil {
		return nil, storeErr(err)
	}

	return stats, nil
}
