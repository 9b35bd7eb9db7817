package service

import (
	"context"

	"github.com/gogo-study/backend/internal/apperr"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

type UserService struct {
	repo *db.Postgres
}

func NewUserService(repo *db.Postgres) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*model.UserProfile, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.UserNotFound()
		}
		return nil, storeErr(err)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *UserService) MyStudies(ctx context.Context, userID int64, role, status string) ([]model.MembershipWithStudy, error) {
	memberships, err := s.repo.ListMembershipsByUser(ctx, userID, role, status)
	if err != nil {
		return nil, storeErr(err)
	}
	if memberships == nil {
		memberships = []model.MembershipWithStudy{}
	}
	return memberships, nil
}

func (s *UserService) MyAttendance(ctx context.Context, userID int64) ([]model.RecordWithSession, error) {
	records, err := s.repo.ListRecordsByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	if records == nil {
		records = []model.RecordWithSession{}
	}
	return records, nil
}
