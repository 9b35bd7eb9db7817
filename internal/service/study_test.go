package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

type memberKey struct {
	studyID int64
	userID  int64
}

// fakeStudyStore mirrors the schema's uniqueness: one membership per
// (study, user), one attendance record per (session, user).
type fakeStudyStore struct {
	nextID   int64
	studies  map[int64]*model.Study
	members  map[memberKey]*model.StudyMember
	sessions map[int64]*model.AttendanceSession
	records  map[memberKey]*model.AttendanceRecord
}

func newFakeStudyStore() *fakeStudyStore {
	return &fakeStudyStore{
		studies:  make(map[int64]*model.Study),
		members:  make(map[memberKey]*model.StudyMember),
		sessions: make(map[int64]*model.AttendanceSession),
		records:  make(map[memberKey]*model.AttendanceRecord),
	}
}

func (f *fakeStudyStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStudyStore) CreateStudyWithLeader(_ context.Context, params db.NewStudy) (*model.Study, error) {
	study := &model.Study{
		ID:          f.id(),
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		MaxMembers:  params.MaxMembers,
		LeaderID:    params.LeaderID,
		Status:      model.StudyRecruiting,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.studies[study.ID] = study
	f.members[memberKey{study.ID, params.LeaderID}] = &model.StudyMember{
		ID:         f.id(),
		StudyID:    study.ID,
		UserID:     params.LeaderID,
		MemberRole: model.MemberRoleLeader,
		Status:     model.MemberApproved,
		JoinedAt:   time.Now(),
	}
	return study, nil
}

func (f *fakeStudyStore) FindStudyByID(_ context.Context, studyID int64) (*model.Study, error) {
	if study, ok := f.studies[studyID]; ok {
		return study, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStudyStore) IsStudyLeader(_ context.Context, studyID, userID int64) (bool, error) {
	member, ok := f.members[memberKey{studyID, userID}]
	return ok && member.MemberRole == model.MemberRoleLeader, nil
}

func (f *fakeStudyStore) FindMembership(_ context.Context, studyID, userID int64) (*model.StudyMember, error) {
	if member, ok := f.members[memberKey{studyID, userID}]; ok {
		return member, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStudyStore) InsertMember(_ context.Context, studyID, userID int64, role model.MemberRole, status model.MemberStatus) (*model.StudyMember, error) {
	key := memberKey{studyID, userID}
	if _, exists := f.members[key]; exists {
		return nil, &pgconn.PgError{Code: "23505", ConstraintName: "study_members_study_id_user_id_key"}
	}
	member := &model.StudyMember{
		ID:         f.id(),
		StudyID:    studyID,
		UserID:     userID,
		MemberRole: role,
		Status:     status,
		JoinedAt:   time.Now(),
	}
	f.members[key] = member
	return member, nil
}

func (f *fakeStudyStore) CountApprovedMembers(_ context.Context, studyID int64) (int64, error) {
	var count int64
	for key, member := range f.members {
		if key.studyID == studyID && member.Status == model.MemberApproved {
			count++
		}
	}
	return count, nil
}

func (f *fakeStudyStore) CreateSession(_ context.Context, studyID int64, title string, date time.Time) (*model.AttendanceSession, error) {
	session := &model.AttendanceSession{
		ID:        f.id(),
		StudyID:   studyID,
		Title:     title,
		Date:      date,
		CreatedAt: time.Now(),
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeStudyStore) FindSessionByID(_ context.Context, sessionID int64) (*model.AttendanceSession, error) {
	if session, ok := f.sessions[sessionID]; ok {
		return session, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStudyStore) UpsertAttendance(_ context.Context, sessionID, userID int64, status model.AttendanceStatus) (*model.AttendanceRecord, error) {
	key := memberKey{sessionID, userID}
	if record, ok := f.records[key]; ok {
		record.Status = status
		record.RecordedAt = time.Now()
		return record, nil
	}
	record := &model.AttendanceRecord{
		ID:         f.id(),
		SessionID:  sessionID,
		UserID:     userID,
		Status:     status,
		RecordedAt: time.Now(),
	}
	f.records[key] = record
	return record, nil
}

func (f *fakeStudyStore) AttendanceSummaryByStudy(_ context.Context, studyID int64) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, record := range f.records {
		session, ok := f.sessions[record.SessionID]
		if !ok || session.StudyID != studyID {
			continue
		}
		counts[string(record.Status)]++
	}
	return counts, nil
}

func intPtr(v int) *int { return &v }

func TestCreateStudy(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, err := svc.CreateStudy(ctx, 1, "Go Study", "Weekly deep dives", nil, intPtr(5))
	if err != nil {
		t.Fatalf("CreateStudy() error = %v", err)
	}
	if study.LeaderID != 1 || study.Status != model.StudyRecruiting {
		t.Fatalf("unexpected study %+v", study)
	}

	// The creator is enrolled as an approved leader in the same step.
	leader, err := store.FindMembership(ctx, study.ID, 1)
	if err != nil {
		t.Fatalf("leader membership missing: %v", err)
	}
	if leader.MemberRole != model.MemberRoleLeader || leader.Status != model.MemberApproved {
		t.Fatalf("unexpected leader membership %+v", leader)
	}

	_, err = svc.CreateStudy(ctx, 1, "", "missing title", nil, nil)
	if code := errCode(t, err); code != "INVALID_PAYLOAD" {
		t.Fatalf("code = %s, want INVALID_PAYLOAD", code)
	}
	_, err = svc.CreateStudy(ctx, 1, "Bad cap", "zero members", nil, intPtr(0))
	if code := errCode(t, err); code != "INVALID_PAYLOAD" {
		t.Fatalf("code = %s, want INVALID_PAYLOAD", code)
	}
}

func TestJoinStudy(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, err := svc.CreateStudy(ctx, 1, "Capped Study", "Two seats only", nil, intPtr(2))
	if err != nil {
		t.Fatalf("CreateStudy() error = %v", err)
	}

	member, err := svc.JoinStudy(ctx, study.ID, 2)
	if err != nil {
		t.Fatalf("JoinStudy() error = %v", err)
	}
	if member.MemberRole != model.MemberRoleMember || member.Status != model.MemberApproved {
		t.Fatalf("unexpected membership %+v", member)
	}

	_, err = svc.JoinStudy(ctx, study.ID, 2)
	if code := errCode(t, err); code != "ALREADY_JOINED" {
		t.Fatalf("rejoin code = %s, want ALREADY_JOINED", code)
	}

	// Leader plus one member fills the two seats.
	_, err = svc.JoinStudy(ctx, study.ID, 3)
	if code := errCode(t, err); code != "STUDY_FULL" {
		t.Fatalf("full-study code = %s, want STUDY_FULL", code)
	}

	_, err = svc.JoinStudy(ctx, 999, 4)
	if code := errCode(t, err); code != "STUDY_NOT_FOUND" {
		t.Fatalf("missing-study code = %s, want STUDY_NOT_FOUND", code)
	}
}

func TestJoinStudyUnlimitedWhenUncapped(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, err := svc.CreateStudy(ctx, 1, "Open Study", "No member cap", nil, nil)
	if err != nil {
		t.Fatalf("CreateStudy() error = %v", err)
	}

	for userID := int64(2); userID <= 20; userID++ {
		if _, err := svc.JoinStudy(ctx, study.ID, userID); err != nil {
			t.Fatalf("JoinStudy(user %d) error = %v", userID, err)
		}
	}
}

func TestCreateSession(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, err := svc.CreateStudy(ctx, 1, "Session Study", "desc", nil, nil)
	if err != nil {
		t.Fatalf("CreateStudy() error = %v", err)
	}

	date := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	session, err := svc.CreateSession(ctx, study.ID, "Week 1", date)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if session.StudyID != study.ID || !session.Date.Equal(date) {
		t.Fatalf("unexpected session %+v", session)
	}

	_, err = svc.CreateSession(ctx, study.ID, "", date)
	if code := errCode(t, err); code != "INVALID_PAYLOAD" {
		t.Fatalf("code = %s, want INVALID_PAYLOAD", code)
	}
	_, err = svc.CreateSession(ctx, 999, "Week 1", date)
	if code := errCode(t, err); code != "STUDY_NOT_FOUND" {
		t.Fatalf("code = %s, want STUDY_NOT_FOUND", code)
	}
}

func TestRecordAttendance(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, _ := svc.CreateStudy(ctx, 1, "Attendance Study", "desc", nil, nil)
	other, _ := svc.CreateStudy(ctx, 9, "Other Study", "desc", nil, nil)
	session, _ := svc.CreateSession(ctx, study.ID, "Week 1", time.Now())
	foreign, _ := svc.CreateSession(ctx, other.ID, "Week 1", time.Now())

	if _, err := svc.JoinStudy(ctx, study.ID, 2); err != nil {
		t.Fatalf("JoinStudy() error = %v", err)
	}

	record, err := svc.RecordAttendance(ctx, study.ID, session.ID, 2, "PRESENT")
	if err != nil {
		t.Fatalf("RecordAttendance() error = %v", err)
	}
	if record.Status != model.AttendancePresent {
		t.Fatalf("status = %s, want PRESENT", record.Status)
	}

	// A second submission replaces the first record instead of duplicating.
	updated, err := svc.RecordAttendance(ctx, study.ID, session.ID, 2, "LATE")
	if err != nil {
		t.Fatalf("second RecordAttendance() error = %v", err)
	}
	if updated.ID != record.ID || updated.Status != model.AttendanceLate {
		t.Fatalf("expected in-place update, got %+v", updated)
	}

	_, err = svc.RecordAttendance(ctx, study.ID, session.ID, 2, "SLEEPING")
	if code := errCode(t, err); code != "INVALID_STATUS" {
		t.Fatalf("code = %s, want INVALID_STATUS", code)
	}

	_, err = svc.RecordAttendance(ctx, study.ID, session.ID, 7, "PRESENT")
	if code := errCode(t, err); code != "NOT_A_MEMBER" {
		t.Fatalf("non-member code = %s, want NOT_A_MEMBER", code)
	}

	// A session belonging to another study is invisible here.
	_, err = svc.RecordAttendance(ctx, study.ID, foreign.ID, 2, "PRESENT")
	if code := errCode(t, err); code != "SESSION_NOT_FOUND" {
		t.Fatalf("foreign-session code = %s, want SESSION_NOT_FOUND", code)
	}
}

func TestRecordAttendanceRequiresApprovedMembership(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, _ := svc.CreateStudy(ctx, 1, "Pending Study", "desc", nil, nil)
	session, _ := svc.CreateSession(ctx, study.ID, "Week 1", time.Now())

	if _, err := store.InsertMember(ctx, study.ID, 2, model.MemberRoleMember, model.MemberPending); err != nil {
		t.Fatalf("InsertMember() error = %v", err)
	}

	_, err := svc.RecordAttendance(ctx, study.ID, session.ID, 2, "PRESENT")
	if code := errCode(t, err); code != "NOT_A_MEMBER" {
		t.Fatalf("pending-member code = %s, want NOT_A_MEMBER", code)
	}
}

func TestAttendanceSummary(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, _ := svc.CreateStudy(ctx, 1, "Summary Study", "desc", nil, nil)
	session, _ := svc.CreateSession(ctx, study.ID, "Week 1", time.Now())

	for userID := int64(2); userID <= 4; userID++ {
		if _, err := svc.JoinStudy(ctx, study.ID, userID); err != nil {
			t.Fatalf("JoinStudy() error = %v", err)
		}
	}
	mustRecord := func(userID int64, status string) {
		t.Helper()
		if _, err := svc.RecordAttendance(ctx, study.ID, session.ID, userID, status); err != nil {
			t.Fatalf("RecordAttendance(%d, %s) error = %v", userID, status, err)
		}
	}
	mustRecord(2, "PRESENT")
	mustRecord(3, "PRESENT")
	mustRecord(4, "ABSENT")

	summary, err := svc.AttendanceSummary(ctx, study.ID)
	if err != nil {
		t.Fatalf("AttendanceSummary() error = %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d, want 3", summary.Total)
	}
	if summary.Counts["PRESENT"] != 2 || summary.Counts["ABSENT"] != 1 {
		t.Fatalf("counts = %v", summary.Counts)
	}
}

func TestIsLeader(t *testing.T) {
	store := newFakeStudyStore()
	svc := NewStudyService(store)
	ctx := context.Background()

	study, _ := svc.CreateStudy(ctx, 1, "Leader Study", "desc", nil, nil)
	if _, err := svc.JoinStudy(ctx, study.ID, 2); err != nil {
		t.Fatalf("JoinStudy() error = %v", err)
	}

	for _, tc := range []struct {
		userID int64
		want   bool
	}{
		{1, true},
		{2, false},
		{3, false},
	} {
		got, err := svc.IsLeader(ctx, study.ID, tc.userID)
		if err != nil {
			t.Fatalf("IsLeader(%d) error = %v", tc.userID, err)
		}
		if got != tc.want {
			t.Fatalf("IsLeader(%d) = %v, want %v", tc.userID, got, tc.want)
		}
	}
}
