package model

import "time"

type StudyStatus string

const (
	StudyRecruiting StudyStatus = "RECRUITING"
	StudyClosed     StudyStatus = "CLOSED"
)

type MemberRole string

const (
	MemberRoleLeader MemberRole = "LEADER"
	MemberRoleMember MemberRole = "MEMBER"
)

type MemberStatus string

const (
	MemberApproved MemberStatus = "APPROVED"
	MemberPending  MemberStatus = "PENDING"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
)

func ValidAttendanceStatus(s string) bool {
	switch AttendanceStatus(s) {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	}
	return false
}

type CreateStudyRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    *string `json:"category"`
	MaxMembers  *int    `json:"maxMembers"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type AttendanceRequest struct {
	Status string `json:"status"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}

type Study struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    *string     `json:"category"`
	MaxMembers  *int        `json:"maxMembers"`
	LeaderID    int64       `json:"leaderId"`
	Status      StudyStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type StudyMember struct {
	ID         int64        `json:"id"`
	StudyID    int64        `json:"studyId"`
	UserID     int64        `json:"userId"`
	MemberRole MemberRole   `json:"memberRole"`
	Status     MemberStatus `json:"status"`
	JoinedAt   time.Time    `json:"joinedAt"`
}

type AttendanceSession struct {
	ID        int64     `json:"id"`
	StudyID   int64     `json:"studyId"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

type AttendanceRecord struct {
	ID         int64            `json:"id"`
	SessionID  int64            `json:"sessionId"`
	UserID     int64            `json:"userId"`
	Status     AttendanceStatus `json:"status"`
	RecordedAt time.Time        `json:"recordedAt"`
}

// Joined views used by the "my studies" / "my attendance" endpoints.

type MembershipWithStudy struct {
	StudyMember
	Study Study `json:"study"`
}

type RecordWithSession struct {
	AttendanceRecord
	Session AttendanceSession `json:"session"`
	Study   Study             `json:"study"`
}

// StudyListItem is the admin listing row with aggregate counts and the
// leader summary inlined.
type StudyListItem struct {
	Study
	Leader       LeaderSummary `json:"leader"`
	MemberCount  int64         `json:"memberCount"`
	SessionCount int64         `json:"sessionCount"`
}

type LeaderSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttendanceSummary struct {
	StudyID int64            `json:"studyId"`
	Total   int64            `json:"total"`
	Counts  map[string]int64 `json:"summary"`
}
