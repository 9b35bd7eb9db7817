package model

import "time"

// ErrorResponse is the uniform failure shape. Code is stable and safe for
// client branching; Message is human-readable only.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type StudyEnvelope struct {
	Study Study `json:"study"`
}

type MembershipEnvelope struct {
	Membership StudyMember `json:"membership"`
}

type SessionEnvelope struct {
	Session AttendanceSession `json:"session"`
}

type RecordEnvelope struct {
	Record AttendanceRecord `json:"record"`
}

type UsersEnvelope struct {
	Users []UserProfile `json:"users"`
}

type UserEnvelope struct {
	User UserProfile `json:"user"`
}

type UserAttendanceResponse struct {
	User    UserProfile         `json:"user"`
	Records []RecordWithSession `json:"records"`
}

// Page is the paginated listing envelope used by the admin study index.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type StatsOverview struct {
	Users      UserStats       `json:"users"`
	Studies    StudyStats      `json:"studies"`
	Attendance AttendanceStats `json:"attendance"`
}

type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Admins int64 `json:"admins"`
}

type StudyStats struct {
	Total      int64 `json:"total"`
	Recruiting int64 `json:"recruiting"`
}

type AttendanceStats struct {
	SessionsTotal  int64 `json:"sessionsTotal"`
	SessionsToday  int64 `json:"sessionsToday"`
	Records        int64 `json:"records"`
	PendingMembers int64 `json:"pendingMembers"`
}
