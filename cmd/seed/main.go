// 개발용 시드 데이터 생성 커맨드
//
// 기존 데이터를 모두 지우고 사용자 20명, 스터디 10개(스터디당 세션 3개),
// 무작위 출석 기록을 넣는다. 운영 환경에서 실행 금지.

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/gogo-study/backend/internal/config"
	"github.com/gogo-study/backend/internal/db"
	"github.com/gogo-study/backend/internal/model"
)

const (
	userCount        = 20
	studyCount       = 10
	sessionsPerStudy = 3
	seedPassword     = "Password123!"
)

var studyTitles = []string{
	"TypeScript Mastery",
	"Backend Bootcamp",
	"Frontend Craft",
	"Cloud Builders",
	"System Design Lab",
	"AI Study Group",
	"Algorithm Arena",
	"Product Builders",
	"Database Deep Dive",
	"DevOps Journey",
}

var categories = []string{"WEB", "MOBILE", "AI", "BACKEND", "FRONTEND"}

var attendanceStatuses = []model.AttendanceStatus{
	model.AttendancePresent,
	model.AttendanceLate,
	model.AttendanceAbsent,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("postgres init failed: %v", err)
	}
	defer pool.Close()

	repo := db.New(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("schema init failed: %v", err)
	}

	if _, err := pool.Exec(ctx, `
		TRUNCATE attendance_records, attendance_sessions, study_members, studies, users
		RESTART IDENTITY CASCADE
	`); err != nil {
		log.Fatalf("failed to clear database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	users := make([]*model.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user, err := repo.CreateUser(ctx, db.NewUser{
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			PasswordHash: string(hash),
			Name:         fmt.Sprintf("User %d", i+1),
			Provider:     model.ProviderLocal,
		})
		if err != nil {
			log.Fatalf("failed to create user: %v", err)
		}
		users = append(users, user)
	}

	// 첫 번째 사용자는 관리자
	if _, err := repo.UpdateUserRole(ctx, users[0].ID, model.RoleAdmin); err != nil {
		log.Fatalf("failed to promote admin: %v", err)
	}

	var memberCount, recordCount int
	for i := 0; i < studyCount; i++ {
		leader := users[i%len(users)]
		category := categories[rand.Intn(len(categories))]
		maxMembers := 30

		study, err := repo.CreateStudyWithLeader(ctx, db.NewStudy{
			Title:       studyTitles[i%len(studyTitles)],
			Description: fmt.Sprintf("Study %d for building skills together.", i+1),
			Category:    &category,
			MaxMembers:  &maxMembers,
			LeaderID:    leader.ID,
		})
		if err != nil {
			log.Fatalf("failed to create study: %v", err)
		}

		for _, user := range users {
			if user.ID == leader.ID {
				continue
			}
			if _, err := repo.InsertMember(ctx, study.ID, user.ID, model.MemberRoleMember, model.MemberApproved); err != nil {
				log.Fatalf("failed to add member: %v", err)
			}
			memberCount++
		}

		for idx := 0; idx < sessionsPerStudy; idx++ {
			session, err := repo.CreateSession(ctx, study.ID,
				fmt.Sprintf("Session %d", idx+1),
				time.Now().Add(-time.Duration(idx)*24*time.Hour),
			)
			if err != nil {
				log.Fatalf("failed to create session: %v", err)
			}

			for _, user := range users {
				status := attendanceStatuses[rand.Intn(len(attendanceStatuses))]
				if _, err := repo.UpsertAttendance(ctx, session.ID, user.ID, status); err != nil {
					log.Fatalf("failed to record attendance: %v", err)
				}
				recordCount++
			}
		}
	}

	log.Printf("seeded %d users, %d studies, %d study members, %d attendance records",
		len(users), studyCount, memberCount, recordCount)
}
