package main

import (
	"fmt"
	"log"
	"os"

	"github.com/suitloom/suitloom-backend/config"
	"github.com/suitloom/suitloom-backend/internal/app/model"
	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/internal/db"
	"github.com/suitloom/suitloom-backend/pkg/util"
)

// 관리자 계정을 생성하는 시드 스크립트.
// 비밀번호를 인자로 주지 않으면 임시 비밀번호를 생성해 출력한다.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <admin_email> [password]")
	}

	email := os.Args[1]
	password := ""
	if len(os.Args) >= 3 {
		password = os.Args[2]
	}

	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// DB 연결
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	existing, err := userRepo.FindByEmail(email)
	if err == nil && existing != nil {
		log.Fatalf("User already exists: %s", email)
	}

	generated := false
	if password == "" {
		password = fmt.Sprintf("suitloom-%06d", util.GenerateRandomNumber(100000, 999999))
		generated = true
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "관리자",
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Admin user created: %s (id=%d)\n", admin.Email, admin.ID)
	if generated {
		fmt.Printf("Temporary password: %s\n", password)
		fmt.Println("Change it after first login.")
	}
}
