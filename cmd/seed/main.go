package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pollbox/internal/config"
	"pollbox/internal/db"
	"pollbox/internal/model"
	"pollbox/internal/repository"
)

// Seeds an admin account and a couple of demo polls so a fresh install has
// something to show. Idempotent: existing rows are left alone.
func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Poll{}, &model.Vote{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	pollRepo := repository.NewPollRepository(gormDB)

	adminEmail := getEnv("ADMIN_EMAIL", "admin@pollbox.local")
	adminPassword := getEnv("ADMIN_PASSWORD", "Admin#2024pollbox")

	admin, err := userRepo.FindByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		log.Printf("Admin account %s already exists, skipping", adminEmail)
	case err == gorm.ErrRecordNotFound:
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin = &model.User{
			Name:         "Administrator",
			Email:        adminEmail,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
		log.Printf("Created admin account %s", adminEmail)
	default:
		log.Fatalf("Failed to look up admin account: %v", err)
	}

	demoPolls := []model.Poll{
		{
			UserID:   admin.ID,
			Question: "Which feature should we build next?",
			Options:  []string{"Poll expiration", "Result charts", "Email invites"},
			IsPublic: true,
		},
		{
			UserID:   admin.ID,
			Question: "How did you hear about us?",
			Options:  []string{"Search", "A friend", "Social media", "Other"},
			IsPublic: true,
		},
	}

	existing, err := pollRepo.ListByOwner(ctx, admin.ID)
	if err != nil {
		log.Fatalf("Failed to list admin polls: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Admin already owns %d polls, skipping demo polls", len(existing))
		return
	}

	for i := range demoPolls {
		if err := pollRepo.Create(ctx, &demoPolls[i]); err != nil {
			log.Fatalf("Failed to create demo poll: %v", err)
		}
	}
	log.Printf("Created %d demo polls", len(demoPolls))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
