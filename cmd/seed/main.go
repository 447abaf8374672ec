package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/db"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/service"
)

// AdminSeed describes the administrator account to ensure.
type AdminSeed struct {
	Email    string
	Password string
	Name     string
}

func main() {
	var seed AdminSeed
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.StringVar(&seed.Email, "email", "admin@example.com", "administrator email")
	flags.StringVar(&seed.Password, "password", "admin123", "administrator password")
	flags.StringVar(&seed.Name, "name", "Admin User", "administrator display name")
	_ = flags.Parse(os.Args[1:])

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := seedAdmin(ctx, repository.NewUserRepository(gormDB), seed)
	if err != nil {
		log.Fatalf("Failed to seed administrator: %v", err)
	}
	if created {
		log.Printf("Created administrator %s", service.NormalizeEmail(seed.Email))
	} else {
		log.Printf("Updated administrator %s", service.NormalizeEmail(seed.Email))
	}
	log.Println("Seed completed")
}

// seedAdmin creates the administrator or resets an existing account to an
// active admin with the given password. It reports whether a row was created.
func seedAdmin(ctx context.Context, repo repository.UserRepository, seed AdminSeed) (bool, error) {
	email := service.NormalizeEmail(seed.Email)
	if email == "" || seed.Password == "" {
		return false, errors.New("email and password are required")
	}

	hash, err := auth.HashPassword(seed.Password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("error checking user %s: %w", email, err)
	}

	if existing != nil {
		existing.Name = seed.Name
		existing.PasswordHash = hash
		existing.Role = model.RoleAdmin
		existing.IsActive = true
		if err := repo.Update(ctx, existing); err != nil {
			return false, fmt.Errorf("error updating user %s: %w", email, err)
		}
		return false, nil
	}

	user := &model.User{
		Name:         seed.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return false, fmt.Errorf("error creating user %s: %w", email, err)
	}
	return true, nil
}
