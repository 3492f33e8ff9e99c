package main

import (
	"context"
	"flag"
	"time"

	"go-retail-admin/internal/config"
	"go-retail-admin/internal/model"
	"go-retail-admin/internal/repository"
	"go-retail-admin/pkg/database"
	"go-retail-admin/pkg/logger"

	"github.com/sirupsen/logrus"
)

// reset-password sets a user's password directly in the database, for operators locked
// out of the admin account. It bypasses the emailed reset link.
func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, ServiceName: "reset-password"})

	email := flag.String("email", cfg.AdminEmail, "email of the account to reset")
	password := flag.String("password", cfg.AdminPassword, "new password")
	flag.Parse()

	if len(*password) < model.MinPasswordLength {
		log.Fatalf("password must be at least %d characters", model.MinPasswordLength)
	}

	// 1. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, "warn")
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	users := repository.NewStore(db).Users()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 2. Find user
	user, err := users.FindByEmail(ctx, *email)
	if err != nil {
		log.WithError(err).WithField("email", *email).Fatal("user not found")
	}

	// 3. Hash and update
	if err := user.SetPassword(*password); err != nil {
		log.WithError(err).Fatal("failed to hash password")
	}
	if err := users.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		log.WithError(err).Fatal("failed to update password")
	}

	log.WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Info("password has been reset")
}
