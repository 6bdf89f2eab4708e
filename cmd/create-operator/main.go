package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/repository"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/pkg/config"
	"github.com/noah-isme/portfolio-api/pkg/database"
	"github.com/noah-isme/portfolio-api/pkg/logger"
)

// create-operator provisions a back-office account. The password is read from
// OPERATOR_PASSWORD so it does not end up in shell history.
func main() {
	var (
		email    string
		fullName string
		role     string
		timeout  time.Duration
	)

	flag.StringVar(&email, "email", "", "Operator email address")
	flag.StringVar(&fullName, "name", "", "Operator display name")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "Operator role (ADMIN, STAFF or VIEWER)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Database timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	svc := service.NewOperatorService(repository.NewUserRepository(db), validator.New(), logr)
	info, err := svc.Create(ctx, service.CreateOperatorRequest{
		Email:    email,
		FullName: fullName,
		Role:     models.UserRole(strings.ToUpper(role)),
		Password: os.Getenv("OPERATOR_PASSWORD"),
	}, nil)
	if err != nil {
		logr.Fatal("failed to create operator", zap.Error(err))
	}

	logr.Info("operator ready", zap.String("id", info.ID), zap.String("email", info.Email), zap.String("role", string(info.Role)))
}
