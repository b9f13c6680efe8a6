package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"teamsite/backend/internal/auth"
	"teamsite/backend/internal/config"
	"teamsite/backend/internal/domain"
	"teamsite/backend/internal/storage"
	"teamsite/backend/internal/storage/postgres"
)

// 创建管理员账户。数据库连接取自 TEAMSITE_DATABASE_* 环境变量。
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: create-admin <email> <password> [name] [super|admin]")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]
	name := ""
	if len(os.Args) >= 4 {
		name = os.Args[3]
	}
	role := domain.RoleAdmin
	if len(os.Args) >= 5 && os.Args[4] == "super" {
		role = domain.RoleSuper
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Failed to connect storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if !auth.ValidateEmail(email) {
		fmt.Println("Invalid email format")
		os.Exit(1)
	}

	if err := auth.ValidatePassword(password); err != nil {
		fmt.Printf("Invalid password: %v\n", err)
		os.Exit(1)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		fmt.Printf("Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := store.CreateUser(user); err != nil {
		fmt.Printf("Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Admin user created successfully!\n")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  Role:  %s\n", user.Role)
}

func openStore(cfg *config.Config) (storage.Store, error) {
	opts := postgres.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	switch cfg.Database.Type {
	case "postgres":
		return postgres.NewStore(cfg.Database.DSN, opts)
	case "mysql":
		return postgres.NewMySQLStore(cfg.Database.DSN, opts)
	default:
		return nil, fmt.Errorf("database.type must be postgres or mysql (got %q)", cfg.Database.Type)
	}
}
