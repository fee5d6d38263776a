package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/repository/postgres"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/ogurasousui/attendance-payroll/internal/platform/auth"
	"github.com/ogurasousui/attendance-payroll/internal/platform/config"
	pg "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
)

// envAdminPassword は作成する管理者の初期パスワードを渡す環境変数です。
const envAdminPassword = "ATTENDANCE_ADMIN_PASSWORD"

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		email      = flag.String("email", "", "admin email address")
		firstName  = flag.String("first", "", "admin first name")
		lastName   = flag.String("last", "", "admin last name")
	)
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	password := os.Getenv(envAdminPassword)
	if password == "" {
		log.Fatalf("%s must be set", envAdminPassword)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	svc := profile.NewService(postgres.NewProfileRepository(dbPool), auth.NewBcryptHasher(auth.DefaultBcryptCost), nil, nil)
	created, err := svc.CreateAdmin(ctx, profile.CreateAdminInput{
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
		Password:  password,
	})
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	log.Printf("admin %s created (id=%s)", created.Email, created.ID)
}
