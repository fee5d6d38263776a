package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ogurasousui/attendance-payroll/internal/adapters/cache/redis"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/document/pdf"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/document/xlsx"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/grpc/handler"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/repository/postgres"
	"github.com/ogurasousui/attendance-payroll/internal/adapters/storage/s3"
	"github.com/ogurasousui/attendance-payroll/internal/core/attendance"
	"github.com/ogurasousui/attendance-payroll/internal/core/employee"
	"github.com/ogurasousui/attendance-payroll/internal/core/payroll"
	"github.com/ogurasousui/attendance-payroll/internal/core/payslip"
	"github.com/ogurasousui/attendance-payroll/internal/core/profile"
	"github.com/ogurasousui/attendance-payroll/internal/platform/auth"
	"github.com/ogurasousui/attendance-payroll/internal/platform/config"
	pg "github.com/ogurasousui/attendance-payroll/internal/platform/db/postgres"
	"github.com/ogurasousui/attendance-payroll/internal/platform/metrics"
	"github.com/ogurasousui/attendance-payroll/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database pool: %v", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool)

	var identityCache profile.IdentityCache
	if cfg.Redis.Enabled() {
		cache, closeCache, err := redis.Connect(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			log.Printf("redis unavailable, identity cache disabled: %v", err)
		} else {
			defer closeCache()
			identityCache = cache
			log.Printf("identity cache enabled (%s)", cfg.Redis.Addr)
		}
	}

	var archive payslip.Archive
	if cfg.PayslipStorage.Enabled() {
		client, err := s3.NewClient(ctx, s3.Options{
			Bucket:          cfg.PayslipStorage.Bucket,
			Region:          cfg.PayslipStorage.Region,
			Endpoint:        cfg.PayslipStorage.Endpoint,
			AccessKeyID:     cfg.PayslipStorage.AccessKeyID,
			SecretAccessKey: cfg.PayslipStorage.SecretAccessKey,
			Prefix:          cfg.PayslipStorage.Prefix,
		})
		if err != nil {
			log.Fatalf("failed to initialize payslip storage: %v", err)
		}
		archive = s3.NewArchive(client, cfg.PayslipStorage.Bucket, cfg.PayslipStorage.Prefix)
		log.Printf("payslip archive enabled (bucket %s)", cfg.PayslipStorage.Bucket)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, nil)
	if err != nil {
		log.Fatalf("failed to initialize token manager: %v", err)
	}
	hasher := auth.NewBcryptHasher(auth.DefaultBcryptCost)

	profileRepo := postgres.NewProfileRepository(dbPool)
	employeeRepo := postgres.NewEmployeeRepository(dbPool)
	attendanceRepo := postgres.NewAttendanceRepository(dbPool)
	payrollRepo := postgres.NewPayrollRepository(dbPool)

	profileSvc := profile.NewService(profileRepo, hasher, identityCache, nil)
	employeeSvc := employee.NewService(employeeRepo, profileRepo, hasher, nil, txManager)
	attendanceSvc := attendance.NewService(attendanceRepo, nil, txManager, cfg.Payroll.WorkingDaysPerMonth)
	payrollSvc := payroll.NewService(payrollRepo, employeeRepo, attendanceRepo, nil, nil, txManager)
	documentSvc := payslip.NewService(
		payrollSvc,
		employeeRepo,
		pdf.NewPayslipRenderer(cfg.Payroll.CompanyName, nil),
		xlsx.NewRegisterRenderer(),
		archive,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	grpcMetrics, err := metrics.New(registry)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	handlers := handler.Handlers{
		Auth:       handler.NewAuthGrpcHandler(profileSvc, tokens),
		Employee:   handler.NewEmployeeGrpcHandler(employeeSvc),
		Attendance: handler.NewAttendanceGrpcHandler(attendanceSvc, nil),
		Payroll:    handler.NewPayrollGrpcHandler(payrollSvc, documentSvc),
	}

	grpcServer := server.New(
		cfg.Server,
		handlers,
		server.NewOpsRouter(server.NewHealthChecker(dbPool), registry),
		server.LoggingUnaryInterceptor(nil),
		grpcMetrics.UnaryServerInterceptor(),
		handler.AuthUnaryInterceptor(tokens, profileSvc, handler.LoginMethod),
	)

	log.Printf("gRPC server listening on %s", cfg.Server.ListenAddr)

	if err := grpcServer.Run(ctx); err != nil {
		log.Fatalf("server stopped with error: %v", err)
	}
}
