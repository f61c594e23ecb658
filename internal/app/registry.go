package app

import (
	"database/sql"
	"path/filepath"

	"leaveflow/internal/adjustment"
	"leaveflow/internal/assignment"
	"leaveflow/internal/authz"
	"leaveflow/internal/bootstrap"
	"leaveflow/internal/calendar"
	"leaveflow/internal/daycount"
	"leaveflow/internal/fiscal"
	"leaveflow/internal/leavetype"
	"leaveflow/internal/ledger"
	"leaveflow/internal/messaging/kafka"
	"leaveflow/internal/middleware"
	"leaveflow/internal/officer"
	"leaveflow/internal/rbac"
	"leaveflow/internal/rbac/infra"
	"leaveflow/internal/request"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	auditLogger bootstrap.AuditLogger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	calendarRepo := calendar.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	fiscalRepo := fiscal.NewRepository(gormDB)
	daycountRepo := daycount.NewRepository(gormDB)
	officerRepo := officer.NewRepository(gormDB)
	requestRepo := request.NewRepository(gormDB)
	adjustmentRepo := adjustment.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	assignmentRepo := assignment.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	calendarService := calendar.NewService(calendarRepo)
	fiscalService := fiscal.NewService(fiscalRepo)
	daycountService := daycount.NewService(daycountRepo, calendarService, leaveTypeRepo)
	officerService := officer.NewService(officerRepo)
	authorizer := authz.NewReportingOfficerAuthorizer()
	ledgerService := ledger.NewService(ledgerRepo, leaveTypeRepo, fiscalService, rdb)
	requestService := request.NewServiceWithIntegrations(
		db, requestRepo, leaveTypeRepo, officerService, daycountService,
		fiscalService, authorizer, outboxRepo, auditLogger, ledgerService,
	)
	adjustmentService := adjustment.NewServiceWithIntegrations(
		db, adjustmentRepo, requestRepo, daycountService,
		authorizer, outboxRepo, auditLogger, ledgerService,
	)
	assignmentService := assignment.NewService(db, assignmentRepo, leaveTypeRepo, fiscalService, ledgerService)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	officerHandler := officer.NewHandler(officerService)
	ledgerHandler := ledger.NewHandler(ledgerService)
	requestHandler := request.NewHandlerWithCache(requestService, rdb)
	adjustmentHandler := adjustment.NewHandler(adjustmentService)
	assignmentHandler := assignment.NewHandler(assignmentService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		officer.RegisterRoutes(api, officerHandler, rbacService)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService)
		request.RegisterRoutes(api, requestHandler, rbacService, rdb)
		adjustment.RegisterRoutes(api, adjustmentHandler, rbacService)
		assignment.RegisterRoutes(api, assignmentHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler, middleware.RateLimitByIP(5, 20))

	return nil
}
