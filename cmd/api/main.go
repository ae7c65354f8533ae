package main

import (
	"fmt"
	"net/http"

	"github.com/folhaplus/folha-backend-go/internal/config"
	appHTTP "github.com/folhaplus/folha-backend-go/internal/handler/http"
	"github.com/folhaplus/folha-backend-go/internal/pkg/database"
	"github.com/folhaplus/folha-backend-go/internal/pkg/jwt"
	"github.com/folhaplus/folha-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/folhaplus/folha-backend-go/internal/service/auth"
	employeeService "github.com/folhaplus/folha-backend-go/internal/service/employee"
	importerService "github.com/folhaplus/folha-backend-go/internal/service/importer"
	payrollService "github.com/folhaplus/folha-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	mappingRepo := postgresql.NewMappingRepository(db)
	benefitRepo := postgresql.NewBenefitRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	importService := importerService.NewImportService(txManager, employeeRepo, payrollRepo, mappingRepo, benefitRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)

	authHandler := appHTTP.NewAuthHandler(authService)
	importHandler := appHTTP.NewImportHandler(importService)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			AppVersion:     cfg.App.Version,
			AppEnv:         cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		JWTService,
		authHandler,
		importHandler,
		payrollHandler,
		employeeHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
