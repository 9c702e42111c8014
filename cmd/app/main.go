package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Safary16/soptraloc-sub001/cmd"
	httpin "github.com/Safary16/soptraloc-sub001/internal/adapters/in/http"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/alertrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/assignmentrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/auditrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/containerrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/driverrepo"
	"github.com/Safary16/soptraloc-sub001/internal/adapters/out/postgres/timerecordrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := openDatabase(configs)
	migrateDatabase(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		TravelBaselineMinutes: goDotEnvVariable("TRAVEL_BASELINE_MINUTES"),
		UnloadBaselineMinutes: goDotEnvVariable("UNLOAD_BASELINE_MINUTES"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return gormDB
}

func migrateDatabase(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&containerrepo.ContainerDTO{},
		&driverrepo.DriverDTO{},
		&assignmentrepo.AssignmentDTO{},
		&timerecordrepo.TimeRecordDTO{},
		&timerecordrepo.LearnedEstimateDTO{},
		&alertrepo.DemurrageAlertDTO{},
		&auditrepo.MovementDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpin.NewServer(
		app.CreateApplyTransitionCommandHandler(),
		app.CreateRunAssignmentPassCommandHandler(),
		app.CreateRecordActualTimesCommandHandler(),
		app.CreatePredictDurationQueryHandler(),
		app.CreateGetPendingContainersQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
