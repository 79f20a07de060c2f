package main

import (
	"clientschedule/cmd/internal/activity"
	"clientschedule/cmd/internal/config"
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/domain/sqlite"
	"clientschedule/cmd/internal/domain/sqlite/repository"
	"clientschedule/cmd/internal/lookup"
	"clientschedule/cmd/internal/routes"
	"clientschedule/cmd/internal/scheduling"
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils/apierror"
	"clientschedule/cmd/internal/utils/validators"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const redisCacheTTL = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, err := config.Load(".env")
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	validate := validator.New()
	validators.Register(validate)

	// Init SQLite
	db, err := sqlite.Init(conf.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	if conf.SeedDemoData {
		if err := sqlite.Seed(db); err != nil {
			log.Fatal("failed to seed database: ", err)
		}
	}

	logins, err := activity.OpenLoginLogger(conf.LoginActivityPath)
	if err != nil {
		log.Fatal("failed to open login activity log: ", err)
	}
	defer logins.Close()

	// Getting repositories
	retry := sqlite.NewRetrier(conf.RetryAttempts, conf.RetryBackoff)
	apptRepo := repository.NewAppointmentRepository(db, retry)
	userRepo := repository.NewUserRepository(db, retry)
	contactRepo := repository.NewContactRepository(db, retry)
	customerRepo := repository.NewCustomerRepository(db, retry)
	divisionRepo := repository.NewDivisionRepository(db, retry)

	var rdb *redis.Client
	if conf.RedisAddr != "" {
		rdb, err = lookup.OpenRedis(ctx, conf.RedisAddr)
		if err != nil {
			log.Fatal("failed to connect to redis: ", err)
		}
		defer rdb.Close()
	}

	related := service.Related{
		Contacts:  lookup.NewResolver[entity.Contact]("contact", contactRepo.FindByID, newCache[entity.Contact](rdb, "contact", conf.CacheSize)),
		Customers: lookup.NewResolver[entity.Customer]("customer", customerRepo.FindByID, newCache[entity.Customer](rdb, "customer", conf.CacheSize)),
		Users:     lookup.NewResolver[entity.User]("user", userRepo.FindByID, newCache[entity.User](rdb, "user", conf.CacheSize)),
	}

	policy, err := schedulingPolicy(conf)
	if err != nil {
		log.Fatal("invalid office hours: ", err)
	}
	apptValidator := scheduling.NewValidator(apptRepo, validate, policy)

	// Getting services
	apptService := service.NewAppointmentService(apptRepo, apptValidator, related, policy.Zone, conf.OfficeOpen, conf.OfficeClose)
	userService := service.NewUserService(userRepo, validate, logins, apptService,
		service.TokenIssuer{Secret: []byte(conf.JWTSecret), TTL: conf.TokenTTL})
	customerService := service.NewCustomerService(customerRepo, divisionRepo, validate, related.Customers)
	directoryService := service.NewDirectoryService(contactRepo, divisionRepo)
	reportService := service.NewReportService(apptRepo)

	// Getting routes
	apptRoutes := routes.NewAppointmentDefault(apptService)
	userRoutes := routes.NewUserDefault(userService)
	customerRoutes := routes.NewCustomerDefault(customerService)
	directoryRoutes := routes.NewDirectoryDefault(directoryService, reportService)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	loginLimiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(rate.Limit(conf.LoginRatePerSecond)),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, apierror.TooManyRequestsError)
		},
	})
	e.POST("/api/users/login", userRoutes.CreateLogin, loginLimiter)

	api := e.Group("/api", routes.RequireToken([]byte(conf.JWTSecret)))

	// Appointments
	api.GET("/appointments", apptRoutes.GetAppointments)
	api.GET("/appointments/upcoming", apptRoutes.GetUpcoming)
	api.GET("/appointments/:id", apptRoutes.GetAppointment)
	api.POST("/appointments", apptRoutes.CreateAppointment)
	api.PUT("/appointments/:id", apptRoutes.UpdateAppointment)
	api.DELETE("/appointments/:id", apptRoutes.DeleteAppointment)

	// Customers
	api.GET("/customers", customerRoutes.GetCustomers)
	api.GET("/customers/:id", customerRoutes.GetCustomer)
	api.POST("/customers", customerRoutes.CreateCustomer)
	api.PUT("/customers/:id", customerRoutes.UpdateCustomer)
	api.DELETE("/customers/:id", customerRoutes.DeleteCustomer)

	// Reference data
	api.GET("/contacts", directoryRoutes.GetContacts)
	api.GET("/contacts/:id/appointments", apptRoutes.GetContactAppointments)
	api.GET("/countries", directoryRoutes.GetCountries)
	api.GET("/countries/:id/divisions", directoryRoutes.GetDivisions)

	// Reports
	api.GET("/reports/month-type", directoryRoutes.GetMonthTypeReport)
	api.GET("/reports/weekday-type", directoryRoutes.GetWeekdayTypeReport)

	// Users
	api.GET("/users", userRoutes.GetUsers)
	api.GET("/users/:id", userRoutes.GetUser)

	go func() {
		err := e.Start(conf.HttpAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down server: %v", err)
	}
}

func schedulingPolicy(conf *config.Config) (scheduling.Policy, error) {
	open, err := scheduling.ParseClock(conf.OfficeOpen)
	if err != nil {
		return scheduling.Policy{}, err
	}
	closing, err := scheduling.ParseClock(conf.OfficeClose)
	if err != nil {
		return scheduling.Policy{}, err
	}

	policy := scheduling.DefaultPolicy(conf.Location())
	policy.OfficeZone = scheduling.OfficeZone(conf.OfficeZoneOffsetHours)
	policy.OfficeOpen = open
	policy.OfficeClose = closing
	policy.HistoricalOffsets = conf.HistoricalOffsets
	return policy, nil
}

// newCache shares resolved records through redis when it is configured and
// keeps them in a process-local LRU otherwise.
func newCache[T any](rdb *redis.Client, prefix string, size int) lookup.Cache[T] {
	if rdb != nil {
		return lookup.NewRedisCache[T](rdb, "schedule:"+prefix, redisCacheTTL)
	}
	cache, err := lookup.NewLRUCache[T](size)
	if err != nil {
		log.Fatal("failed to create lookup cache: ", err)
	}
	return cache
}
