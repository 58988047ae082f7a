package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/lexikon-app/lexikon/internal/audit"
	"github.com/lexikon-app/lexikon/internal/auth"
	"github.com/lexikon-app/lexikon/internal/common"
	"github.com/lexikon-app/lexikon/internal/config"
	"github.com/lexikon-app/lexikon/internal/handlers/api"
	"github.com/lexikon-app/lexikon/internal/mail"
	"github.com/lexikon-app/lexikon/internal/middlewares"
	"github.com/lexikon-app/lexikon/internal/render"
	"github.com/lexikon-app/lexikon/internal/store"
	"github.com/lexikon-app/lexikon/internal/users"
	"github.com/lexikon-app/lexikon/internal/words"
	"github.com/lexikon-app/lexikon/model"
	"github.com/lexikon-app/lexikon/params"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "lexikon - vocabulary learning backend"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.MySQLConfig) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dbConfig.Dsn), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dbConfig.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if dbConfig.ReplicaDsn != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{mysql.Open(dbConfig.ReplicaDsn)},
		}))
		if err != nil {
			slog.Error("Failed to register database replica", "error", err)
			os.Exit(1)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Failed to access database pool", "error", err)
		os.Exit(1)
	}
	if dbConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(dbConfig.ConnMaxIdleTime) * time.Second)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Second)
	}

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	return db
}

func mustInitMailSender(mailCfg config.MailConfig) mail.MailSender {
	if mailCfg.Backend != "smtp" {
		slog.Error("Unsupported mail sender backend", "backend", mailCfg.Backend)
		os.Exit(1)
	}
	sender, err := mail.NewSMTPMailSender(mail.SMTPConfig{
		Host:     mailCfg.SMTP.Host,
		Port:     mailCfg.SMTP.Port,
		Username: mailCfg.SMTP.Username,
		Password: mailCfg.SMTP.Password,
		TLS:      mailCfg.SMTP.TLS,
		CertFile: mailCfg.SMTP.CertFile,
		KeyFile:  mailCfg.SMTP.KeyFile,
		CAFile:   mailCfg.SMTP.CAFile,
	}, mailCfg.From)
	if err != nil {
		slog.Error("Failed to initialize mail sender", "error", err)
		os.Exit(1)
	}
	return sender
}

// mustInitStorage returns the token storage backend. The redis client is nil
// when the in-process memory backend is configured.
func mustInitStorage(storeCfg config.StoreConfig) (store.Storage, redis.UniversalClient) {
	switch storeCfg.Backend {
	case "redis":
		redisStorage := fiberredis.New(fiberredis.Config{
			URL:           storeCfg.Redis.URL,
			PoolSize:      storeCfg.Redis.PoolSize,
			IsClusterMode: storeCfg.Redis.ClusterMode,
		})
		return store.NewRedisStorage(redisStorage.Conn()), redisStorage.Conn()
	case "memory":
		return store.NewMemoryStorage(), nil
	default:
		slog.Error("Unsupported store backend", "backend", storeCfg.Backend)
		os.Exit(1)
		return nil, nil
	}
}

func setupAPIRoutes(
	router fiber.Router,
	cfg *config.Config,
	authService *auth.AuthService,
	userService *users.UserService,
	wordService *words.WordService,
	auditService *audit.Service,
	mailSender mail.MailSender) {

	cookieName := cfg.Session.CookieName

	// handlers
	var (
		sessionHandler = api.NewSessionHandler(authService, cookieName, cfg.Session.CookieSecure)
		accountHandler = api.NewAccountHandler(userService, authService, mailSender, cfg.BaseURL, cookieName)
		wordHandler    = api.NewWordHandler(wordService, authService, cookieName)
		auditHandler   = api.NewAuditHandler(auditService, authService, cookieName)
	)

	// routes
	router.Post("/users", accountHandler.PostRegister)
	router.Get("/verify-email", accountHandler.GetVerifyEmail)
	router.Put("/users/me/password", accountHandler.PutPassword)
	router.Put("/users/me", accountHandler.PutProfile)
	router.Delete("/users/:userId", accountHandler.DeleteUser)
	router.Post("/sessions", sessionHandler.PostLogin)
	router.Post("/sessions/verify-mfa", sessionHandler.PostVerifyMFA)
	router.Post("/sessions/resend-verification", accountHandler.PostResendVerification)
	router.Get("/sessions/me", sessionHandler.GetMe)
	router.Get("/sessions", sessionHandler.GetSessions)
	router.Delete("/sessions", sessionHandler.DeleteSession)
	router.Delete("/sessions/:sessionId", sessionHandler.DeleteSessionByID)
	router.Get("/words", wordHandler.GetWords)
	router.Post("/words", wordHandler.PostWord)
	router.Get("/words/:id", wordHandler.GetWord)
	router.Put("/words/:id", wordHandler.PutWord)
	router.Delete("/words/:id", wordHandler.DeleteWord)
	router.Get("/categories", wordHandler.GetCategories)
	router.Get("/audit-logs", auditHandler.GetAuditLogs)
	router.Get("/audit-logs/stats", auditHandler.GetAuditStats)
	router.Get("/audit-logs/user/:userId", auditHandler.GetUserAuditLogs)
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	globalVars := map[string]interface{}{
		"siteName": cfg.SiteName,
		"baseURL":  cfg.BaseURL,
	}
	if err := render.Initialize(globalVars, cfg.TemplateDir); err != nil {
		slog.Error("Failed to initialize templates", "error", err)
		return err
	}

	mailSender := mustInitMailSender(cfg.Mail)
	db := mustInitDatabase(cfg.MySQL)
	tokenStorage, rdb := mustInitStorage(cfg.Store)

	// repositories
	var (
		userRepo     = users.NewUserRepository(db)
		sessionRepo  = auth.NewSessionRepository(db)
		auditRepo    = audit.NewRepository(db)
		wordRepo     = words.NewWordRepository(db)
		categoryRepo = words.NewCategoryRepository(db)
	)

	// services
	var (
		auditService = audit.NewService(auditRepo)
		userService  = users.NewUserService(userRepo, tokenStorage, auditService)
		authService  = auth.NewAuthService(userRepo, sessionRepo, mailSender, auditService, cfg.Session.MaxAge)
		wordService  = words.NewWordService(wordRepo, categoryRepo)
	)

	router := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		BodyLimit:     params.ServerBodyLimit,
		IdleTimeout:   params.ServerIdleTimeout,
		ReadTimeout:   params.ServerReadTimeout,
		WriteTimeout:  params.ServerWriteTimeout,
		ErrorHandler:  middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	setupAPIRoutes(router, cfg, authService, userService, wordService, auditService, mailSender)

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, rdb, db)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
