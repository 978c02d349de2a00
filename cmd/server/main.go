package main

import (
	"context"
	"log"
	"strings"

	firebase "firebase.google.com/go/v4"
	"github.com/arnold/coachly-api/internal/config"
	"github.com/arnold/coachly-api/internal/handlers"
	"github.com/arnold/coachly-api/internal/lifecycle"
	"github.com/arnold/coachly-api/internal/logger"
	"github.com/arnold/coachly-api/internal/middleware"
	"github.com/arnold/coachly-api/internal/routes"
	"github.com/arnold/coachly-api/internal/services"
	"github.com/arnold/coachly-api/internal/store"
	"github.com/arnold/coachly-api/internal/store/fsstore"
	"github.com/arnold/coachly-api/internal/store/gormstore"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.NotifyContext(context.Background())
	defer cancel()

	st, err := openStore(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store connection failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	manager.Register("store", func(context.Context) error {
		return st.Close()
	})

	var fbApp *firebase.App
	if cfg.FirebaseEnabled() {
		fbApp, err = services.NewFirebaseApp(appCtx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			zapLogger.Fatal("firebase init failed", zap.Error(err))
		}
	}

	verifiers := services.Verifiers{}
	if fbApp != nil {
		v, err := services.NewFirebaseVerifier(appCtx, fbApp)
		if err != nil {
			zapLogger.Fatal("firebase auth init failed", zap.Error(err))
		}
		verifiers[services.SocialFirebase] = v
	}
	if len(cfg.GoogleClientIDs) > 0 {
		verifiers[services.SocialGoogle] = services.NewGoogleVerifier(cfg.GoogleClientIDs)
	}
	if cfg.FacebookAppID != "" && cfg.FacebookAppSecret != "" {
		verifiers[services.SocialFacebook] = services.NewFacebookVerifier(cfg.FacebookAppID, cfg.FacebookAppSecret)
	}

	pusher := newPusher(appCtx, cfg, fbApp, zapLogger)

	var mailer services.Mailer = services.NewLogMailer(zapLogger)
	if cfg.ResendAPIKey != "" {
		mailer = services.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, zapLogger)
	}

	jwt := middleware.NewJWT(cfg.JWTSecret, cfg.TokenTTL, st.Tokens, zapLogger)
	hub := handlers.NewHub(zapLogger)
	opts := services.Options{Logger: zapLogger, Events: hub, Location: cfg.Location}

	notifier := services.NewNotifier(st.Notifications, st.Profiles, pusher, opts)
	accounts := services.NewAccountService(services.AccountDeps{
		Profiles:    st.Profiles,
		Credentials: st.Credentials,
		Tokens:      st.Tokens,
		Issuer:      jwt,
		Social:      verifiers,
		Mailer:      mailer,
		BaseURL:     cfg.AppBaseURL,
	}, opts)

	h := handlers.New(handlers.Deps{
		Accounts:       accounts,
		Goals:          services.NewGoalService(st.Goals, notifier, opts),
		Appointments:   services.NewAppointmentService(st.Appointments, notifier, opts),
		Journals:       services.NewJournalService(st.Journals, opts),
		Dashboard:      services.NewDashboardService(st, opts),
		Notifications:  notifier,
		JWT:            jwt,
		Hub:            hub,
		Logger:         zapLogger,
		RequestTimeout: cfg.RequestTimeout,
		UploadDir:      cfg.UploadDir,
		SecureCookies:  strings.HasPrefix(cfg.AppBaseURL, "https://"),
	})

	app := fiber.New(fiber.Config{
		AppName:      "coachly-api",
		ErrorHandler: handlers.ErrorHandler(zapLogger),
		BodyLimit:    6 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(middleware.RequestLogger(zapLogger))

	routes.Setup(app, h, jwt, routes.Options{StaticDir: cfg.StaticDir, UploadDir: cfg.UploadDir})

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("store", cfg.StoreDriver))
		if err := app.Listen(cfg.Address()); err != nil {
			zapLogger.Error("server stopped", zap.Error(err))
			cancel()
		}
	}()
	manager.Register("http_server", app.ShutdownWithContext)

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, error) {
	if cfg.StoreDriver == config.DriverFirestore {
		client, err := fsstore.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, err
		}
		log.Info("connected to firestore", zap.String("project", cfg.FirebaseProjectID))
		return fsstore.New(client), nil
	}

	db, err := gormstore.Open(cfg.DatabaseURL, logger.Debug(log))
	if err != nil {
		return nil, err
	}
	if err := gormstore.Migrate(db); err != nil {
		return nil, err
	}
	log.Info("connected to database")
	return gormstore.New(db), nil
}

// newPusher prefers the shared Firebase app and falls back to a dedicated
// FCM service account. It returns a nil interface when push is disabled.
func newPusher(ctx context.Context, cfg *config.Config, app *firebase.App, log *zap.Logger) services.Pusher {
	if app != nil {
		p, err := services.NewFCMPusherFromApp(ctx, app)
		if err == nil {
			return p
		}
		log.Warn("fcm from firebase app failed", zap.Error(err))
	}
	p, err := services.NewFCMPusher(ctx, cfg.FCMServiceAccount, log)
	if err != nil {
		log.Warn("fcm init failed, push notifications disabled", zap.Error(err))
		return nil
	}
	if p == nil {
		return nil
	}
	return p
}
