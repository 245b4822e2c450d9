package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/assistant"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/calendar"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/config"
	httptransport "github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/http"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/logging"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/notify"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence/eventslot"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence/sqlite"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/reminder"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/search"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "failed to load .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogFormat, parseLogLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	userRepo := sqlite.NewUserRepository(storage)
	clientRepo := sqlite.NewClientRepository(storage)
	caseRepo := sqlite.NewCaseRepository(storage)
	taskRepo := sqlite.NewTaskRepository(storage)
	sessionRepo := sqlite.NewSessionRepository(storage)

	feed := notify.NewFeed(notify.DefaultDismissAfter, now)
	reminders := reminder.NewScheduler(feed, now, logger)
	defer reminders.Close()

	var slot calendar.Repository
	switch cfg.EventSlotBackend {
	case config.SlotBackendSQLite:
		slot = sqlite.NewEventSlot(storage)
	default:
		slot = eventslot.NewFile(cfg.EventSlotPath)
	}

	store := calendar.NewStore(slot, reminders, idGenerator, logger)
	if err := store.Open(context.Background()); err != nil {
		logger.Error("failed to open event store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close event store", "error", cerr)
		}
	}()
	view := calendar.NewView(store, feed, now)

	authService := application.NewAuthService(sessionRepo, userRepo, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)
	userService := application.NewUserService(userRepo, idGenerator, now, logger)
	clientService := application.NewClientService(clientRepo, idGenerator, now, logger)
	caseService := application.NewCaseService(caseRepo, clientRepo, idGenerator, now, logger)
	taskService := application.NewTaskService(taskRepo, caseRepo, idGenerator, now, logger)
	calendarService := application.NewCalendarService(store, view, now, logger)

	if err := seedAdminUser(context.Background(), cfg, userRepo, userService, logger); err != nil {
		logger.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	index := search.NewIndex(search.Sources{
		Calendar: calendarService,
		Clients:  clientService,
		Cases:    caseService,
	}, cfg.SearchDebounce, logger)
	defer index.Close()
	index.Rebuild(context.Background())

	var assistantService *assistant.Service
	if cfg.OpenAIAPIKey != "" {
		chat := assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		assistantService = assistant.NewService(chat, calendarService, clientService, caseService, now, logger)
	} else {
		logger.Warn("assistant disabled: no OpenAI API key configured")
	}

	onChange := func() {
		index.NotifyChanged()
		if assistantService != nil {
			assistantService.Invalidate()
		}
	}

	authHandler := httptransport.NewAuthHandler(authService, logger)
	userHandler := httptransport.NewUserHandler(userService, logger)
	clientHandler := httptransport.NewClientHandler(&trackedClientService{ClientService: clientService, changed: onChange}, logger)
	caseHandler := httptransport.NewCaseHandler(&trackedCaseService{CaseService: caseService, changed: onChange}, logger)
	taskHandler := httptransport.NewTaskHandler(taskService, logger)
	eventHandler := httptransport.NewEventHandler(&trackedCalendarService{CalendarService: calendarService, changed: onChange}, logger)
	feedHandler := httptransport.NewFeedHandler(calendarService, logger)
	searchHandler := httptransport.NewSearchHandler(index, logger)
	notificationHandler := httptransport.NewNotificationHandler(feed, logger)

	routerCfg := httptransport.RouterConfig{
		Auth:          authHandler,
		Users:         userHandler,
		Clients:       clientHandler,
		Cases:         caseHandler,
		Tasks:         taskHandler,
		Events:        eventHandler,
		Feed:          feedHandler,
		Search:        searchHandler,
		Notifications: notificationHandler,
	}
	if assistantService != nil {
		routerCfg.Assistant = httptransport.NewAssistantHandler(assistantService, logger)
	}
	router := httptransport.NewRouter(routerCfg)

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicRoute(r) {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	jobs := cron.New()
	if _, err := jobs.AddFunc(cfg.SessionPruneSpec, func() {
		if err := authService.PruneSessions(context.Background()); err != nil {
			logger.Error("session prune job failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid session prune schedule", "spec", cfg.SessionPruneSpec, "error", err)
		os.Exit(1)
	}
	if _, err := jobs.AddFunc(cfg.ReminderSyncSpec, func() {
		reminders.Sync(store.Events())
	}); err != nil {
		logger.Error("invalid reminder sync schedule", "spec", cfg.ReminderSyncSpec, "error", err)
		os.Exit(1)
	}
	jobs.Start()
	defer jobs.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("practice manager API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func isPublicRoute(r *http.Request) bool {
	if r.Method == http.MethodPost && strings.EqualFold(r.URL.Path, "/sessions") {
		return true
	}
	return strings.EqualFold(r.URL.Path, "/calendar/feed.ics")
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// seedAdminUser creates the configured administrator account on first
// start so the API is usable before any other user exists.
func seedAdminUser(ctx context.Context, cfg config.Config, users persistence.UserRepository, service *application.UserService, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	_, err = service.CreateUser(ctx, application.CreateUserParams{
		Principal: application.Principal{IsAdmin: true},
		Input: application.UserInput{
			Email:       cfg.AdminEmail,
			DisplayName: "Administrator",
			Password:    cfg.AdminPassword,
			IsAdmin:     true,
		},
	})
	if err != nil {
		return err
	}
	logger.Info("seeded initial administrator", "email", cfg.AdminEmail)
	return nil
}

// trackedClientService invalidates the search index and assistant cache
// after successful mutations.
type trackedClientService struct {
	*application.ClientService
	changed func()
}

func (s *trackedClientService) CreateClient(ctx context.Context, params application.CreateClientParams) (application.Client, error) {
	client, err := s.ClientService.CreateClient(ctx, params)
	if err == nil {
		s.changed()
	}
	return client, err
}

func (s *trackedClientService) UpdateClient(ctx context.Context, params application.UpdateClientParams) (application.Client, error) {
	client, err := s.ClientService.UpdateClient(ctx, params)
	if err == nil {
		s.changed()
	}
	return client, err
}

func (s *trackedClientService) DeleteClient(ctx context.Context, principal application.Principal, clientID string) error {
	err := s.ClientService.DeleteClient(ctx, principal, clientID)
	if err == nil {
		s.changed()
	}
	return err
}

type trackedCaseService struct {
	*application.CaseService
	changed func()
}

func (s *trackedCaseService) CreateCase(ctx context.Context, params application.CreateCaseParams) (application.Case, error) {
	matter, err := s.CaseService.CreateCase(ctx, params)
	if err == nil {
		s.changed()
	}
	return matter, err
}

func (s *trackedCaseService) UpdateCase(ctx context.Context, params application.UpdateCaseParams) (application.Case, error) {
	matter, err := s.CaseService.UpdateCase(ctx, params)
	if err == nil {
		s.changed()
	}
	return matter, err
}

func (s *trackedCaseService) DeleteCase(ctx context.Context, principal application.Principal, caseID string) error {
	err := s.CaseService.DeleteCase(ctx, principal, caseID)
	if err == nil {
		s.changed()
	}
	return err
}

type trackedCalendarService struct {
	*application.CalendarService
	changed func()
}

func (s *trackedCalendarService) CreateEvent(ctx context.Context, principal application.Principal, input application.EventInput) (application.CalendarEvent, error) {
	event, err := s.CalendarService.CreateEvent(ctx, principal, input)
	if err == nil {
		s.changed()
	}
	return event, err
}

func (s *trackedCalendarService) UpdateEvent(ctx context.Context, principal application.Principal, eventID string, input application.EventInput) (application.CalendarEvent, error) {
	event, err := s.CalendarService.UpdateEvent(ctx, principal, eventID, input)
	if err == nil {
		s.changed()
	}
	return event, err
}

func (s *trackedCalendarService) DeleteEvent(ctx context.Context, principal application.Principal, eventID string) error {
	err := s.CalendarService.DeleteEvent(ctx, principal, eventID)
	if err == nil {
		s.changed()
	}
	return err
}
