// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crownvoyages/backoffice/internal/cache"
	"github.com/crownvoyages/backoffice/internal/config"
	"github.com/crownvoyages/backoffice/internal/database"
	"github.com/crownvoyages/backoffice/internal/handler"
	"github.com/crownvoyages/backoffice/internal/metrics"
	"github.com/crownvoyages/backoffice/internal/repository"
	"github.com/crownvoyages/backoffice/internal/service"
	"github.com/crownvoyages/backoffice/internal/session"
	"github.com/crownvoyages/backoffice/internal/wizard"
)

func main() {
	ctx := context.Background()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Connect to PostgreSQL and Redis ───────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("✓ Connected to PostgreSQL")

	redisClient := cache.NewRedisClient(cfg.Redis)
	if err := cache.Ping(ctx, redisClient); err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Connected to Redis")

	kv := cache.NewRedisKV(redisClient)
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	m := metrics.New()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	resortRepo := repository.NewResortRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	quotationRepo := repository.NewQuotationRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	voucherRepo := repository.NewVoucherRepository(pool)
	reminderRepo := repository.NewReminderRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	catalogSvc := service.NewCatalogService(resortRepo, roomRepo)
	reservationSvc := service.NewReservationService(bookingRepo, leadRepo)
	billingSvc := service.NewBillingService(quotationRepo, invoiceRepo, voucherRepo, reminderRepo, bookingRepo, logger)
	dashboardSvc := service.NewDashboardService(dashboardRepo)

	sessions := session.NewStore(userRepo, kv, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	wizardStore := wizard.NewStore(kv, 24*time.Hour)
	wizardMgr := wizard.NewManager(wizardStore, reservationSvc)

	authHandler := handler.NewAuthHandler(sessions)
	wizardHandler := handler.NewWizardHandler(wizardMgr, m)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, cfg.Uploads)
	reservationHandler := handler.NewReservationHandler(reservationSvc)
	billingHandler := handler.NewBillingHandler(billingSvc, reservationSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for the dashboard
	r.Use(handler.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst))
	r.Use(handler.Instrument(m))

	// Health
	r.Get("/health", handler.HealthCheck)

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)
		r.With(handler.Auth(sessions)).Get("/me", authHandler.Me)
	})

	// API routes (bearer session required)
	r.Group(func(r chi.Router) {
		r.Use(handler.Auth(sessions))

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", wizardHandler.Create)
			r.Get("/{id}", wizardHandler.Get)
			r.Put("/{id}/selection", wizardHandler.SetSelection)
			r.Put("/{id}/rooms/{index}", wizardHandler.RoomConfigChange)
			r.Put("/{id}/rooms/{index}/children/{child}", wizardHandler.SetChildAge)
			r.Post("/{id}/bookings", wizardHandler.SaveBooking)
			r.Put("/{id}/client", wizardHandler.SetClient)
			r.Put("/{id}/passengers/{index}", wizardHandler.UpdatePassenger)
			r.Post("/{id}/advance", wizardHandler.Advance)
			r.Post("/{id}/back", wizardHandler.Back)
			r.Post("/{id}/submit", wizardHandler.Submit)
		})

		r.Route("/resorts", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateResort)
			r.Get("/", catalogHandler.ListResorts)
			r.Get("/{id}", catalogHandler.GetResort)
			r.Put("/{id}", catalogHandler.UpdateResort)
			r.Delete("/{id}", catalogHandler.DeleteResort)
			r.Get("/{id}/rooms", catalogHandler.ListRooms)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", catalogHandler.CreateRoom)
			r.Get("/{id}", catalogHandler.GetRoom)
			r.Put("/{id}", catalogHandler.UpdateRoom)
			r.Delete("/{id}", catalogHandler.DeleteRoom)
			r.Put("/{id}/availability", catalogHandler.SetAvailability)
			r.Get("/{id}/availability", catalogHandler.ListAvailability)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", reservationHandler.CreateBooking)
			r.Get("/", reservationHandler.ListBookings)
			r.Get("/{id}", reservationHandler.GetBooking)
			r.Post("/{id}/cancel", reservationHandler.CancelBooking)
		})

		r.Route("/leads", func(r chi.Router) {
			r.Post("/", reservationHandler.CreateLead)
			r.Get("/", reservationHandler.ListLeads)
			r.Get("/{id}", reservationHandler.GetLead)
			r.Put("/{id}/status", reservationHandler.SetLeadStatus)
		})

		r.Route("/quotations", func(r chi.Router) {
			r.Post("/", billingHandler.CreateQuotation)
			r.Get("/", billingHandler.ListQuotations)
			r.Get("/{id}", billingHandler.GetQuotation)
			r.Put("/{id}/status", billingHandler.SetQuotationStatus)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", billingHandler.CreateInvoice)
			r.Get("/", billingHandler.ListInvoices)
			r.Get("/{id}", billingHandler.GetInvoice)
			r.Post("/{id}/receipts", billingHandler.RecordReceipt)
			r.Get("/{id}/receipts", billingHandler.ListReceipts)
			r.Post("/{id}/reminders", billingHandler.SendReminder)
			r.Get("/{id}/reminders", billingHandler.ListReminders)
		})

		r.Get("/vouchers", billingHandler.ListVouchers)

		r.Route("/reminders", func(r chi.Router) {
			r.Post("/schedules", billingHandler.ScheduleReminder)
			r.Get("/schedules", billingHandler.ListReminderSchedules)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", dashboardHandler.Summary)
			r.Get("/bookings", dashboardHandler.MonthlyBookings)
			r.Get("/revenue", dashboardHandler.MonthlyRevenue)
		})

		r.Post("/uploads", catalogHandler.Upload)
		r.Get("/exports/bookings", billingHandler.ExportBookings)
		r.Get("/exports/invoices", billingHandler.ExportInvoiceAging)
	})

	// Uploaded images are served statically.
	uploadsFS := http.Dir(cfg.Uploads.Dir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsFS)))

	// ── 4. Background workers ─────────────────────────────────────────────
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go dispatchReminders(runCtx, billingSvc, m, logger, cfg.Reminders.DispatchInterval())

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(runCtx, cfg.Monitoring.PrometheusPort)
	}

	// ── 5. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout(),
		WriteTimeout: cfg.HTTP.WriteTimeout(),
		IdleTimeout:  cfg.HTTP.IdleTimeout(),
	}

	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-runCtx.Done()

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

// dispatchReminders periodically sends due scheduled payment reminders.
func dispatchReminders(ctx context.Context, billing *service.BillingService, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sent, err := billing.DispatchDueReminders(ctx, now.UTC())
			if err != nil {
				logger.Error("dispatch reminders", "err", err)
				continue
			}
			if sent > 0 {
				m.RemindersDispatched.Add(float64(sent))
				logger.Info("dispatched payment reminders", "count", sent)
			}
		}
	}
}

func startMetricsServer(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Printf("✓ Metrics listening on :%d", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server stopped: %v", err)
	}
}
