package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/teeraphan/wongshare/internal/auction"
	"github.com/teeraphan/wongshare/internal/auth"
	"github.com/teeraphan/wongshare/internal/filestore"
	"github.com/teeraphan/wongshare/internal/middleware"
	"github.com/teeraphan/wongshare/internal/notify"
	"github.com/teeraphan/wongshare/internal/rpc"
	"github.com/teeraphan/wongshare/internal/service"
	"github.com/teeraphan/wongshare/internal/storage/sqlite"
	"github.com/teeraphan/wongshare/internal/verify"
	"github.com/teeraphan/wongshare/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/wongshare.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	slipDir := getEnv("SLIP_DIR", "./data/slips")
	baseURL := getEnv("BASE_URL", fmt.Sprintf("http://localhost:%s/uploads", port))

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	files, err := filestore.NewLocal(slipDir, baseURL)
	if err != nil {
		slog.Error("Failed to initialize slip storage", "error", err)
		os.Exit(1)
	}

	var notifier notify.Notifier = notify.Noop{}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			slog.Error("TELEGRAM_CHAT_ID must be a numeric chat ID", "error", err)
			os.Exit(1)
		}
		tg, err := notify.NewTelegram(token, chatID)
		if err != nil {
			slog.Error("Failed to connect Telegram bot", "error", err)
			os.Exit(1)
		}
		notifier = tg
		slog.Info("Telegram notifications enabled", "chat_id", chatID)
	}

	jwtManager := auth.NewJWTManager(jwtSecret, 24*time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	hub := auction.NewHub(auction.Config{})

	authSvc := service.NewAuthService(authenticator, jwtManager, slog.Default())
	circleSvc := service.NewCircleService(store, hub, notifier)
	paymentSvc := service.NewPaymentService(store, files, verify.NewOffline(), notifier)
	auctionSvc := service.NewAuctionService(store, hub, jwtManager)
	importSvc := service.NewImportService()

	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)
	protected := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		middleware.MetricsInterceptor(),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	path, handler := rpc.NewAuthServiceHandler(authSvc, public)
	mux.Handle(path, handler)
	path, handler = rpc.NewCircleServiceHandler(circleSvc, protected)
	mux.Handle(path, handler)
	path, handler = rpc.NewPaymentServiceHandler(paymentSvc, protected)
	mux.Handle(path, handler)
	path, handler = rpc.NewImportServiceHandler(importSvc, protected)
	mux.Handle(path, handler)
	path, handler = rpc.NewAuctionServiceHandler(auctionSvc, protected)
	mux.Handle(path, handler)

	// Slip images and Prometheus scrape endpoint.
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(slipDir))))
	mux.Handle("/metrics", promhttp.Handler())

	// h2c carries HTTP/2 without TLS for Connect clients behind a proxy.
	h2cHandler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	addr := ":" + port
	slog.Info("Connect server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
