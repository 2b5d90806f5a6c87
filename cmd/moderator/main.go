package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/appgrid/community-moderation/internal/comment"
	"github.com/appgrid/community-moderation/internal/db"
	"github.com/appgrid/community-moderation/internal/messaging"
	"github.com/appgrid/community-moderation/internal/metrics"
	"github.com/appgrid/community-moderation/internal/moderation"
	"github.com/appgrid/community-moderation/internal/report"
	appws "github.com/appgrid/community-moderation/internal/ws"
)

// checkTimeout bounds one moderation run, including the duplicate-check
// store round trip.
const checkTimeout = 5 * time.Second

func main() {
	log.Println("Starting AppGrid moderation worker...")

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	cfg := moderation.FromEnv()

	dsn := "postgres://localhost:5432/appgrid?sslmode=disable"
	if v := os.Getenv("DATABASE_URL"); v != "" {
		dsn = v
	}
	migrationsDir := "migrations"
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		migrationsDir = v
	}
	redisAddr := "localhost:6379"
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		redisAddr = v
	}
	listenAddr := ":9090"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		listenAddr = v
	}

	// --- PostgreSQL ---
	if err := db.Migrate(dsn, migrationsDir); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	pg, err := db.Open(dsn)
	if err != nil {
		log.Fatalf("failed to connect to PostgreSQL: %v", err)
	}

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	cancel()

	// --- NATS ---
	natsConfig := messaging.DefaultNATSConfig()
	if v := os.Getenv("NATS_URL"); v != "" {
		natsConfig.URL = v
	}
	natsConfig.Name = "appgrid-moderator"

	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	// --- Wiring ---
	commentStore := comment.NewStore(pg)
	// Cache entries must outlive the duplicate window; double it so a check
	// right at the window edge still sees its candidates.
	recentCache := comment.NewRecentCache(rdb, 2*cfg.DuplicateWindow)
	history := comment.NewHistory(recentCache, commentStore)

	svc := moderation.NewService(cfg, history)
	flagger := report.NewAutoFlagger(report.NewStore(pg))
	feed := appws.NewFeed()

	// --- HTTP (metrics, health, admin feed) ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/ws/feed", feed.Handler())
	go func() {
		if err := http.ListenAndServe(listenAddr, mux); err != nil {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	// --- Subscribe to comment-created events ---
	err = natsClient.SubscribeCommentCreated(func(data []byte) {
		var ev messaging.CommentCreated
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("[moderator] failed to unmarshal event: %v", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()

		start := time.Now()
		result := svc.Moderate(ctx, ev.Content, ev.UserID, ev.AppID)
		metrics.CheckLatency.Observe(time.Since(start).Seconds())

		// Record into the recent cache only after moderation so the comment
		// never matches itself as a duplicate.
		snap := moderation.CommentSnapshot{
			ID:        ev.CommentID,
			Content:   ev.Content,
			CreatedAt: time.UnixMilli(ev.Ts),
		}
		if err := recentCache.Record(ctx, ev.UserID, snap); err != nil {
			log.Printf("[moderator] failed to record recent comment: %v", err)
		}

		verdict := messaging.Verdict{
			CommentID:  ev.CommentID,
			AppID:      ev.AppID,
			UserID:     ev.UserID,
			Allowed:    result.Allowed,
			Warnings:   result.Warnings,
			SpamScore:  result.Metadata.SpamScore,
			Similarity: result.Metadata.Similarity,
			LinkCount:  result.Metadata.LinkCount,
			Ts:         time.Now().UnixMilli(),
		}

		if result.Allowed {
			metrics.ChecksTotal.WithLabelValues("allowed").Inc()
			log.Printf("[moderator] CLEAN comment=%s app=%s user=%s", ev.CommentID, ev.AppID, ev.UserID)
		} else {
			metrics.ChecksTotal.WithLabelValues("flagged").Inc()
			for _, e := range result.Errors {
				metrics.ViolationsTotal.WithLabelValues(string(e.Kind)).Inc()
				verdict.Violations = append(verdict.Violations, string(e.Kind))
			}

			log.Printf("[moderator] FLAGGED comment=%s app=%s user=%s violations=%v preview=%q",
				ev.CommentID, ev.AppID, ev.UserID, verdict.Violations, preview(ev.Content, 100))

			// Best-effort: the comment is already published; a failed report
			// is logged and counted, never surfaced to the poster.
			if rep := flagger.File(ctx, ev.CommentID, result.Errors); rep != nil {
				verdict.ReportID = rep.ID
			} else {
				metrics.AutoFlagFailures.Inc()
			}
		}

		if len(result.Warnings) > 0 {
			log.Printf("[moderator] warnings comment=%s user=%s warnings=%v", ev.CommentID, ev.UserID, result.Warnings)
		}

		respData, err := json.Marshal(verdict)
		if err != nil {
			log.Printf("[moderator] failed to marshal verdict: %v", err)
			return
		}
		if err := natsClient.PublishModerationResult(ev.AppID, respData); err != nil {
			log.Printf("[moderator] failed to publish verdict: %v", err)
		}

		feed.Broadcast(verdict)
	})
	if err != nil {
		log.Fatalf("failed to subscribe to comment events: %v", err)
	}

	log.Printf("AppGrid moderation worker running")
	log.Printf("  moderation_enabled: %v", cfg.Enabled)
	log.Printf("  listen_addr:        %s", listenAddr)
	log.Printf("  nats_url:           %s", natsConfig.URL)
	log.Printf("  redis_addr:         %s", redisAddr)

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	natsClient.Close()
	feed.Close()
	rdb.Close()
	pg.Close()
}

// preview returns at most n runes of s for log lines.
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
