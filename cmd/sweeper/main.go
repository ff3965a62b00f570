package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"advoga/config"
	"advoga/internal/database"
	"advoga/internal/repository"
	"advoga/internal/service"

	"github.com/joho/godotenv"
)

// The sweeper expires lapsed lead offers and re-circulates their cases. It is
// safe to run next to the API server or as several replicas: every transition
// is a conditional update, so each expiry applies exactly once.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	store := repository.NewStore(db)
	// no hub here: sockets live in the API server, delivery falls back to the
	// persisted notification feed
	notifSvc := service.NewNotificationService(repository.NewNotificationRepository(db), nil)
	dispatchSvc := service.NewDispatchService(store, notifSvc, cfg.Scoring, cfg.Dispatch)
	referralSvc := service.NewReferralService(store, dispatchSvc)

	ticker := time.NewTicker(cfg.Dispatch.SweepInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Printf("sweeper running every %s", cfg.Dispatch.SweepInterval)
	for {
		select {
		case <-ticker.C:
			n, err := referralSvc.SweepExpired()
			if err != nil {
				log.Printf("[sweeper] sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[sweeper] expired %d referrals", n)
			}
		case <-quit:
			log.Println("sweeper stopped")
			return
		}
	}
}
