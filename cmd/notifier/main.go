package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sportconnect/internal/config"
	"sportconnect/internal/mailer"
	"sportconnect/internal/notifier"
	"sportconnect/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Notification worker connected to the database.")

	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	worker := notifier.New(nc, buildMailer(cfg), repository.NewPostgresUserRepository(db), cfg.ClientURL)

	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Notification worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down notification worker...")
}

func buildMailer(cfg *config.Config) mailer.Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		log.Println("SMTP credentials not found. Worker will run in MOCK mode.")
		return &mailer.LogMailer{Logf: log.Printf}
	}

	return mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
}
