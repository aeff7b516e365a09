package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/okadio/microblog/config"
	"github.com/okadio/microblog/pkg/helpers"
)

// Seeds a demo account plus a few followers with sample statuses so the
// feed has content right after a fresh migration.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	demoID := seedUser(db, "Example User", "example@example.org", "password")
	fmt.Printf("seeded user: id=%s email=example@example.org password=password\n", demoID)

	followed := []struct {
		name, email string
	}{
		{"Anna Fields", "anna@example.org"},
		{"Ben Ortiz", "ben@example.org"},
		{"Chloe Park", "chloe@example.org"},
	}
	for _, f := range followed {
		uid := seedUser(db, f.name, f.email, "password")
		if _, err := db.Exec(`
			INSERT INTO follows (follower_id, followed_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, demoID, uid); err != nil {
			log.Fatalf("failed to seed follow edge: %v", err)
		}
		for i := 1; i <= 3; i++ {
			if _, err := db.Exec(`
				INSERT INTO statuses (user_id, content)
				VALUES ($1, $2)
			`, uid, fmt.Sprintf("Hello from %s, post %d", f.name, i)); err != nil {
				log.Fatalf("failed to seed status: %v", err)
			}
		}
		fmt.Printf("seeded user %s with 3 statuses, followed by demo user\n", f.email)
	}
}

func seedUser(db *sql.DB, name, email, password string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	// Seeded accounts are activated so they can log in immediately.
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, activated)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}
