package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/0x5c-0x200f/asterraIO-assignment/config"
)

// Seeds a couple of demo users and hobbies for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := []struct {
		firstName, lastName, address, phoneNumber string
		hobbies                                   []string
	}{
		{"Ada", "Lovelace", "1 Analytical Engine Way", "5551234567", []string{"knitting", "mathematics"}},
		{"Grace", "Hopper", "3 Compiler Court", "5559876543", []string{"sailing"}},
	}

	for _, u := range users {
		var id int64
		err := db.QueryRow(fmt.Sprintf(`
			INSERT INTO %s.users (first_name, last_name, address, phone_number)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, cfg.DBSchema), u.firstName, u.lastName, u.address, u.phoneNumber).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s %s: %v", u.firstName, u.lastName, err)
		}
		for _, hobby := range u.hobbies {
			if _, err := db.Exec(fmt.Sprintf(`
				INSERT INTO %s.hobbies (user_id, hobby)
				VALUES ($1, $2)
			`, cfg.DBSchema), id, hobby); err != nil {
				log.Fatalf("failed to seed hobby %q for user %d: %v", hobby, id, err)
			}
		}
		fmt.Printf("seeded user: id=%d name=%s %s hobbies=%v\n", id, u.firstName, u.lastName, u.hobbies)
	}
}
