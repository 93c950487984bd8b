// Command export dumps the guest list with per-event RSVP state as CSV on
// stdout, for sharing with caterers and planners.
//
// Usage:
//
//	export -event 3 > guests.csv
//
// Without -event, every event's RSVP rows are included.
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	"wedding-backend/internal/config"

	_ "github.com/lib/pq"
)

func main() {
	eventID := flag.Int("event", 0, "Restrict output to one event ID")
	flag.Parse()

	cfg := config.Load()
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	query := `
		SELECT h.name, g.first_name, g.last_name,
		       COALESCE(g.email, ''), COALESCE(g.dietary_restrictions, ''),
		       e.name, ge.status,
		       COALESCE(TO_CHAR(ge.response_date, 'YYYY-MM-DD HH24:MI'), '')
		FROM guests g
		JOIN households h ON h.id = g.household_id
		JOIN guest_events ge ON ge.guest_id = g.id
		JOIN events e ON e.id = ge.event_id`
	args := []interface{}{}
	if *eventID > 0 {
		query += ` WHERE ge.event_id = $1`
		args = append(args, *eventID)
	}
	query += ` ORDER BY h.name, g.last_name, g.first_name, e.name`

	rows, err := db.Query(query, args...)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	w.Write([]string{"household", "first_name", "last_name", "email",
		"dietary_restrictions", "event", "status", "response_date"})

	count := 0
	for rows.Next() {
		record := make([]string, 8)
		ptrs := make([]interface{}, len(record))
		for i := range record {
			ptrs[i] = &record[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Row iteration failed: %v", err)
	}

	w.Flush()
	log.Printf("Exported %d RSVP rows", count)
}
