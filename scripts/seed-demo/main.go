// seed-demo creates a SQLite database with deliberately imperfect data for
// trying out the profiler end to end: NULL gaps, duplicated values, a stale
// freshness column and one empty table.
//
// Usage: go run ./scripts/seed-demo [-path demo.db] [-orders 500]
//
// Register it afterwards:
//
//	curl -X POST localhost:8000/api/connections -d '{
//	  "service_name": "demo",
//	  "type": "sqlite",
//	  "config": {"path": "demo.db"}
//	}'
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

var statuses = []string{"pending", "paid", "shipped", "shipped", "cancelled"}

func main() {
	path := flag.String("path", "demo.db", "where to create the demo database")
	orders := flag.Int("orders", 500, "number of order rows to generate")
	flag.Parse()

	if _, err := os.Stat(*path); err == nil {
		log.Fatalf("%s already exists; remove it first", *path)
	}

	db, err := sql.Open("sqlite", *path)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := seed(db, *orders); err != nil {
		os.Remove(*path)
		log.Fatalf("seed database: %v", err)
	}

	log.Printf("created %s with %d orders", *path, *orders)
}

func seed(db *sql.DB, orders int) error {
	ddl := []string{
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER REFERENCES customers(id),
			status TEXT,
			amount REAL,
			updated_at TIMESTAMP
		)`,
		`CREATE TABLE audit_log (
			id INTEGER PRIMARY KEY,
			action TEXT NOT NULL,
			logged_at TIMESTAMP
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	// Every third customer is missing an email.
	customers := orders/5 + 1
	for i := 1; i <= customers; i++ {
		email := any(fmt.Sprintf("customer%d@example.com", i))
		if i%3 == 0 {
			email = nil
		}
		createdAt := now.AddDate(0, 0, -i%400)
		if _, err := tx.Exec(
			`INSERT INTO customers (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
			i, fmt.Sprintf("Customer %d", i), email, createdAt,
		); err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
	}

	// Orders skew towards a few statuses and leave amount NULL now and then.
	// The newest updated_at lands two days back, old enough to ding the
	// freshness component.
	for i := 1; i <= orders; i++ {
		status := any(statuses[i%len(statuses)])
		if i%11 == 0 {
			status = nil
		}
		amount := any(float64(i%97) + 0.99)
		if i%7 == 0 {
			amount = nil
		}
		updatedAt := now.AddDate(0, 0, -2-i%30)
		if _, err := tx.Exec(
			`INSERT INTO orders (id, customer_id, status, amount, updated_at) VALUES (?, ?, ?, ?, ?)`,
			i, i%customers+1, status, amount, updatedAt,
		); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
	}

	// audit_log stays empty so one table profiles with zero rows.

	return tx.Commit()
}
