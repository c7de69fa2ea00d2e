// Package database opens the catalog database and inspects its schema.
//
// Connect supports MySQL for deployments and SQLite for local runs and tests;
// an SQLite name of ":memory:" yields a private shared-cache database so the
// synchronization engine can hold its chunk transaction on one connection while
// the event recorder commits on another.
//
// GetTableColumns reads the live column list of a table. The integrity feature
// compares it to the gorm models of core/catalog.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	columns, err := database.GetTableColumns(db, "stocks")
package database
