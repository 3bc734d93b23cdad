// Package database provides connection management, migrations, foreign key
// handling, SQL seed files, configuration types, logging and health checks
// for the cars store, built on top of Bun.
package database
