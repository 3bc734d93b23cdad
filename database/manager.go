/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	"github.com/uptrace/bun/schema"
)

const (
	defaultConnectTimeout = 30 * time.Second
	healthPingTimeout     = 5 * time.Second
)

// driver opens one kind of database and names its Bun dialect.
type driver struct {
	open    func(cfg *ConnectionConfig) (*sql.DB, error)
	dialect func() schema.Dialect
}

var drivers = map[string]driver{
	"mysql":      {open: openMySQL, dialect: func() schema.Dialect { return mysqldialect.New() }},
	"postgres":   {open: openPostgres, dialect: func() schema.Dialect { return pgdialect.New() }},
	"postgresql": {open: openPostgres, dialect: func() schema.Dialect { return pgdialect.New() }},
	"sqlite":     {open: openSQLite, dialect: func() schema.Dialect { return sqlitedialect.New() }},
	"sqlite3":    {open: openSQLite, dialect: func() schema.Dialect { return sqlitedialect.New() }},
}

type defaultDatabaseManager struct {
	mu     sync.RWMutex
	config *ConnectionConfig
	logger Logger

	db        *bun.DB
	sqlDB     *sql.DB
	connected bool
	lastError error
	lastCheck *HealthStatus

	// closed is set by Disconnect and cleared by Connect; background
	// reconnects never reopen a closed manager.
	closed         bool
	reconnectTries int
	stopHealth     chan struct{}
}

// NewDatabaseManager returns an AbstractDatabaseManager backed by Bun. A nil
// config means DefaultConnectionConfig.
func NewDatabaseManager(config *ConnectionConfig) AbstractDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &defaultDatabaseManager{
		config:    config,
		logger:    GetLogger(),
		lastCheck: &HealthStatus{},
	}
}

func (dm *defaultDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.closed = false
	return dm.connectLocked(ctx)
}

func (dm *defaultDatabaseManager) connectLocked(ctx context.Context) error {
	if dm.connected && dm.db != nil {
		return nil
	}

	drv, ok := drivers[dm.config.Type]
	if !ok {
		dm.lastError = fmt.Errorf("unsupported database type: %s", dm.config.Type)
		return dm.lastError
	}
	if dm.config.ConnectTimeout <= 0 {
		dm.config.ConnectTimeout = defaultConnectTimeout
	}

	sqlDB, err := drv.open(dm.config)
	if err != nil {
		dm.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	applyPool(sqlDB, dm.config)

	db := bun.NewDB(sqlDB, drv.dialect())
	dm.installHooks(db)

	pingCtx, cancel := context.WithTimeout(ctx, dm.config.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		dm.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	dm.db, dm.sqlDB = db, sqlDB
	dm.connected = true
	dm.lastError = nil
	dm.reconnectTries = 0
	if dm.config.HealthCheckInterval > 0 && dm.stopHealth == nil {
		dm.stopHealth = make(chan struct{})
		go dm.healthLoop(dm.stopHealth, dm.config.HealthCheckInterval)
	}

	dm.logger.Info("Database connected successfully", "type", dm.config.Type, "host", dm.config.Host, "dbname", dm.config.DBName)
	return nil
}

func (dm *defaultDatabaseManager) installHooks(db *bun.DB) {
	if dm.config.EnableQueryLog {
		db.AddQueryHook(NewQueryHook(false, nil))
	}
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv("BUNDEBUG"),
	))
	if dm.config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{slowTime: dm.config.SlowQueryTime, logger: dm.logger})
	}
}

func applyPool(db *sql.DB, cfg *ConnectionConfig) {
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func mysqlConfig(cfg *ConnectionConfig) *mysql.Config {
	c := mysql.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.DBName
	c.ParseTime = true
	c.Loc = time.UTC
	// rows matched rather than rows changed, so an update that rewrites the
	// same values still counts
	c.ClientFoundRows = true
	c.Timeout = cfg.ConnectTimeout
	c.ReadTimeout = cfg.ReadTimeout
	c.WriteTimeout = cfg.WriteTimeout
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c
}

func openMySQL(cfg *ConnectionConfig) (*sql.DB, error) {
	connector, err := mysql.NewConnector(mysqlConfig(cfg))
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func postgresDSN(cfg *ConnectionConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	query := url.Values{}
	query.Set("sslmode", sslMode)
	query.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.DBName,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func openPostgres(cfg *ConnectionConfig) (*sql.DB, error) {
	connector, err := pq.NewConnector(postgresDSN(cfg))
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func openSQLite(cfg *ConnectionConfig) (*sql.DB, error) {
	dsn := sqliteDSN(cfg.DBName)
	if isSQLiteMemory(dsn) {
		// the in-memory database lives only as long as its connection
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
		cfg.ConnMaxLifetime = 0
		cfg.ConnMaxIdleTime = 0
	}
	return sql.Open(sqliteshim.ShimName, dsn)
}

// sqliteDSN keeps ":memory:" and file: URIs, and maps anything else to
// "<name>.db".
func sqliteDSN(name string) string {
	switch {
	case name == ":memory:":
		return "file::memory:?cache=shared"
	case strings.HasPrefix(name, "file:"):
		return name
	default:
		return name + ".db"
	}
}

func isSQLiteMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func (dm *defaultDatabaseManager) Disconnect() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.closed = true
	return dm.closeLocked()
}

func (dm *defaultDatabaseManager) closeLocked() error {
	if dm.stopHealth != nil {
		close(dm.stopHealth)
		dm.stopHealth = nil
	}
	if dm.db == nil {
		return nil
	}

	err := dm.db.Close()
	dm.db, dm.sqlDB = nil, nil
	dm.connected = false
	if err != nil {
		dm.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	dm.logger.Info("Database connection closed")
	return nil
}

func (dm *defaultDatabaseManager) Reconnect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.closed = false
	return dm.reopenLocked(ctx)
}

func (dm *defaultDatabaseManager) reopenLocked(ctx context.Context) error {
	dm.logger.Info("Attempting to reconnect to the database")
	if err := dm.closeLocked(); err != nil {
		dm.logger.Warn("Error disconnecting existing connection", "error", err)
	}
	return dm.connectLocked(ctx)
}

// reconnectIfOpen reopens the connection unless Disconnect was called.
func (dm *defaultDatabaseManager) reconnectIfOpen(ctx context.Context) (bool, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.closed {
		return false, nil
	}
	return true, dm.reopenLocked(ctx)
}

func (dm *defaultDatabaseManager) Ping(ctx context.Context) error {
	db := dm.GetDB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}
	return db.PingContext(ctx)
}

func (dm *defaultDatabaseManager) GetDB() *bun.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.db
}

func (dm *defaultDatabaseManager) GetSQLDB() *sql.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.sqlDB
}

// HealthCheck pings the database and records the result.
func (dm *defaultDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	dm.mu.RLock()
	db, sqlDB, connected := dm.db, dm.sqlDB, dm.connected
	dm.mu.RUnlock()

	status := &HealthStatus{LastCheckTime: time.Now(), Connected: connected}
	if db == nil {
		status.LastError = "Database not initialized"
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	err := db.PingContext(pingCtx)
	cancel()
	status.ResponseTime = time.Since(status.LastCheckTime)
	status.Healthy = err == nil
	status.Connected = err == nil
	if err != nil {
		status.LastError = err.Error()
	}

	stats := sqlDB.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections

	dm.mu.Lock()
	dm.lastError = err
	dm.lastCheck = status
	dm.mu.Unlock()
	return status
}

// healthLoop pings every interval and hands a failed check to tryReconnect
// when reconnects are enabled. It exits when stop is closed or once
// reconnecting has been attempted.
func (dm *defaultDatabaseManager) healthLoop(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*healthPingTimeout)
		status := dm.HealthCheck(ctx)
		cancel()
		if status.Healthy || !dm.config.EnableReconnect {
			continue
		}
		dm.tryReconnect()
		return
	}
}

// tryReconnect retries until MaxReconnectTries is used up or the manager is
// disconnected. It reports whether a new connection, with its own health
// loop, replaced the broken one.
func (dm *defaultDatabaseManager) tryReconnect() bool {
	logger := dm.getLogger()
	for {
		dm.mu.Lock()
		if dm.closed {
			dm.mu.Unlock()
			return false
		}
		if dm.reconnectTries >= dm.config.MaxReconnectTries {
			tries := dm.reconnectTries
			dm.mu.Unlock()
			logger.Error("Max reconnect attempts reached, stopping", "tries", tries)
			return false
		}
		dm.reconnectTries++
		try := dm.reconnectTries
		dm.mu.Unlock()

		logger.Info("Starting database reconnect", "try", try)
		time.Sleep(dm.config.ReconnectInterval)

		ctx, cancel := context.WithTimeout(context.Background(), dm.config.ConnectTimeout)
		attempted, err := dm.reconnectIfOpen(ctx)
		cancel()
		if !attempted {
			return false
		}
		if err == nil {
			logger.Info("Reconnect succeeded")
			return true
		}
		logger.Error("Reconnect failed", "error", err, "try", try)
	}
}

func (dm *defaultDatabaseManager) GetStats() *DBStats {
	sqlDB := dm.GetSQLDB()
	if sqlDB == nil {
		return &DBStats{}
	}
	s := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      s.MaxOpenConnections,
		OpenConns:         s.OpenConnections,
		InUse:             s.InUse,
		Idle:              s.Idle,
		WaitCount:         s.WaitCount,
		WaitDuration:      s.WaitDuration,
		MaxIdleClosed:     s.MaxIdleClosed,
		MaxIdleTimeClosed: s.MaxIdleTimeClosed,
		MaxLifetimeClosed: s.MaxLifetimeClosed,
	}
}

func (dm *defaultDatabaseManager) RunMigrations(ctx context.Context, cfg *Config) error {
	db := dm.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrationManager(db, dm.getLogger(), cfg).RunMigrations(ctx)
}

func (dm *defaultDatabaseManager) InitData(ctx context.Context, cfg *Config) error {
	db := dm.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrationManager(db, dm.getLogger(), cfg).InitData(ctx)
}

func (dm *defaultDatabaseManager) getLogger() Logger {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.logger
}

func (dm *defaultDatabaseManager) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.logger = logger
}
