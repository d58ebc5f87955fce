package database

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/KOMKZ/go-auth-service/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerFactory GORM Logger factory function type
type GormLoggerFactory func(cfg Config) gormlogger.Interface

// Manager database manager (supports multiple instances)
type Manager struct {
	mu            sync.RWMutex
	instances     map[string]*gorm.DB
	configs       map[string]Config
	loggerFactory GormLoggerFactory
	logger        *logger.CtxZapLogger
}

// NewManager Create database manager
// configs: database configuration
// loggerFactory: GORM Logger factory function for creating custom loggers (dependency injection)
// log: business logger (must not be nil)
func NewManager(configs map[string]Config, loggerFactory GormLoggerFactory, log *logger.CtxZapLogger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	m := &Manager{
		instances:     make(map[string]*gorm.DB),
		configs:       make(map[string]Config),
		loggerFactory: loggerFactory,
		logger:        log,
	}

	for name, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config for %s: %w", name, err)
		}

		db, err := m.openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open database %s: %w", name, err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB for %s: %w", name, err)
		}

		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

		m.instances[name] = db
		m.configs[name] = cfg

		m.logger.Debug("Database connection successful",
			zap.String("name", name),
			zap.String("driver", cfg.Driver))
	}

	return m, nil
}

// openDB Open database connection
func (m *Manager) openDB(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}

	var gormLogger gormlogger.Interface
	if m.loggerFactory != nil {
		gormLogger = m.loggerFactory(cfg)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
}

// DB Get specified database instance
func (m *Manager) DB(name string) *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[name]
}

// Close all database connections
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err != nil {
			m.logger.Error("failed to get sql.DB",
				zap.String("name", name),
				zap.Error(err))
			continue
		}

		if err := sqlDB.Close(); err != nil {
			m.logger.Error("failed to close database connection",
				zap.String("name", name),
				zap.Error(err))
		} else {
			m.logger.Debug("database connection closed",
				zap.String("name", name))
		}
	}

	return nil
}

// Ping check all database connections
func (m *Manager) Ping() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, db := range m.instances {
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB for %s: %w", name, err)
		}

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("ping failed for %s: %w", name, err)
		}
	}

	return nil
}

// Stats Get database connection pool statistics
func (m *Manager) Stats(name string) (sql.DBStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	db, ok := m.instances[name]
	if !ok {
		return sql.DBStats{}, fmt.Errorf("database %s not found", name)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get sql.DB for %s: %w", name, err)
	}

	return sqlDB.Stats(), nil
}
