package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agent-directory/internal/apperr"
	"agent-directory/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config 数据库配置，Driver 为 sqlite（默认）或 postgres。
type Config struct {
	Driver             string `yaml:"driver" env:"DB_DRIVER"`
	Path               string `yaml:"path" env:"DB_PATH"`
	DSN                string `yaml:"dsn" env:"DB_DSN"`
	MaxOpenConns       int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns       int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetimeMin int    `yaml:"conn_max_lifetime_min" env:"DB_CONN_MAX_LIFETIME_MIN"`
}

// Store 封装经纪人与提交记录的数据库访问。
type Store struct {
	db *gorm.DB
}

// NewStore 打开数据库并自动迁移数据表。
func NewStore(cfg Config) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName(cfg), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetimeMin > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)
	}

	if err := db.AutoMigrate(&model.Agent{}, &model.AgentSubmission{}); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}

	return &Store{db: db}, nil
}

func driverName(cfg Config) string {
	if cfg.Driver == "" {
		return "sqlite"
	}
	return strings.ToLower(cfg.Driver)
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch driverName(cfg) {
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "data/agents.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		// 写事务以 BEGIN IMMEDIATE 开始，并发审核时后到者排队而不是死锁。
		return sqlite.Open(path + "?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres driver requires dsn")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Close 关闭底层数据库连接。
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

// Transaction 在单个数据库事务内执行 fn，fn 返回错误时整体回滚。
// 传给 fn 的 Store 绑定在该事务上。
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translateError 把驱动错误映射为 apperr 分类。
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s", op)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict(err, "%s", op)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return apperr.Validation("%s: %v", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperr.Conflict(err, "%s", op)
		case "23503": // foreign_key_violation
			return apperr.Validation("%s: %v", op, err)
		}
	}
	return apperr.Persistence(op, err)
}
