package db

import (
	"errors"
	"fmt"
	stdlog "log"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrDuplicate is returned when a write hits a unique index.
var ErrDuplicate = errors.New("duplicate entry")

type Storage struct {
	db *gorm.DB
	lg zerolog.Logger
}

func NewStorage(mc *MysqlConfig, opts ...gorm.Option) (*Storage, error) {
	return open(stgDsn(mc), mc.debug, opts...)
}

func open(dsn string, debug bool, opts ...gorm.Option) (*Storage, error) {

	lg := zerolog.New(os.Stdout).With().Str("Module", "Storage").Timestamp().Logger()

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	// gorm writes plain lines; route them through the storage logger
	gormLogger := logger.New(
		stdlog.New(lg, "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conf := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}
	db, err := gorm.Open(mysql.Open(dsn), append([]gorm.Option{conf}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("mysql 연결 실패. %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Storage{
		db: db,
		lg: lg,
	}, nil
}

func (s Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type MysqlConfig struct {
	user     string
	password string
	ip       string
	port     string
	scheme   string
	debug    bool
}

func NewMysqlConfig(user string, password string, ip string, port string, scheme string, debug bool) *MysqlConfig {
	return &MysqlConfig{
		user:     user,
		password: password,
		ip:       ip,
		port:     port,
		scheme:   scheme,
		debug:    debug,
	}
}

type RedisConfig struct {
	enabled  bool
	password string
	ip       string
	port     string
	db       int
	prefix   string
}

func NewRedisConfig(enabled bool, password string, ip string, port string, db int, prefix string) *RedisConfig {
	return &RedisConfig{
		enabled:  enabled,
		password: password,
		ip:       ip,
		port:     port,
		db:       db,
		prefix:   prefix,
	}
}
