package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ogurasousui/turnover-analytics/internal/platform/config"
	"github.com/sirupsen/logrus"
)

// BuildPoolConfig は database 設定から pgxpool.Config を構築します。
// logger が nil でなければ trace_level 以上のクエリログを logrus に出力します。
func BuildPoolConfig(cfg config.DatabaseConfig, logger logrus.FieldLogger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	if logger != nil {
		level, err := tracelog.LogLevelFromString(cfg.TraceLevel)
		if err != nil {
			return nil, fmt.Errorf("postgres: trace level %q: %w", cfg.TraceLevel, err)
		}
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(logger),
			LogLevel: level,
		}
	}

	return poolCfg, nil
}

// queryLogger は pgx のトレースを logrus のレベルに対応付けます。
func queryLogger(logger logrus.FieldLogger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		entry := logger.WithFields(logrus.Fields(data)).WithField("component", "pgx")
		switch level {
		case tracelog.LogLevelTrace, tracelog.LogLevelDebug:
			entry.Debug(msg)
		case tracelog.LogLevelInfo:
			entry.Info(msg)
		case tracelog.LogLevelWarn:
			entry.Warn(msg)
		default:
			entry.Error(msg)
		}
	})
}

// NewPool は pgxpool.Pool を生成し疎通確認を行います。
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger logrus.FieldLogger) (*pgxpool.Pool, error) {
	poolCfg, err := BuildPoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return pool, nil
}
