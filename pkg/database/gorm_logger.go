package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"
)

type GormLoggerConfig struct {
	Level                gormlogger.LogLevel
	SlowThreshold        time.Duration
	IgnoreRecordNotFound bool
}

// GormLogger implements gormlogger.Interface on top of the global zerolog logger.
type GormLogger struct {
	level                gormlogger.LogLevel
	slowThreshold        time.Duration
	ignoreRecordNotFound bool
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		level:                cfg.Level,
		slowThreshold:        cfg.SlowThreshold,
		ignoreRecordNotFound: cfg.IgnoreRecordNotFound,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copy := *l
	copy.level = level
	return &copy
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Info {
		return
	}
	log.Info().Str("component", "gorm").Interface("data", data).Msg(msg)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Warn {
		return
	}
	log.Warn().Str("component", "gorm").Interface("data", data).Msg(msg)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level < gormlogger.Error {
		return
	}
	log.Error().Str("component", "gorm").Interface("data", data).Msg(msg)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && (!errors.Is(err, gormlogger.ErrRecordNotFound) || !l.ignoreRecordNotFound):
		l.logQuery(log.Error(), fc, elapsed, err)
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.logQuery(log.Warn().Bool("slow", true), fc, elapsed, nil)
	case l.level >= gormlogger.Info:
		l.logQuery(log.Debug(), fc, elapsed, nil)
	}
}

func (l *GormLogger) logQuery(ev *zerolog.Event, fc func() (string, int64), elapsed time.Duration, err error) {
	sql, rows := fc()
	ev = ev.Str("component", "gorm").
		Str("sql", strings.TrimSpace(sql)).
		Int64("duration_ms", elapsed.Milliseconds())
	if rows >= 0 {
		ev = ev.Int64("rows_affected", rows)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("gorm.query")
}
