package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockTiming/internal/domain/models"
	pkgch "StockTiming/pkg/clickhouse"
	applogger "StockTiming/pkg/logger"
)

// SignalSchema creates the archive table. Passed to Client.InitSchema at
// startup; safe to run repeatedly.
var SignalSchema = []string{
	`CREATE DATABASE IF NOT EXISTS stocktiming`,
	`CREATE TABLE IF NOT EXISTS stocktiming.signals (
        ts            DateTime,
        symbol        LowCardinality(String),
        action        LowCardinality(String),
        price         Float64,
        change        Float64,
        change_pct    Float64,
        confidence    Int32,
        reasoning     String,
        rsi           Float64,
        macd          Float64,
        volume        Int64
    ) ENGINE = MergeTree
    PARTITION BY toYYYYMM(ts)
    ORDER BY (symbol, ts)`,
}

// CHSignalArchive implements SignalArchive backed by ClickHouse.
type CHSignalArchive struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHSignalArchive(ch *pkgch.Client, l *applogger.Logger) *CHSignalArchive {
	return &CHSignalArchive{db: ch.DB(), l: l}
}

func (a *CHSignalArchive) Append(ctx context.Context, s models.Signal) error {
	const q = `INSERT INTO stocktiming.signals
        (ts, symbol, action, price, change, change_pct, confidence, reasoning, rsi, macd, volume)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := a.db.ExecContext(ctx, q,
		s.Timestamp,
		s.Symbol,
		string(s.Action),
		s.Price,
		s.Change,
		s.ChangePercent,
		int32(s.Confidence),
		s.Reasoning,
		s.RSI,
		s.MACD,
		s.Volume,
	)
	if err != nil {
		if a.l != nil {
			a.l.Error("clickhouse signal insert error",
				applogger.String("symbol", s.Symbol),
				applogger.Error(err))
		}
		return fmt.Errorf("archive signal: %w", err)
	}
	return nil
}

func (a *CHSignalArchive) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Signal, error) {
	const q = `SELECT ts, symbol, action, price, change, change_pct, confidence, reasoning, rsi, macd, volume
        FROM stocktiming.signals
        WHERE symbol = ? AND ts >= ? AND ts <= ?
        ORDER BY ts DESC
        LIMIT ?`
	rows, err := a.db.QueryContext(ctx, q, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	out := make([]models.Signal, 0, limit)
	for rows.Next() {
		var s models.Signal
		var action string
		var confidence int32
		if err := rows.Scan(&s.Timestamp, &s.Symbol, &action, &s.Price, &s.Change, &s.ChangePercent,
			&confidence, &s.Reasoning, &s.RSI, &s.MACD, &s.Volume); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		s.Action = models.Action(action)
		s.Confidence = int(confidence)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *CHSignalArchive) Close() error {
	return nil // pool owned by pkg client
}
