package recorder

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"StratForge/internal/model"
)

// PostgresRecorder persists backtest results to PostgreSQL. Same row shape as
// the SQLite recorder; used when several workers share one database.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder connects, pings and runs migrations.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Msg("postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS backtest_results (
		id               TEXT PRIMARY KEY,
		strategy_id      TEXT,
		strategy_name    TEXT NOT NULL,
		symbol           TEXT NOT NULL,
		timeframe        TEXT NOT NULL,
		start_time       TIMESTAMPTZ,
		end_time         TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		initial_capital  DOUBLE PRECISION,
		final_capital    DOUBLE PRECISION,
		total_return_pct DOUBLE PRECISION,
		total_trades     INTEGER,
		winning_trades   INTEGER,
		losing_trades    INTEGER,
		win_rate         DOUBLE PRECISION,
		profit_factor    DOUBLE PRECISION,
		sharpe_ratio     DOUBLE PRECISION,
		sortino_ratio    DOUBLE PRECISION,
		max_drawdown     DOUBLE PRECISION,
		max_drawdown_pct DOUBLE PRECISION,
		total_commission DOUBLE PRECISION,
		config_json      JSONB,
		trades_json      JSONB,
		equity_json      JSONB,
		analysis_json    JSONB
	)`)
	if err != nil {
		return fmt.Errorf("create backtest_results: %w", err)
	}
	_, err = r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_results_strategy
		ON backtest_results(strategy_name, created_at)`)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// SaveResult inserts one result row. database/sql serializes access, so no
// extra locking is needed here.
func (r *PostgresRecorder) SaveResult(res *model.BacktestResult) error {
	blobs, err := encodeBlobs(res)
	if err != nil {
		return err
	}

	m := res.Metrics
	_, err = r.db.Exec(`INSERT INTO backtest_results
		(id, strategy_id, strategy_name, symbol, timeframe,
		 start_time, end_time, created_at,
		 initial_capital, final_capital, total_return_pct,
		 total_trades, winning_trades, losing_trades, win_rate,
		 profit_factor, sharpe_ratio, sortino_ratio,
		 max_drawdown, max_drawdown_pct, total_commission,
		 config_json, trades_json, equity_json, analysis_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`,
		res.ID, res.StrategyID, res.StrategyName, res.Symbol, res.Timeframe,
		res.Start, res.End, res.CreatedAt,
		m.InitialCapital, m.FinalCapital, m.TotalReturnPercent,
		m.TotalTrades, m.WinningTrades, m.LosingTrades, m.WinRate,
		m.ProfitFactor, m.SharpeRatio, m.SortinoRatio,
		m.MaxDrawdown, m.MaxDrawdownPercent, m.TotalCommission,
		blobs.config, blobs.trades, blobs.equity, blobs.analysis,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Close() error {
	log.Info().Msg("closing postgres recorder")
	return r.db.Close()
}
