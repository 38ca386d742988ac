package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"StratForge/internal/model"
)

// SQLiteRecorder persists backtest results to a SQLite database. Scalar
// metrics get their own columns so dashboards can query them directly; the
// trade ledger, equity curve and analysis are stored as JSON blobs.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for concurrent reads while the worker writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_results (
			id                 TEXT PRIMARY KEY,
			strategy_id        TEXT,
			strategy_name      TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			timeframe          TEXT NOT NULL,
			start_time         INTEGER,
			end_time           INTEGER,
			created_at         INTEGER NOT NULL,
			initial_capital    REAL,
			final_capital      REAL,
			total_return_pct   REAL,
			total_trades       INTEGER,
			winning_trades     INTEGER,
			losing_trades      INTEGER,
			win_rate           REAL,
			profit_factor      REAL,
			sharpe_ratio       REAL,
			sortino_ratio      REAL,
			max_drawdown       REAL,
			max_drawdown_pct   REAL,
			total_commission   REAL,
			config_json        TEXT,
			trades_json        TEXT,
			equity_json        TEXT,
			analysis_json      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_strategy ON backtest_results(strategy_name, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_results_created ON backtest_results(created_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// SaveResult inserts one result row.
func (r *SQLiteRecorder) SaveResult(res *model.BacktestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

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
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.ID, res.StrategyID, res.StrategyName, res.Symbol, res.Timeframe,
		res.Start.Unix(), res.End.Unix(), res.CreatedAt.Unix(),
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

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

type resultBlobs struct {
	config, trades, equity, analysis string
}

func encodeBlobs(res *model.BacktestResult) (resultBlobs, error) {
	var b resultBlobs
	for _, part := range []struct {
		name string
		v    any
		dst  *string
	}{
		{"config", res.Config, &b.config},
		{"trades", res.Trades, &b.trades},
		{"equity", res.EquityCurve, &b.equity},
		{"analysis", res.Analysis, &b.analysis},
	} {
		data, err := json.Marshal(part.v)
		if err != nil {
			return b, fmt.Errorf("marshal %s: %w", part.name, err)
		}
		*part.dst = string(data)
	}
	return b, nil
}
