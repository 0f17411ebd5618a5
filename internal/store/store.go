package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"BistRadar/internal/model"
)

// Store persists opportunities, trade results, daily closes and
// indicator snapshots to a SQLite database. All writes are serialized
// behind a single mutex; SQLite handles concurrent readers via WAL.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads do not block the job writers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS opportunities (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			operator_id             INTEGER NOT NULL,
			symbol                  TEXT NOT NULL,
			name                    TEXT,
			action                  TEXT NOT NULL,
			entry_price             REAL NOT NULL,
			target_price            REAL NOT NULL,
			stop_loss               REAL NOT NULL,
			expected_profit_percent REAL,
			confidence              INTEGER,
			risk_level              TEXT,
			timeframe               TEXT,
			reason                  TEXT,
			status                  TEXT NOT NULL DEFAULT 'OPEN',
			is_active               INTEGER NOT NULL DEFAULT 1,
			notified                INTEGER NOT NULL DEFAULT 0,
			signal_hash             TEXT NOT NULL UNIQUE,
			created_at              INTEGER NOT NULL,
			closed_at               INTEGER,
			exit_price              REAL,
			exit_reason             TEXT,
			realized_profit_percent REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opp_operator_status ON opportunities(operator_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_opp_created ON opportunities(created_at)`,

		`CREATE TABLE IF NOT EXISTS trade_results (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			opportunity_id          INTEGER NOT NULL UNIQUE,
			operator_id             INTEGER NOT NULL,
			symbol                  TEXT NOT NULL,
			action                  TEXT NOT NULL,
			entry_price             REAL NOT NULL,
			exit_price              REAL NOT NULL,
			exit_reason             TEXT NOT NULL,
			expected_profit_percent REAL,
			realized_profit_percent REAL,
			confidence              INTEGER,
			risk_level              TEXT,
			opened_at               INTEGER NOT NULL,
			closed_at               INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_result_operator_closed ON trade_results(operator_id, closed_at)`,

		`CREATE TABLE IF NOT EXISTS price_history (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			close  REAL NOT NULL,
			volume INTEGER,
			UNIQUE(symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_symbol_date ON price_history(symbol, date)`,

		`CREATE TABLE IF NOT EXISTS technical_indicators (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol          TEXT NOT NULL,
			date            TEXT NOT NULL,
			rsi             REAL,
			macd            REAL,
			macd_signal     REAL,
			macd_histogram  REAL,
			sma20           REAL,
			sma50           REAL,
			ema12           REAL,
			ema26           REAL,
			bollinger_upper REAL,
			bollinger_lower REAL,
			UNIQUE(symbol, date)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// InsertOpportunity stores a new opportunity. The signal hash carries a
// unique constraint; a same-day duplicate signal is silently skipped
// and reported as inserted=false.
func (s *Store) InsertOpportunity(o *model.Opportunity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO opportunities
		(operator_id, symbol, name, action, entry_price, target_price, stop_loss,
		 expected_profit_percent, confidence, risk_level, timeframe, reason,
		 status, is_active, notified, signal_hash, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(signal_hash) DO NOTHING`,
		o.OperatorID, o.Symbol, o.Name, string(o.Action),
		o.EntryPrice, o.TargetPrice, o.StopLoss,
		o.ExpectedProfitPercent, o.Confidence, string(o.RiskLevel),
		o.Timeframe, o.Reason,
		string(model.StatusOpen), 1, boolInt(o.Notified),
		o.SignalHash, o.CreatedAt.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("insert opportunity: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	o.ID = id
	o.Status = model.StatusOpen
	o.IsActive = true
	return true, nil
}

// OpenOpportunities returns the operator's active OPEN opportunities,
// oldest first.
func (s *Store) OpenOpportunities(operatorID int64) ([]*model.Opportunity, error) {
	rows, err := s.db.Query(`SELECT
		id, operator_id, symbol, name, action, entry_price, target_price, stop_loss,
		expected_profit_percent, confidence, risk_level, timeframe, reason,
		status, is_active, notified, signal_hash, created_at,
		closed_at, exit_price, exit_reason, realized_profit_percent
		FROM opportunities
		WHERE operator_id = ? AND status = ? AND is_active = 1
		ORDER BY created_at ASC`,
		operatorID, string(model.StatusOpen))
	if err != nil {
		return nil, fmt.Errorf("query open opportunities: %w", err)
	}
	defer rows.Close()

	var out []*model.Opportunity
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Opportunity loads one row by id.
func (s *Store) Opportunity(id int64) (*model.Opportunity, error) {
	rows, err := s.db.Query(`SELECT
		id, operator_id, symbol, name, action, entry_price, target_price, stop_loss,
		expected_profit_percent, confidence, risk_level, timeframe, reason,
		status, is_active, notified, signal_hash, created_at,
		closed_at, exit_price, exit_reason, realized_profit_percent
		FROM opportunities WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query opportunity %d: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, sql.ErrNoRows
	}
	return scanOpportunity(rows)
}

func scanOpportunity(rows *sql.Rows) (*model.Opportunity, error) {
	var (
		o          model.Opportunity
		action     string
		risk       string
		status     string
		active     int
		notified   int
		createdAt  int64
		closedAt   sql.NullInt64
		exitPrice  sql.NullFloat64
		exitReason sql.NullString
		realized   sql.NullFloat64
	)
	err := rows.Scan(
		&o.ID, &o.OperatorID, &o.Symbol, &o.Name, &action,
		&o.EntryPrice, &o.TargetPrice, &o.StopLoss,
		&o.ExpectedProfitPercent, &o.Confidence, &risk,
		&o.Timeframe, &o.Reason,
		&status, &active, &notified, &o.SignalHash, &createdAt,
		&closedAt, &exitPrice, &exitReason, &realized,
	)
	if err != nil {
		return nil, fmt.Errorf("scan opportunity: %w", err)
	}
	o.Action = model.Action(action)
	o.RiskLevel = model.RiskLevel(risk)
	o.Status = model.Status(status)
	o.IsActive = active != 0
	o.Notified = notified != 0
	o.CreatedAt = time.Unix(createdAt, 0)
	if closedAt.Valid {
		o.ClosedAt = time.Unix(closedAt.Int64, 0)
	}
	o.ExitPrice = exitPrice.Float64
	o.ExitReason = model.ExitReason(exitReason.String)
	o.RealizedProfitPercent = realized.Float64
	return &o, nil
}

// CloseOpportunity transitions an OPEN opportunity to its terminal
// status. The status guard makes the transition single-shot: a row
// already closed by a concurrent run is left untouched.
func (s *Store) CloseOpportunity(o *model.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE opportunities
		SET status = ?, is_active = 0, closed_at = ?, exit_price = ?,
		    exit_reason = ?, realized_profit_percent = ?
		WHERE id = ? AND status = ?`,
		string(o.Status), o.ClosedAt.Unix(), o.ExitPrice,
		string(o.ExitReason), o.RealizedProfitPercent,
		o.ID, string(model.StatusOpen),
	)
	if err != nil {
		return fmt.Errorf("close opportunity %d: %w", o.ID, err)
	}
	return nil
}

// MarkNotified flags an opportunity as announced so a rerun does not
// send it twice.
func (s *Store) MarkNotified(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE opportunities SET notified = 1 WHERE id = ?`, id)
	return err
}

// DeactivateStale flips is_active off for OPEN opportunities created
// before cutoff. They stay OPEN for the resolver; they just drop out of
// active listings. Returns the number of rows touched.
func (s *Store) DeactivateStale(operatorID int64, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE opportunities
		SET is_active = 0
		WHERE operator_id = ? AND status = ? AND is_active = 1 AND created_at < ?`,
		operatorID, string(model.StatusOpen), cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("deactivate stale: %w", err)
	}
	return res.RowsAffected()
}

// InsertTradeResult writes the close-out audit row. One row per
// opportunity; a duplicate write is ignored.
func (s *Store) InsertTradeResult(tr *model.TradeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO trade_results
		(opportunity_id, operator_id, symbol, action, entry_price, exit_price,
		 exit_reason, expected_profit_percent, realized_profit_percent,
		 confidence, risk_level, opened_at, closed_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(opportunity_id) DO NOTHING`,
		tr.OpportunityID, tr.OperatorID, tr.Symbol, string(tr.Action),
		tr.EntryPrice, tr.ExitPrice, string(tr.ExitReason),
		tr.ExpectedProfitPercent, tr.RealizedProfitPercent,
		tr.Confidence, string(tr.RiskLevel),
		tr.OpenedAt.Unix(), tr.ClosedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert trade result: %w", err)
	}
	return nil
}

// WinRate counts the operator's trade results closed after since and
// how many of them realized a positive profit.
func (s *Store) WinRate(operatorID int64, since time.Time) (total, wins int, err error) {
	row := s.db.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN realized_profit_percent > 0 THEN 1 ELSE 0 END), 0)
		FROM trade_results
		WHERE operator_id = ? AND closed_at >= ?`,
		operatorID, since.Unix())
	if err := row.Scan(&total, &wins); err != nil {
		return 0, 0, fmt.Errorf("query win rate: %w", err)
	}
	return total, wins, nil
}

// UpsertClose records one daily close. Rewriting the same symbol+date
// overwrites the previous value, so intraday refreshes converge on the
// final close.
func (s *Store) UpsertClose(symbol, date string, close float64, volume int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO price_history (symbol, date, close, volume)
		VALUES (?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET close = excluded.close, volume = excluded.volume`,
		symbol, date, close, volume)
	if err != nil {
		return fmt.Errorf("upsert close %s %s: %w", symbol, date, err)
	}
	return nil
}

// Closes returns up to limit stored daily closes for symbol, oldest
// first.
func (s *Store) Closes(symbol string, limit int) ([]float64, error) {
	rows, err := s.db.Query(`SELECT close FROM (
			SELECT close, date FROM price_history
			WHERE symbol = ? ORDER BY date DESC LIMIT ?
		) ORDER BY date ASC`,
		symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query closes: %w", err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		closes = append(closes, c)
	}
	return closes, rows.Err()
}

// ClosesSince returns the closes recorded on or after date (inclusive,
// YYYY-MM-DD), oldest first. Feeds the short-window trend slope.
func (s *Store) ClosesSince(symbol, date string) ([]float64, error) {
	rows, err := s.db.Query(`SELECT close FROM price_history
		WHERE symbol = ? AND date >= ? ORDER BY date ASC`,
		symbol, date)
	if err != nil {
		return nil, fmt.Errorf("query closes since: %w", err)
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		closes = append(closes, c)
	}
	return closes, rows.Err()
}

// UpsertIndicators stores the indicator snapshot computed for
// symbol on date, replacing any earlier snapshot for the same day.
func (s *Store) UpsertIndicators(symbol, date string, ind *model.Indicators) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO technical_indicators
		(symbol, date, rsi, macd, macd_signal, macd_histogram,
		 sma20, sma50, ema12, ema26, bollinger_upper, bollinger_lower)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, date) DO UPDATE SET
			rsi = excluded.rsi,
			macd = excluded.macd,
			macd_signal = excluded.macd_signal,
			macd_histogram = excluded.macd_histogram,
			sma20 = excluded.sma20,
			sma50 = excluded.sma50,
			ema12 = excluded.ema12,
			ema26 = excluded.ema26,
			bollinger_upper = excluded.bollinger_upper,
			bollinger_lower = excluded.bollinger_lower`,
		symbol, date, ind.RSI, ind.MACD, ind.MACDSignal, ind.MACDHistogram,
		ind.SMA20, ind.SMA50, ind.EMA12, ind.EMA26,
		ind.BollingerUpper, ind.BollingerLower)
	if err != nil {
		return fmt.Errorf("upsert indicators %s %s: %w", symbol, date, err)
	}
	return nil
}

// IndicatorsOn returns the stored snapshot for symbol on date, or
// sql.ErrNoRows when none was written.
func (s *Store) IndicatorsOn(symbol, date string) (*model.Indicators, error) {
	var ind model.Indicators
	err := s.db.QueryRow(`SELECT rsi, macd, macd_signal, macd_histogram,
		sma20, sma50, ema12, ema26, bollinger_upper, bollinger_lower
		FROM technical_indicators WHERE symbol = ? AND date = ?`,
		symbol, date).Scan(
		&ind.RSI, &ind.MACD, &ind.MACDSignal, &ind.MACDHistogram,
		&ind.SMA20, &ind.SMA50, &ind.EMA12, &ind.EMA26,
		&ind.BollingerUpper, &ind.BollingerLower)
	if err != nil {
		return nil, err
	}
	return &ind, nil
}

func (s *Store) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
