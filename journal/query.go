package journal

import (
	"database/sql"
	"fmt"
	"time"
)

const tradeColumns = `id, symbol, epic, direction, size, entry_price, stop_level, profit_level, leverage, deal_reference, rationale, time`

func scanTrade(row interface{ Scan(...any) error }) (TradeRecord, error) {
	var rec TradeRecord
	err := row.Scan(
		&rec.ID,
		&rec.Symbol,
		&rec.Epic,
		&rec.Direction,
		&rec.Size,
		&rec.EntryPrice,
		&rec.StopLevel,
		&rec.ProfitLevel,
		&rec.Leverage,
		&rec.DealReference,
		&rec.Rationale,
		&rec.Time,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(id string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE id = ?`, id)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", id)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades executed within [start, end),
// oldest first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListTrades returns the most recent trades, newest first, capped at
// limit (all trades when limit <= 0).
func (j *SQLite) ListTrades(limit int) ([]TradeRecord, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades ORDER BY time DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = j.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = j.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
