package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(id, symbol, epic, direction, size, entry_price, stop_level, profit_level, leverage, deal_reference, rationale, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Symbol, t.Epic, t.Direction, t.Size, t.EntryPrice,
		t.StopLevel, t.ProfitLevel, t.Leverage, t.DealReference, t.Rationale, t.Time,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, balance, available, profit_loss, currency)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Balance, e.Available, e.ProfitLoss, e.Currency,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
