package tradelog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"breakout_bot/pkg/db"
)

const createTable = `
CREATE TABLE IF NOT EXISTS trade_log (
	id           BIGSERIAL PRIMARY KEY,
	ts           TIMESTAMPTZ      NOT NULL,
	symbol       TEXT             NOT NULL,
	side         TEXT             NOT NULL,
	type         TEXT             NOT NULL,
	status       TEXT             NOT NULL,
	order_id     BIGINT           NOT NULL DEFAULT 0,
	price        DOUBLE PRECISION NOT NULL DEFAULT 0,
	stop_price   DOUBLE PRECISION NOT NULL DEFAULT 0,
	executed_qty DOUBLE PRECISION NOT NULL DEFAULT 0,
	orig_qty     DOUBLE PRECISION NOT NULL DEFAULT 0,
	error        TEXT             NOT NULL DEFAULT ''
)`

const insertEntry = `
INSERT INTO trade_log (ts, symbol, side, type, status, order_id, price, stop_price, executed_qty, orig_qty, error)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Postgres — зеркало CSV-журнала в таблице trade_log.
type Postgres struct {
	tm *db.PgTxManager
}

func NewPostgres(tm *db.PgTxManager) *Postgres {
	return &Postgres{tm: tm}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.tm.Conn().Exec(ctx, createTable)
	return errors.Wrap(err, "create trade_log")
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	return p.tm.RunMaster(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertEntry,
			e.Time, e.Symbol, string(e.Side), string(e.Type), e.Status,
			e.OrderID, e.Price, e.StopPrice, e.ExecutedQty, e.OrigQty, e.Error)
		return errors.Wrap(err, "insert trade_log")
	})
}

func (p *Postgres) Close() error {
	p.tm.Close()
	return nil
}
