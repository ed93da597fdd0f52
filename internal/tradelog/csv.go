package tradelog

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var header = []string{
	"time", "symbol", "side", "type", "status", "orderId",
	"price", "stopPrice", "executedQty", "origQty", "error",
}

// CSV дописывает строки в файл. Заголовок пишется только в пустой файл.
type CSV struct {
	path string
	mu   sync.Mutex
}

func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Record(_ context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open trade log %s", c.path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return errors.Wrap(err, "stat trade log")
	}

	w := csv.NewWriter(f)
	if st.Size() == 0 {
		if err := w.Write(header); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	if err := w.Write(row(e)); err != nil {
		return errors.Wrap(err, "write row")
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flush trade log")
}

func (c *CSV) Close() error { return nil }

func row(e Entry) []string {
	return []string{
		e.Time.UTC().Format(time.RFC3339),
		e.Symbol,
		string(e.Side),
		string(e.Type),
		e.Status,
		strconv.FormatInt(e.OrderID, 10),
		fmtNum(e.Price),
		fmtNum(e.StopPrice),
		fmtNum(e.ExecutedQty),
		fmtNum(e.OrigQty),
		e.Error,
	}
}

func fmtNum(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
