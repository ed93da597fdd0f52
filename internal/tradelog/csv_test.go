package tradelog

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakout_bot/internal/models"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSV_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	j := NewCSV(path)
	ack := models.OrderAck{
		Symbol: "BTCUSDT", OrderID: 11, Side: models.SideBuy, Type: models.OrderTypeStopLoss,
		Status: "NEW", StopPrice: 50100.5, OrigQty: 0.08,
		TransactTime: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, j.Record(context.Background(), FromAck(ack)))
	require.NoError(t, NewCSV(path).Record(context.Background(), FromAck(ack)))

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
	assert.Equal(t, []string{
		"2024-05-01T12:00:00Z", "BTCUSDT", "BUY", "STOP_LOSS", "NEW", "11",
		"0", "50100.5", "0", "0.08", "",
	}, rows[1])
}

func TestCSV_FailureRowCarriesError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	req := models.OrderRequest{Symbol: "BTCUSDT", Side: models.SideSell, Type: models.OrderTypeStopLoss, Quantity: 0.02, StopPrice: 49899.5}

	err := NewCSV(path).Record(context.Background(), Failure(req, time.Unix(0, 0), errors.New("insufficient balance")))
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, StatusError, rows[1][4])
	assert.Equal(t, "49899.5", rows[1][7])
	assert.Equal(t, "insufficient balance", rows[1][10])
}

type memJournal struct {
	entries []Entry
	err     error
}

func (m *memJournal) Record(_ context.Context, e Entry) error {
	m.entries = append(m.entries, e)
	return m.err
}

func (m *memJournal) Close() error { return nil }

func TestMulti_WritesEverywhere(t *testing.T) {
	broken := &memJournal{err: errors.New("db down")}
	ok := &memJournal{}

	err := Multi{broken, ok}.Record(context.Background(), Entry{Symbol: "BTCUSDT"})

	assert.ErrorContains(t, err, "db down")
	assert.Len(t, ok.entries, 1)
	assert.Len(t, broken.entries, 1)
}
