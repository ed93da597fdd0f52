package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdout_WritesLines(t *testing.T) {
	var buf bytes.Buffer
	n := NewWriter(&buf)

	n.Send("placed")
	n.Sendf("kept order %d", 7)

	assert.Equal(t, "placed\nkept order 7\n", buf.String())
}

func TestTelegramConfig_Enabled(t *testing.T) {
	assert.False(t, TelegramConfig{}.Enabled())
	assert.False(t, TelegramConfig{Token: "t"}.Enabled())
	assert.True(t, TelegramConfig{Token: "t", ChatID: 1}.Enabled())
}

func TestTelegram_NilIsSilent(t *testing.T) {
	var tg *Telegram
	assert.NotPanics(t, func() {
		tg.Send("x")
		tg.Stop()
	})
}
