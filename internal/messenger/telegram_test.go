package messenger

import (
	"math"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/tracker-agent/internal/menu"
)

func TestKeyboard(t *testing.T) {
	kb := keyboard(menu.QualityPicker())

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[2], 1)

	first := kb.InlineKeyboard[0][0]
	assert.Equal(t, "Very Bad", first.Text)
	require.NotNil(t, first.CallbackData)
	assert.Equal(t, "quality:very_bad", *first.CallbackData)

	cancel := kb.InlineKeyboard[3][0]
	assert.Equal(t, menu.CancelLabel, cancel.Text)
	assert.Equal(t, "cancel", *cancel.CallbackData)
}

func TestKeyboardPayloadsFitCallbackLimit(t *testing.T) {
	long := make([]string, menu.MaxRecentDisciplines)
	for i := range long {
		long[i] = "A discipline name far longer than sixty four bytes of callback data"
	}
	grid := menu.DisciplinePicker(long).Scoped(math.MaxUint64)
	grid = append(grid, menu.DatePicker(time.Now()).Scoped(math.MaxUint64)...)
	for _, row := range keyboard(grid).InlineKeyboard {
		for _, b := range row {
			assert.LessOrEqual(t, len(*b.CallbackData), 64)
		}
	}
}

func TestFromUser(t *testing.T) {
	u := fromUser(&tgbotapi.User{ID: 1234567890123, FirstName: "Ana"})
	assert.Equal(t, "1234567890123", u.ID)
	assert.Equal(t, "Ana", u.Name)
}
