package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusControls_Single(t *testing.T) {
	markup := StatusControls(Page{Number: 1, Total: 1, Limit: 10, TaskCount: 3}, ThemeEmoji, "")
	require.Len(t, markup.InlineKeyboard, 1)

	row := markup.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "Refresh", row[0].Text)
	assert.Equal(t, CallbackRefresh, *row[0].CallbackData)
	assert.Equal(t, "Statistics", row[1].Text)
	assert.Equal(t, DefaultStatsCallback, *row[1].CallbackData)
	assert.Equal(t, "Close", row[2].Text)
	assert.Equal(t, CallbackClose, *row[2].CallbackData)
}

func TestStatusControls_Paginated(t *testing.T) {
	markup := StatusControls(Page{Number: 2, Total: 3, Limit: 10, TaskCount: 25}, ThemeEmoji, "status stats")
	require.Len(t, markup.InlineKeyboard, 2)

	nav := markup.InlineKeyboard[0]
	require.Len(t, nav, 3)
	assert.Equal(t, "⏪Previous", nav[0].Text)
	assert.Equal(t, CallbackPrev, *nav[0].CallbackData)
	assert.Equal(t, "2/3", nav[1].Text)
	assert.Equal(t, CallbackPage, *nav[1].CallbackData)
	assert.Equal(t, "Next⏩", nav[2].Text)
	assert.Equal(t, CallbackNext, *nav[2].CallbackData)

	assert.Equal(t, "status stats", *markup.InlineKeyboard[1][1].CallbackData)
}

func TestStatusControls_PlainTheme(t *testing.T) {
	markup := StatusControls(Page{Number: 1, Total: 2, Limit: 1, TaskCount: 2}, ThemePlain, "")
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "Previous", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "Next", markup.InlineKeyboard[0][2].Text)
}

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemePlain, ParseTheme(" Plain "))
	assert.Equal(t, ThemeEmoji, ParseTheme("emoji"))
	assert.Equal(t, ThemeEmoji, ParseTheme(""))
	assert.Equal(t, "plain", ThemePlain.String())
	assert.Equal(t, "custom", ThemeEmoji.StatusName("custom"))
}
