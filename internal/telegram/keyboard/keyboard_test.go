package keyboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-WhoAm-I/AI-Project-Architect/internal/entity"
)

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback(EncodeCallback(ActionDownload, "prd-pdf"))
	require.NoError(t, err)
	assert.Equal(t, &CallbackData{Action: ActionDownload, Value: "prd-pdf"}, cb)

	cb, err = ParseCallback("new:")
	require.NoError(t, err)
	assert.Equal(t, ActionNew, cb.Action)
	assert.Empty(t, cb.Value)

	_, err = ParseCallback("garbage")
	assert.Error(t, err)
	_, err = ParseCallback(":x")
	assert.Error(t, err)
}

func TestHistoryKeyboard_Capped(t *testing.T) {
	items := make([]entity.ProjectHistoryItem, 0, 15)
	for i := range 15 {
		items = append(items, entity.ProjectHistoryItem{ID: fmt.Sprintf("p%d", i), Title: fmt.Sprintf("Project %d", i)})
	}

	kb := NewBuilder().HistoryKeyboard(items)
	require.Len(t, kb.InlineKeyboard, maxHistoryButtons+1)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "load:p0", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "new:", *kb.InlineKeyboard[maxHistoryButtons][0].CallbackData)
}

func TestDownloadKeyboard_UsesValidFormats(t *testing.T) {
	kb := NewBuilder().DownloadKeyboard()
	count := 0
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			cb, err := ParseCallback(*btn.CallbackData)
			require.NoError(t, err)
			assert.True(t, entity.ExportFormat(cb.Value).IsValid(), cb.Value)
			count++
		}
	}
	assert.Equal(t, 5, count)
}
