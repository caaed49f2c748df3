package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/ratelimit"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edit struct {
	chatID    int64
	messageID int
	text      string
}

type fakeEditor struct {
	mu      sync.Mutex
	edits   []edit
	deletes []edit
	editErr error
}

func (f *fakeEditor) EditMessage(_ context.Context, chatID int64, messageID int, text string, _ *tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, edit{chatID, messageID, text})
	return nil
}

func (f *fakeEditor) DeleteMessage(_ context.Context, chatID int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, edit{chatID: chatID, messageID: messageID})
	return nil
}

func (f *fakeEditor) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits), len(f.deletes)
}

type countingRefresher struct {
	calls int
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls++
	return c.err
}

func TestUpdater_TickEditsChangedMessages(t *testing.T) {
	reg := NewRegistry()
	reg.Add("1", newTask("g1", entities.StatusDownloading))
	editor := &fakeEditor{}
	u := NewUpdater(newTestRenderer(reg, 10, ThemeEmoji, defaultProbe()), editor, nil, time.Second)

	_, replaced := u.Track(100, 1, "")
	assert.False(t, replaced)
	u.Track(200, 2, "")

	u.Tick(context.Background())
	edits, _ := editor.counts()
	assert.Equal(t, 2, edits)

	u.Tick(context.Background())
	edits, _ = editor.counts()
	assert.Equal(t, 2, edits, "内容没变时不重复编辑")

	reg.Add("2", newTask("g2", entities.StatusDownloading))
	u.Tick(context.Background())
	edits, _ = editor.counts()
	assert.Equal(t, 4, edits)
}

func TestUpdater_TickDeletesWhenEmpty(t *testing.T) {
	editor := &fakeEditor{}
	u := NewUpdater(newTestRenderer(NewRegistry(), 10, ThemeEmoji, defaultProbe()), editor, nil, time.Second)
	u.Track(100, 1, "old")
	u.Track(200, 2, "old")

	u.Tick(context.Background())

	edits, deletes := editor.counts()
	assert.Zero(t, edits)
	assert.Equal(t, 2, deletes)
	assert.Zero(t, u.Tracked())
}

func TestUpdater_TickKeepsMessageAfterPageDrift(t *testing.T) {
	reg := NewRegistry()
	fillRegistry(reg, 25)
	editor := &fakeEditor{}
	r := newTestRenderer(reg, 10, ThemeEmoji, defaultProbe())
	u := NewUpdater(r, editor, nil, time.Second)
	u.Track(100, 1, "")

	u.Tick(context.Background())
	r.pager.Turn([]string{CallbackPrefix, ActionPrev})
	for i := 10; i < 25; i++ {
		reg.Remove(taskKey(i))
	}
	u.Tick(context.Background())

	edits, deletes := editor.counts()
	assert.Equal(t, 2, edits)
	assert.Zero(t, deletes)
	assert.Equal(t, 1, u.Tracked())
}

func TestUpdater_TrackReplaces(t *testing.T) {
	u := NewUpdater(newTestRenderer(NewRegistry(), 10, ThemeEmoji, nil), &fakeEditor{}, nil, time.Second)

	u.Track(100, 1, "")
	old, replaced := u.Track(100, 5, "")
	assert.True(t, replaced)
	assert.Equal(t, 1, old)

	id, ok := u.Untrack(100)
	assert.True(t, ok)
	assert.Equal(t, 5, id)

	_, ok = u.Untrack(100)
	assert.False(t, ok)
}

func TestUpdater_RefresherAndEditErrors(t *testing.T) {
	reg := NewRegistry()
	reg.Add("1", newTask("g1", entities.StatusDownloading))
	editor := &fakeEditor{editErr: errors.New("message to edit not found")}
	u := NewUpdater(newTestRenderer(reg, 10, ThemeEmoji, defaultProbe()), editor, nil, time.Second)
	refresher := &countingRefresher{err: errors.New("aria2 offline")}
	u.SetRefresher(refresher)
	u.Track(100, 1, "")

	u.Tick(context.Background())
	assert.Equal(t, 1, refresher.calls)

	editor.mu.Lock()
	editor.editErr = nil
	editor.mu.Unlock()

	u.Tick(context.Background())
	edits, _ := editor.counts()
	assert.Equal(t, 1, edits, "上次失败的消息下一轮重试")
}

func TestUpdater_RateLimited(t *testing.T) {
	reg := NewRegistry()
	reg.Add("1", newTask("g1", entities.StatusDownloading))
	editor := &fakeEditor{}
	limiter := ratelimit.NewRateLimiter(0, time.Hour)
	u := NewUpdater(newTestRenderer(reg, 10, ThemeEmoji, defaultProbe()), editor, limiter, time.Second)
	u.Track(100, 1, "")

	u.Tick(context.Background())
	reg.Add("2", newTask("g2", entities.StatusDownloading))
	u.Tick(context.Background())

	edits, _ := editor.counts()
	assert.Equal(t, 1, edits)
}

func TestUpdater_StartStop(t *testing.T) {
	u := NewUpdater(newTestRenderer(NewRegistry(), 10, ThemeEmoji, nil), &fakeEditor{}, nil, time.Second)

	require.NoError(t, u.Start())
	assert.Error(t, u.Start())
	u.Stop()
	u.Stop()
}
