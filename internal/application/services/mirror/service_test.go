package mirror

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/easayliu/mirror-status-bot/internal/application/services/status"
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/easayliu/mirror-status-bot/internal/infrastructure/aria2"
	apperrors "github.com/easayliu/mirror-status-bot/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDownloader struct {
	mu       sync.Mutex
	nextGID  int
	added    []map[string]interface{}
	statuses map[string]*aria2.StatusResult
	removed  []string
	resumed  []string
	addErr   error
	tellErr  map[string]error
}

func newFakeDownloader() *fakeDownloader {
	return &fakeDownloader{
		statuses: make(map[string]*aria2.StatusResult),
		tellErr:  make(map[string]error),
	}
}

func (f *fakeDownloader) AddURI(_ context.Context, _ string, options map[string]interface{}) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextGID++
	f.added = append(f.added, options)
	return fmt.Sprintf("%016d", f.nextGID), nil
}

func (f *fakeDownloader) TellStatus(_ context.Context, gid string) (*aria2.StatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.tellErr[gid]; err != nil {
		return nil, err
	}
	s, ok := f.statuses[gid]
	if !ok {
		return nil, &aria2.RPCError{Code: 1, Message: "GID " + gid + " is not found"}
	}
	return s, nil
}

func (f *fakeDownloader) Remove(_ context.Context, gid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, gid)
	return nil
}

func (f *fakeDownloader) Resume(_ context.Context, gid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumed = append(f.resumed, gid)
	return nil
}

func message(id int, userID int64) *entities.Message {
	return &entities.Message{
		ID:   id,
		Chat: &entities.Chat{ID: 42, Type: entities.ChatTypePrivate},
		From: &entities.User{ID: userID, FirstName: "Alice"},
	}
}

func newTestService(cfg Config) (*Service, *fakeDownloader, *status.Registry) {
	aria := newFakeDownloader()
	reg := status.NewRegistry()
	svc := NewService(cfg, aria, reg)
	svc.probeURL = func(context.Context, string) string { return "text/html" }
	return svc, aria, reg
}

func TestSubmit_Magnet(t *testing.T) {
	svc, aria, reg := newTestService(Config{DownloadDir: "/downloads"})

	res, err := svc.Submit(context.Background(), SubmitRequest{
		Link:    "magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056&dn=Ubuntu",
		Message: message(7, 1),
	})
	require.NoError(t, err)
	assert.True(t, res.Torrent)
	assert.Equal(t, "Ubuntu", res.Name)
	assert.Nil(t, res.Buttons)

	require.Len(t, aria.added, 1)
	assert.Equal(t, "/downloads/7", aria.added[0]["dir"])
	assert.Equal(t, "0", aria.added[0]["seed-time"])
	assert.NotContains(t, aria.added[0], "pause-metadata")

	task, ok := reg.FindByGid(res.GID)
	require.True(t, ok)
	assert.Equal(t, entities.StatusQueued, task.Status())
}

func TestSubmit_SelectTorrent(t *testing.T) {
	svc, aria, _ := newTestService(Config{DownloadDir: "/downloads", Seed: true, WebBaseURL: "https://bot.example.com"})

	res, err := svc.Submit(context.Background(), SubmitRequest{
		Link:    "https://example.com/files/debian.torrent",
		Message: message(8, 1),
		Select:  true,
	})
	require.NoError(t, err)
	assert.True(t, res.Torrent)
	require.NotNil(t, res.Buttons)
	assert.Equal(t, "true", aria.added[0]["pause-metadata"])
	assert.Equal(t, "true", aria.added[0]["pause"])
	assert.NotContains(t, aria.added[0], "seed-time")
}

func TestSubmit_ProbedTorrent(t *testing.T) {
	svc, _, _ := newTestService(Config{})
	svc.probeURL = func(context.Context, string) string { return "application/x-bittorrent; charset=binary" }

	res, err := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/dl?id=1", Message: message(9, 1)})
	require.NoError(t, err)
	assert.True(t, res.Torrent)
}

func TestSubmit_Rejections(t *testing.T) {
	svc, aria, _ := newTestService(Config{})

	_, err := svc.Submit(context.Background(), SubmitRequest{Link: "hello", Message: message(1, 1)})
	assert.Equal(t, apperrors.ErrorCodeInvalidRequest, apperrors.CodeOf(err))

	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://mega.nz/file/abc", Message: message(1, 1)})
	assert.Equal(t, apperrors.ErrorCodeUnsupportedLink, apperrors.CodeOf(err))

	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://drive.google.com/file/d/abc", Message: message(1, 1)})
	assert.Equal(t, apperrors.ErrorCodeUnsupportedLink, apperrors.CodeOf(err))

	assert.Empty(t, aria.added)

	aria.addErr = errors.New("connection refused")
	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 1)})
	assert.Equal(t, apperrors.ErrorCodeServiceUnavailable, apperrors.CodeOf(err))

	aria.addErr = &aria2.RPCError{Code: 1, Message: "bad uri"}
	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 1)})
	assert.Equal(t, apperrors.ErrorCodeInvalidRequest, apperrors.CodeOf(err))
}

func TestSubmit_UserTaskLimit(t *testing.T) {
	svc, _, reg := newTestService(Config{UserTaskLimit: 1})

	_, err := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 5)})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/b.iso", Message: message(2, 5)})
	assert.Equal(t, apperrors.ErrorCodeTaskLimit, apperrors.CodeOf(err))

	// 其他用户和管理员不受影响
	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/b.iso", Message: message(3, 6)})
	assert.NoError(t, err)
	_, err = svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/c.iso", Message: message(4, 5), IsAdmin: true})
	assert.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
}

func TestCancel(t *testing.T) {
	svc, aria, reg := newTestService(Config{})
	res, err := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 5)})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), "missing", 5, false)
	assert.Equal(t, apperrors.ErrorCodeNotFound, apperrors.CodeOf(err))

	_, err = svc.Cancel(context.Background(), res.GID, 6, false)
	assert.Equal(t, apperrors.ErrorCodeForbidden, apperrors.CodeOf(err))

	task, err := svc.Cancel(context.Background(), res.GID, 5, false)
	require.NoError(t, err)
	assert.Equal(t, res.GID, task.GID())
	assert.Equal(t, []string{res.GID}, aria.removed)
	assert.Equal(t, 0, reg.Len())
}

func TestCancel_Admin(t *testing.T) {
	svc, _, reg := newTestService(Config{})
	res, err := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 5)})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), res.GID, 99, true)
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestConfirmSelection(t *testing.T) {
	svc, aria, _ := newTestService(Config{})
	res, err := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.torrent", Message: message(1, 5), Select: true})
	require.NoError(t, err)

	assert.Equal(t, apperrors.ErrorCodeForbidden, apperrors.CodeOf(svc.ConfirmSelection(context.Background(), res.GID, 6, false)))
	require.NoError(t, svc.ConfirmSelection(context.Background(), res.GID, 5, false))
	assert.Equal(t, []string{res.GID}, aria.resumed)
}

func TestRefresh(t *testing.T) {
	svc, aria, reg := newTestService(Config{})
	ctx := context.Background()

	active, _ := svc.Submit(ctx, SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 5)})
	done, _ := svc.Submit(ctx, SubmitRequest{Link: "https://example.com/b.iso", Message: message(2, 5)})
	meta, _ := svc.Submit(ctx, SubmitRequest{Link: "magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056", Message: message(3, 5)})
	gone, _ := svc.Submit(ctx, SubmitRequest{Link: "https://example.com/c.iso", Message: message(4, 5)})

	aria.statuses[active.GID] = &aria2.StatusResult{GID: active.GID, Status: aria2.StatusActive, TotalLength: "100", CompletedLength: "50", DownloadSpeed: "10"}
	aria.statuses[done.GID] = &aria2.StatusResult{GID: done.GID, Status: aria2.StatusComplete}
	aria.statuses[meta.GID] = &aria2.StatusResult{GID: meta.GID, Status: aria2.StatusComplete, FollowedBy: []string{"next-gid"}}
	_ = gone

	require.NoError(t, svc.Refresh(ctx))
	assert.Equal(t, 2, reg.Len())

	task, ok := reg.FindByGid(active.GID)
	require.True(t, ok)
	assert.Equal(t, entities.StatusDownloading, task.Status())
	assert.Equal(t, "50%", task.Progress())

	_, ok = reg.FindByGid("next-gid")
	assert.True(t, ok)
}

func TestRefresh_TransportErrors(t *testing.T) {
	svc, aria, reg := newTestService(Config{})
	res, _ := svc.Submit(context.Background(), SubmitRequest{Link: "https://example.com/a.iso", Message: message(1, 5)})
	aria.tellErr[res.GID] = errors.New("connection refused")

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), res.GID)
	assert.Equal(t, 1, reg.Len())
}

func TestConfirmSelection_AfterMetadataFollow(t *testing.T) {
	svc, aria, reg := newTestService(Config{WebBaseURL: "https://bot.example.com"})
	ctx := context.Background()

	res, err := svc.Submit(ctx, SubmitRequest{
		Link:    "magnet:?xt=urn:btih:c9e15763f722f23e98a29decdfae341b98d53056",
		Message: message(1, 5),
		Select:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Buttons)

	aria.statuses[res.GID] = &aria2.StatusResult{GID: res.GID, Status: aria2.StatusComplete, FollowedBy: []string{"aaaabbbbccccdddd"}}
	require.NoError(t, svc.Refresh(ctx))
	_, ok := reg.FindByGid("aaaabbbbccccdddd")
	require.True(t, ok)

	assert.Equal(t, apperrors.ErrorCodeForbidden, apperrors.CodeOf(svc.ConfirmSelection(ctx, res.GID, 6, false)))
	require.NoError(t, svc.ConfirmSelection(ctx, res.GID, 5, false))
	assert.Equal(t, []string{"aaaabbbbccccdddd"}, aria.resumed)

	task, err := svc.Cancel(ctx, res.GID, 5, false)
	require.NoError(t, err)
	assert.Equal(t, "aaaabbbbccccdddd", task.GID())
	assert.Equal(t, 0, reg.Len())
}

func TestSubmit_SameMessageIDInDifferentChats(t *testing.T) {
	svc, _, reg := newTestService(Config{})
	ctx := context.Background()

	private := message(7, 1)
	group := message(7, 2)
	group.Chat = &entities.Chat{ID: -100999, Type: entities.ChatTypeSupergroup}

	first, err := svc.Submit(ctx, SubmitRequest{Link: "https://example.com/a.iso", Message: private})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitRequest{Link: "https://example.com/b.iso", Message: group})
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	_, ok := reg.FindByGid(first.GID)
	assert.True(t, ok)
	_, ok = reg.FindByGid(second.GID)
	assert.True(t, ok)
}
