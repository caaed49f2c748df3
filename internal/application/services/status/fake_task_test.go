package status

import (
	"fmt"
	"time"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
)

type fakeTask struct {
	gid       string
	name      string
	status    entities.Status
	size      int64
	processed int64
	speed     string
	msg       *entities.Message
}

func (f *fakeTask) GID() string { return f.gid }
func (f *fakeTask) Name() string { return f.name }
func (f *fakeTask) Status() entities.Status { return f.status }
func (f *fakeTask) Size() int64 { return f.size }
func (f *fakeTask) ProcessedBytes() int64 { return f.processed }
func (f *fakeTask) Speed() string { return f.speed }
func (f *fakeTask) Progress() string { return "50.0%" }
func (f *fakeTask) ETA() string { return "1m5s" }
func (f *fakeTask) Engine() string { return entities.EngineAria2 }
func (f *fakeTask) Message() *entities.Message { return f.msg }

type peerTask struct {
	*fakeTask
	seeders, leechers int
	ok                bool
}

func (p *peerTask) Peers() (int, int, bool) { return p.seeders, p.leechers, p.ok }

type seedTask struct {
	*fakeTask
	uploadSpeed string
	uploaded    int64
	ratio       string
	seedTime    time.Duration
}

func (s *seedTask) UploadSpeed() string { return s.uploadSpeed }
func (s *seedTask) UploadedBytes() int64 { return s.uploaded }
func (s *seedTask) Ratio() string { return s.ratio }
func (s *seedTask) SeedingTime() time.Duration { return s.seedTime }

func newTask(gid string, status entities.Status) *fakeTask {
	return &fakeTask{
		gid:       gid,
		name:      "file-" + gid,
		status:    status,
		size:      1024,
		processed: 512,
		speed:     "0B/s",
	}
}

func fillRegistry(reg *Registry, n int) {
	for i := 0; i < n; i++ {
		gid := fmt.Sprintf("gid%02d", i)
		reg.Add(gid, newTask(gid, entities.StatusDownloading))
	}
}

func userMessage(userID int64, chatType string) *entities.Message {
	return &entities.Message{
		ID:   77,
		Link: "https://t.me/c/1/77",
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Chat: &entities.Chat{ID: -1001234567890, Type: chatType},
		From: &entities.User{ID: userID, FirstName: "Alice"},
	}
}
