package status

import (
	"testing"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func TestAggregateThroughput(t *testing.T) {
	d1 := newTask("d1", entities.StatusDownloading)
	d1.speed = "500KB/s"
	d2 := newTask("d2", entities.StatusDownloading)
	d2.speed = "1MB/s"
	up := newTask("u1", entities.StatusUploading)
	up.speed = "2MB/s"
	seed := &seedTask{fakeTask: newTask("s1", entities.StatusSeeding), uploadSpeed: "100KB/s"}
	seed.speed = "9MB/s"
	paused := newTask("p1", entities.StatusPaused)
	paused.speed = "7MB/s"
	unknown := newTask("d3", entities.StatusDownloading)
	unknown.speed = "12B/s"

	got := AggregateThroughput([]entities.Task{d1, d2, up, seed, paused, unknown})

	assert.Equal(t, float64(500*1024+1*1048576), got.Download)
	assert.Equal(t, float64(2*1048576+100*1024), got.Upload, "做种取上传速度字段")
}

func TestAggregateThroughput_Empty(t *testing.T) {
	assert.Equal(t, Throughput{}, AggregateThroughput(nil))
}
