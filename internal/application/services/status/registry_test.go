package status

import (
	"sync"
	"testing"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Add("a", newTask("g1", entities.StatusDownloading))
	reg.Add("b", newTask("g2", entities.StatusUploading))
	reg.Add("a", newTask("g3", entities.StatusSeeding))

	tasks := reg.Snapshot()
	require.Len(t, tasks, 2)
	assert.Equal(t, "g3", tasks[0].GID(), "替换时保留原位置")
	assert.Equal(t, "g2", tasks[1].GID())
}

func TestRegistry_Remove(t *testing.T) {
	reg := NewRegistry()
	fillRegistry(reg, 3)

	assert.True(t, reg.Remove("gid01"))
	assert.False(t, reg.Remove("gid01"))
	assert.Equal(t, 2, reg.Len())

	task, ok := reg.RemoveByGid("gid02")
	require.True(t, ok)
	assert.Equal(t, "gid02", task.GID())

	_, ok = reg.RemoveByGid("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_FindByGid(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.FindByGid("gid00")
	assert.False(t, ok)

	fillRegistry(reg, 5)
	task, ok := reg.FindByGid("gid03")
	require.True(t, ok)
	assert.Equal(t, "file-gid03", task.Name())
}

func TestRegistry_FindByStatus(t *testing.T) {
	reg := NewRegistry()
	_, ok := reg.FindByStatus(StatusAll)
	assert.False(t, ok, "空表返回不存在")

	reg.Add("1", newTask("d1", entities.StatusDownloading))
	reg.Add("2", newTask("s1", entities.StatusSeeding))
	reg.Add("3", newTask("s2", entities.StatusSeeding))

	task, ok := reg.FindByStatus(entities.StatusSeeding)
	require.True(t, ok)
	assert.Equal(t, "s1", task.GID(), "只返回第一个匹配")

	task, ok = reg.FindByStatus(StatusAll)
	require.True(t, ok)
	assert.Equal(t, "d1", task.GID())

	_, ok = reg.FindByStatus(entities.StatusPaused)
	assert.False(t, ok)
}

func TestRegistry_CountByOwner(t *testing.T) {
	reg := NewRegistry()

	mine := newTask("a", entities.StatusDownloading)
	mine.msg = userMessage(42, entities.ChatTypePrivate)
	alsoMine := newTask("b", entities.StatusUploading)
	alsoMine.msg = userMessage(42, entities.ChatTypeSupergroup)
	other := newTask("c", entities.StatusDownloading)
	other.msg = userMessage(7, entities.ChatTypePrivate)
	anonymous := newTask("d", entities.StatusDownloading)

	reg.Add("a", mine)
	reg.Add("b", alsoMine)
	reg.Add("c", other)
	reg.Add("d", anonymous)

	assert.Equal(t, 2, reg.CountByOwner(42))
	assert.Equal(t, 1, reg.CountByOwner(7))
	assert.Equal(t, 0, reg.CountByOwner(99))
}

func TestRegistry_CountByStatus(t *testing.T) {
	reg := NewRegistry()
	reg.Add("1", newTask("1", entities.StatusDownloading))
	reg.Add("2", newTask("2", entities.StatusDownloading))
	reg.Add("3", newTask("3", entities.StatusSplitting))

	counts := reg.CountByStatus()
	assert.Equal(t, 2, counts[entities.StatusDownloading])
	assert.Equal(t, 1, counts[entities.StatusSplitting])
	assert.Zero(t, counts[entities.StatusSeeding])
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	pager := NewPager(reg, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := string(rune('a'+i)) + string(rune('a'+j%26))
				reg.Add(key, newTask(key, entities.StatusDownloading))
				reg.FindByGid(key)
				pager.View()
				pager.Turn([]string{CallbackPrefix, ActionNext})
				reg.Remove(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, reg.Len())
}
