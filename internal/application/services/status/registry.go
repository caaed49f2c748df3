package status

import (
	"sync"

	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
)

// StatusAll 匹配任意状态
const StatusAll entities.Status = "all"

// Registry 进程内共享的任务表
// 所有读写都经过同一把锁, 遍历前先在锁内复制一份快照
type Registry struct {
	mu    sync.Mutex
	keys  []string
	tasks map[string]entities.Task
}

// NewRegistry 创建任务表
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]entities.Task),
	}
}

// Add 以key登记任务, key已存在时替换任务但保留原有顺序
func (r *Registry) Add(key string, task entities.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.tasks[key] = task
}

// Remove 移除任务
func (r *Registry) Remove(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[key]; !ok {
		return false
	}
	delete(r.tasks, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// RemoveByGid 按gid移除任务
func (r *Registry) RemoveByGid(gid string) (entities.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, k := range r.keys {
		if task := r.tasks[k]; task.GID() == gid {
			delete(r.tasks, k)
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			return task, true
		}
	}
	return nil, false
}

// Len 任务数
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// Snapshot 按登记顺序返回任务副本
func (r *Registry) Snapshot() []entities.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []entities.Task {
	tasks := make([]entities.Task, 0, len(r.keys))
	for _, k := range r.keys {
		tasks = append(tasks, r.tasks[k])
	}
	return tasks
}

// FindByGid 按gid查找
func (r *Registry) FindByGid(gid string) (entities.Task, bool) {
	for _, task := range r.Snapshot() {
		if task.GID() == gid {
			return task, true
		}
	}
	return nil, false
}

// FindByStatus 返回第一个状态匹配的任务, StatusAll 返回第一个任务
// 只返回单个结果, 调用方依赖这一点
func (r *Registry) FindByStatus(status entities.Status) (entities.Task, bool) {
	for _, task := range r.Snapshot() {
		if status == StatusAll || task.Status() == status {
			return task, true
		}
	}
	return nil, false
}

// CountByOwner 统计某用户提交的任务数
func (r *Registry) CountByOwner(userID int64) int {
	count := 0
	for _, task := range r.Snapshot() {
		if id, ok := task.Message().SenderID(); ok && id == userID {
			count++
		}
	}
	return count
}

// CountByStatus 按状态计数
func (r *Registry) CountByStatus() map[entities.Status]int {
	counts := make(map[entities.Status]int)
	for _, task := range r.Snapshot() {
		counts[task.Status()]++
	}
	return counts
}
