package status

import (
	"github.com/easayliu/mirror-status-bot/internal/domain/entities"
)

// 翻页动作, 对应回调数据的第二段
const (
	ActionNext    = "nex"
	ActionPrev    = "pre"
	ActionRefresh = "refresh"
)

// Page 一次渲染看到的分页状态
type Page struct {
	Offset    int `json:"offset"`
	Number    int `json:"number"`
	Total     int `json:"total"`
	Limit     int `json:"limit"` // 0 表示不分页
	TaskCount int `json:"task_count"`
}

// Paginated 任务数超过一页
func (p Page) Paginated() bool {
	return p.Limit > 0 && p.TaskCount > p.Limit
}

// Window 取当前页的任务
func (p Page) Window(tasks []entities.Task) []entities.Task {
	start := min(max(p.Offset, 0), len(tasks))
	end := len(tasks)
	if p.Limit > 0 {
		end = min(start+p.Limit, end)
	}
	return tasks[start:end]
}

// Pager 状态面板的分页器
// 分页状态是全局的, 不区分请求者, 并发翻页以最后一次为准
// 与 Registry 共用一把锁
type Pager struct {
	reg    *Registry
	limit  int
	offset int
	page   int
	pages  int
}

// NewPager 创建分页器, limit<=0 表示不分页
func NewPager(reg *Registry, limit int) *Pager {
	if limit < 0 {
		limit = 0
	}
	return &Pager{
		reg:   reg,
		limit: limit,
		page:  1,
		pages: 1,
	}
}

// View 在一次加锁内复制任务表并重新计算分页
func (p *Pager) View() ([]entities.Task, Page) {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()

	tasks := p.reg.snapshotLocked()
	page := p.recomputeLocked(len(tasks))
	// 一次删掉多页任务时逐页回退, 直到当前页有任务
	for len(tasks) > 0 && page.Offset >= len(tasks) && p.page > p.pages {
		page = p.recomputeLocked(len(tasks))
	}
	return tasks, page
}

// Recompute 按当前任务数重新计算分页
func (p *Pager) Recompute() Page {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	return p.recomputeLocked(len(p.reg.keys))
}

func (p *Pager) recomputeLocked(taskCount int) Page {
	if p.limit > 0 {
		p.pages = (taskCount + p.limit - 1) / p.limit
		// 其他地方删掉任务后页码可能越界, 每次渲染回退一页
		if p.page > p.pages && p.pages != 0 {
			p.offset -= p.limit
			p.page--
		}
	} else {
		p.pages = 1
	}
	return p.pageLocked(taskCount)
}

func (p *Pager) pageLocked(taskCount int) Page {
	return Page{
		Offset:    p.offset,
		Number:    p.page,
		Total:     p.pages,
		Limit:     p.limit,
		TaskCount: taskCount,
	}
}

// Turn 处理翻页回调, data 形如 ["status", "nex"]
// 失败只返回false, 不影响下一次渲染
func (p *Pager) Turn(data []string) bool {
	if len(data) < 2 {
		return false
	}

	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()

	switch data[1] {
	case ActionNext:
		if p.limit <= 0 || p.pages == 0 {
			return false
		}
		if p.page == p.pages {
			p.offset = 0
			p.page = 1
		} else {
			p.offset += p.limit
			p.page++
		}
	case ActionPrev:
		if p.limit <= 0 || p.pages == 0 {
			return false
		}
		if p.page == 1 {
			p.offset = p.limit * (p.pages - 1)
			p.page = p.pages
		} else {
			p.offset -= p.limit
			p.page--
		}
	}
	return true
}

// Current 当前分页状态, 不重新计算
func (p *Pager) Current() Page {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	return p.pageLocked(len(p.reg.keys))
}
