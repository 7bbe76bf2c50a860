package planner

import "uni-guide/backend/internal/model"

// History 档案快照的有界环形缓冲，写满后覆盖最旧的快照
type History struct {
	buf   []*model.UserProfile
	start int
	size  int
}

// NewHistory 创建容量为 capacity 的撤销历史（capacity < 1 时按 1 处理）
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]*model.UserProfile, capacity)}
}

// Push 记录一次变更前的档案；nil 档案同样记录，撤销后回到无档案状态
func (h *History) Push(p *model.UserProfile) {
	idx := (h.start + h.size) % len(h.buf)
	h.buf[idx] = p.Clone()
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.buf)
}

// Pop 取出最近一次快照
func (h *History) Pop() (*model.UserProfile, bool) {
	if h.size == 0 {
		return nil, false
	}
	idx := (h.start + h.size - 1) % len(h.buf)
	p := h.buf[idx]
	h.buf[idx] = nil
	h.size--
	return p, true
}

// Len 当前快照数
func (h *History) Len() int { return h.size }

// Cap 容量
func (h *History) Cap() int { return len(h.buf) }

// Clear 清空历史
func (h *History) Clear() {
	for i := range h.buf {
		h.buf[i] = nil
	}
	h.start, h.size = 0, 0
}
