package app

const (
	// LogCapacity is the number of entries kept before the oldest is evicted.
	LogCapacity = 256
	// DefaultViewport is used until the renderer reports the real log height.
	DefaultViewport = 10
)

// LogRing is a bounded FIFO of log lines with a scroll cursor. It is not
// safe for concurrent use; State guards it.
type LogRing struct {
	entries    []string
	capacity   int
	offset     int
	autoScroll bool
	viewport   int
}

func NewLogRing(capacity, viewport int) *LogRing {
	if capacity <= 0 {
		capacity = LogCapacity
	}
	if viewport < 0 {
		viewport = 0
	}
	return &LogRing{
		entries:    make([]string, 0, capacity),
		capacity:   capacity,
		autoScroll: true,
		viewport:   viewport,
	}
}

// Append adds entry, evicting the oldest one when full. With auto-scroll on
// the cursor follows the tail.
func (r *LogRing) Append(entry string) {
	if len(r.entries) == r.capacity {
		copy(r.entries, r.entries[1:])
		r.entries = r.entries[:len(r.entries)-1]
	}
	r.entries = append(r.entries, entry)

	if r.autoScroll {
		r.offset = r.MaxOffset()
	}
	r.clamp()
}

func (r *LogRing) Len() int { return len(r.entries) }
func (r *LogRing) Offset() int { return r.offset }
func (r *LogRing) AutoScroll() bool { return r.autoScroll }
func (r *LogRing) Viewport() int { return r.viewport }

func (r *LogRing) MaxOffset() int {
	return max(0, len(r.entries)-r.viewport)
}

// all returns a copy of every retained entry, oldest first.
func (r *LogRing) all() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *LogRing) Visible() []string {
	start := r.offset
	end := min(len(r.entries), start+r.viewport)
	if start >= end {
		return []string{}
	}
	out := make([]string, end-start)
	copy(out, r.entries[start:end])
	return out
}

// SetViewport records the visible height and re-clamps. Calling it twice
// with the same height changes nothing.
func (r *LogRing) SetViewport(height int) {
	if height < 0 {
		height = 0
	}
	r.viewport = height
	if r.autoScroll {
		r.offset = r.MaxOffset()
	}
	r.clamp()
}

func (r *LogRing) ScrollUp() {
	if r.offset > 0 {
		r.offset--
	}
	r.autoScroll = false
	r.clamp()
}

func (r *LogRing) ScrollDown() {
	limit := r.MaxOffset()
	r.offset++
	if r.offset >= limit {
		r.offset = limit
		r.autoScroll = true
	} else {
		r.autoScroll = false
	}
	r.clamp()
}

func (r *LogRing) Top() {
	r.offset = 0
	r.autoScroll = false
	r.clamp()
}

func (r *LogRing) Bottom() {
	r.offset = r.MaxOffset()
	r.autoScroll = true
	r.clamp()
}

func (r *LogRing) clamp() {
	r.offset = clamp(r.offset, 0, r.MaxOffset())
}

func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
