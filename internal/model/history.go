package model

const defaultHistoryCap = 20

// PassHistory is a fixed-size ring buffer of PassReports.
// When the buffer is full, new pushes overwrite the oldest entry.
type PassHistory struct {
	buf  []PassReport
	head int // index of the next write position
	size int // number of valid entries
}

// NewPassHistory creates a PassHistory with the given capacity.
// If capacity <= 0, the defaultHistoryCap (20) is used.
func NewPassHistory(capacity int) *PassHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &PassHistory{
		buf: make([]PassReport, capacity),
	}
}

// Push appends a report to the history, overwriting the oldest if full.
func (h *PassHistory) Push(r PassReport) {
	h.buf[h.head] = r
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries in the history.
func (h *PassHistory) Len() int {
	return h.size
}

// Clear resets the history to empty.
func (h *PassHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Reports returns the stored reports in chronological order (oldest first).
func (h *PassHistory) Reports() []PassReport {
	out := make([]PassReport, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// TotalMigrated sums Migrated over the stored reports.
func (h *PassHistory) TotalMigrated() int {
	n := 0
	for _, r := range h.Reports() {
		n += r.Migrated
	}
	return n
}
