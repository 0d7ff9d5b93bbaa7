package analytics

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Key is the structural key of a snapshot: equal inputs give equal keys
// regardless of slice identity.
func Key(s Snapshot) uint64 {
	d := xxhash.New()
	var buf [8]byte
	putInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		_, _ = d.Write(buf[:])
	}
	putString := func(v string) {
		putInt(len(v))
		_, _ = d.WriteString(v)
	}

	putInt(s.Period.Year)
	putInt(int(s.Period.Month))
	putInt(s.CurrentDay)
	putInt(s.TotalXP)

	putInt(len(s.Habits))
	for _, h := range s.Habits {
		putString(h.ID)
		putString(h.Name)
		putInt(h.Goal)
		putInt(len(h.CompletedDays))
		for _, day := range h.CompletedDays {
			putInt(day)
		}
	}
	putInt(len(s.WeeklyHabits))
	for _, w := range s.WeeklyHabits {
		putString(w.ID)
		putString(w.Name)
		putInt(w.Goal)
		putInt(len(w.CompletedWeeks))
		for _, week := range w.CompletedWeeks {
			putInt(week)
		}
	}
	return d.Sum64()
}

type memoEntry struct {
	key       uint64
	dashboard Dashboard
}

// Memo keeps the last computed dashboard per owner and recomputes only when
// the structural key changes.
type Memo struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]memoEntry
}

// NewMemo creates a memo holding at most capacity owners.
func NewMemo(capacity int) *Memo {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Memo{capacity: capacity, entries: make(map[string]memoEntry)}
}

// Compute returns the dashboard for s and whether it came from the memo.
func (m *Memo) Compute(owner string, s Snapshot) (Dashboard, bool) {
	key := Key(s)

	m.mu.Lock()
	if e, ok := m.entries[owner]; ok && e.key == key {
		m.mu.Unlock()
		return e.dashboard, true
	}
	m.mu.Unlock()

	d := Compute(s)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[owner]; !ok && len(m.entries) >= m.capacity {
		for evict := range m.entries {
			delete(m.entries, evict)
			break
		}
	}
	m.entries[owner] = memoEntry{key: key, dashboard: d}
	return d, false
}

// Forget drops the owner's entry.
func (m *Memo) Forget(owner string) {
	m.mu.Lock()
	delete(m.entries, owner)
	m.mu.Unlock()
}

// Len reports how many owners are cached.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
