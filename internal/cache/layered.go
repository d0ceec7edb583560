package cache

import "time"

// Layered reads memory first and falls back to disk, promoting disk hits
type Layered struct {
	memory Store
	disk   Store
}

// NewLayered combines a memory store with a disk store under dir
func NewLayered(dir string, ttl time.Duration) *Layered {
	return &Layered{
		memory: NewMemory(ttl),
		disk:   NewDisk(dir, ttl),
	}
}

func (l *Layered) Get(key string) ([]byte, bool) {
	if v, ok := l.memory.Get(key); ok {
		return v, true
	}
	v, ok := l.disk.Get(key)
	if ok {
		_ = l.memory.Set(key, v, 0)
	}
	return v, ok
}

func (l *Layered) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

func (l *Layered) Delete(key string) error {
	_ = l.memory.Delete(key)
	return l.disk.Delete(key)
}

func (l *Layered) Clear() error {
	_ = l.memory.Clear()
	return l.disk.Clear()
}
