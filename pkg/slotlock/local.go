package slotlock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// LocalLocker блокировка в памяти процесса.
// Используется, когда Redis выключен (один инстанс) и в тестах
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
	opts  Options
}

// localSlot семафор ключа и число его текущих владельцев и ожидающих.
// Запись удаляется из map, когда refs падает до нуля
type localSlot struct {
	sem  chan struct{}
	refs int
}

// NewLocalLocker создает блокировку в памяти
func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{
		slots: make(map[string]*localSlot),
		opts:  opts.withDefaults(),
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (Release, error) {
	slot := l.retain(key)

	timer := time.NewTimer(l.opts.WaitTimeout)
	defer timer.Stop()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, slot)
		return nil, ctx.Err()
	case <-timer.C:
		l.release(key, slot)
		return nil, fmt.Errorf("%w: key=%s", ErrLockTimeout, key)
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-slot.sem
			l.release(key, slot)
		})
		return nil
	}, nil
}

func (l *LocalLocker) retain(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{sem: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalLocker) release(key string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}
