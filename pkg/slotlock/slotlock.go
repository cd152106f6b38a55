package slotlock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockTimeout блокировку не удалось получить за отведенное время
	ErrLockTimeout = errors.New("slotlock: lock wait timeout")

	// ErrNotOwner блокировка истекла или принадлежит другому владельцу
	ErrNotOwner = errors.New("slotlock: lock is not owned by this holder")
)

// Release освобождает полученную блокировку
type Release func(ctx context.Context) error

// Locker взаимное исключение по строковому ключу
type Locker interface {
	// Acquire ждет блокировку по ключу не дольше настроенного таймаута.
	// Возвращенный Release должен быть вызван на любом пути выхода
	Acquire(ctx context.Context, key string) (Release, error)
}

// Options параметры ожидания блокировки
type Options struct {
	// TTL время жизни блокировки на случай падения держателя (только для Redis)
	TTL time.Duration
	// WaitTimeout максимальное время ожидания
	WaitTimeout time.Duration
	// RetryInterval период повторных попыток (только для Redis)
	RetryInterval time.Duration
}

// DefaultOptions значения по умолчанию
func DefaultOptions() Options {
	return Options{
		TTL:           10 * time.Second,
		WaitTimeout:   3 * time.Second,
		RetryInterval: 25 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TTL <= 0 {
		o.TTL = def.TTL
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = def.WaitTimeout
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = def.RetryInterval
	}
	return o
}
