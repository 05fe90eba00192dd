package contention

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidThreadCount 线程数必须 >= 1
	ErrInvalidThreadCount = errors.New("contention: thread count must be positive")
	// ErrUnknownStrategy 策略不在分派表中
	ErrUnknownStrategy = errors.New("contention: unknown strategy")
)

// WorkerError 某个 worker 异常退出。对所在的那次运行是致命的，不重试
type WorkerError struct {
	Strategy Strategy
	Worker   int
	Cause    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("contention: %s worker %d failed: %v", e.Strategy, e.Worker, e.Cause)
}

func (e *WorkerError) Unwrap() error {
	return e.Cause
}
