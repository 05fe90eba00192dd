package spinflag

import (
	"strconv"
	"sync"

	"github.com/zeromicro/go-zero/core/syncx"
)

// SpinFlag 基于原子布尔值的自旋锁
// 加锁时不断尝试 CAS(false -> true)，失败立即重试：不退避、不让出处理器(没有 runtime.Gosched)，
// 与阻塞式的 sync.Mutex 形成对照
type SpinFlag struct {
	held *syncx.AtomicBool
}

var _ sync.Locker = (*SpinFlag)(nil)

// New 返回一个处于未加锁(false)状态的自旋锁
func New() *SpinFlag {
	return &SpinFlag{held: syncx.NewAtomicBool()}
}

// Lock 忙等直到把标志位从 false 改为 true
func (f *SpinFlag) Lock() {
	for !f.held.CompareAndSwap(false, true) {
	}
}

// TryLock 只尝试一次 CAS
func (f *SpinFlag) TryLock() bool {
	return f.held.CompareAndSwap(false, true)
}

// Unlock 把标志位置回 false。与 sync.Mutex 一样，对未加锁的自旋锁解锁属于调用方的错误，这里不做检查
func (f *SpinFlag) Unlock() {
	f.held.Set(false)
}

// Locked 报告当前是否有人持有锁，仅用于观察，不能据此做同步判断
func (f *SpinFlag) Locked() bool {
	return f.held.True()
}

func (f *SpinFlag) String() string {
	return strconv.FormatBool(f.Locked())
}
