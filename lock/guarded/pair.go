package guarded

import "sync"

const (
	// FirstDelta 每一步 counter1 的增量
	FirstDelta = 1
	// SecondDelta 每一步 counter2 的增量，任何时刻的终值都满足 Second == 3 * First
	SecondDelta = 3
)

// Counts 一对计数器的值
type Counts struct {
	First  int64
	Second int64
}

// Step 两个计数器各累加一次
func (c *Counts) Step() {
	c.First += FirstDelta
	c.Second += SecondDelta
}

// Consistent 检查 Second == 3 * First
func (c Counts) Consistent() bool {
	return c.Second == SecondDelta*c.First
}

// CounterPair 由一把锁拥有的一对计数器
// 字段不导出，所有读写都必须经过 locker，没有绕开锁访问计数器的路径
type CounterPair struct {
	locker sync.Locker
	counts Counts
}

// NewCounterPair 用给定的锁保护一对从 0 开始的计数器。同一把锁可以被多个 CounterPair 共享
func NewCounterPair(locker sync.Locker) *CounterPair {
	return &CounterPair{locker: locker}
}

// Step 细粒度：加锁、累加一次、解锁
func (p *CounterPair) Step() {
	p.locker.Lock()
	p.counts.Step()
	p.locker.Unlock()
}

// Hold 粗粒度：加锁一次，在持锁期间执行 fn，结束后解锁
// fn 拿到的 *Counts 只在 fn 内有效，不能保存到外面
func (p *CounterPair) Hold(fn func(c *Counts)) {
	p.locker.Lock()
	defer p.locker.Unlock()
	fn(&p.counts)
}

// Snapshot 加锁读取当前值
func (p *CounterPair) Snapshot() Counts {
	p.locker.Lock()
	defer p.locker.Unlock()
	return p.counts
}

// Reset 把两个计数器清零
func (p *CounterPair) Reset() {
	p.locker.Lock()
	p.counts = Counts{}
	p.locker.Unlock()
}
