package contention

import (
	"strconv"

	"lockbench/lock/guarded"
)

// Strategy 互斥策略
type Strategy int

const (
	// FineMutex 每次累加都加解一次 sync.Mutex
	FineMutex Strategy = iota
	// CoarseMutex 每个 worker 持有 sync.Mutex 跑完全部迭代
	CoarseMutex
	// FineSpin 每次累加都忙等获取一次自旋锁
	FineSpin
	// CoarseSpin 每个 worker 只获取一次自旋锁，持锁期间消耗共享的迭代预算
	CoarseSpin

	numStrategies
)

var strategyNames = [numStrategies]string{
	FineMutex:   "FineGrainedMutex",
	CoarseMutex: "CoarseGrainedMutex",
	FineSpin:    "FineGrainedSpin",
	CoarseSpin:  "CoarseGrainedSpin",
}

func (s Strategy) String() string {
	if !s.valid() {
		return "Strategy(" + strconv.Itoa(int(s)) + ")"
	}
	return strategyNames[s]
}

func (s Strategy) valid() bool {
	return s >= 0 && s < numStrategies
}

// Strategies 按 RunSuite 的执行顺序返回全部策略
func Strategies() []Strategy {
	return []Strategy{FineMutex, CoarseMutex, FineSpin, CoarseSpin}
}

// workerFactory 每次运行调用一次，返回的函数由本次运行的所有 worker 共同执行
type workerFactory func(s *Suite) func()

var workerFactories = map[Strategy]workerFactory{
	FineMutex:   fineWorker(FineMutex),
	CoarseMutex: coarseMutexWorker,
	FineSpin:    fineWorker(FineSpin),
	CoarseSpin:  coarseSpinWorker,
}

func fineWorker(st Strategy) workerFactory {
	return func(s *Suite) func() {
		pair := s.pairs[st]
		n := s.opts.Iterations
		return func() {
			for i := 0; i < n; i++ {
				pair.Step()
			}
		}
	}
}

func coarseMutexWorker(s *Suite) func() {
	pair := s.pairs[CoarseMutex]
	n := s.opts.Iterations
	return func() {
		pair.Hold(func(c *guarded.Counts) {
			for i := 0; i < n; i++ {
				c.Step()
			}
		})
	}
}

// 预算不随线程数放大也不在线程间平分：第一个抢到锁的 worker 把预算耗尽，
// 其余 worker 自旋等到锁后已无事可做
func coarseSpinWorker(s *Suite) func() {
	pair := s.pairs[CoarseSpin]
	remaining := s.opts.CoarseSpinBudget // 只在 Hold 内读写，受自旋锁保护
	return func() {
		pair.Hold(func(c *guarded.Counts) {
			for ; remaining > 0; remaining-- {
				c.Step()
			}
		})
	}
}
