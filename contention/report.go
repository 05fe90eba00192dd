package contention

import (
	"fmt"
	"time"

	"lockbench/lock/guarded"
)

// Result 一次策略运行的结果
type Result struct {
	Strategy            Strategy
	Threads             int
	IterationsPerThread int
	// SharedBudget 为 true 时 IterationsPerThread 是全部 worker 共享的预算总量
	SharedBudget        bool
	Elapsed             time.Duration
}

// Millis 耗时(毫秒)
func (r Result) Millis() int64 {
	return r.Elapsed.Milliseconds()
}

func (r Result) String() string {
	if r.SharedBudget {
		return fmt.Sprintf("%s took %d msec on %d threads, %d iterations shared by all threads",
			r.Strategy, r.Millis(), r.Threads, r.IterationsPerThread)
	}
	return fmt.Sprintf("%s took %d msec on %d threads, %d iterations each thread",
		r.Strategy, r.Millis(), r.Threads, r.IterationsPerThread)
}

// Snapshot 全部八个计数器以及自旋锁的状态
type Snapshot struct {
	Pairs      [numStrategies]guarded.Counts
	SpinLocked bool
}

// Of 返回某个策略的计数器对
func (s Snapshot) Of(st Strategy) guarded.Counts {
	if !st.valid() {
		return guarded.Counts{}
	}
	return s.Pairs[st]
}

func (s Snapshot) String() string {
	fs, fm, cm, cs := s.Pairs[FineSpin], s.Pairs[FineMutex], s.Pairs[CoarseMutex], s.Pairs[CoarseSpin]
	return fmt.Sprintf("ContentionBenchmark [spinNum1=%d, spinNum2=%d, spinLock=%t, mutexNum1=%d, mutexNum2=%d, "+
		"coarseMutexNum1=%d, coarseMutexNum2=%d, coarseSpinNum1=%d, coarseSpinNum2=%d]",
		fs.First, fs.Second, s.SpinLocked, fm.First, fm.Second,
		cm.First, cm.Second, cs.First, cs.Second)
}

// SuiteReport 一次 RunSuite 的全部结果
type SuiteReport struct {
	Threads int
	Results []Result
	Final   Snapshot
}

// Reporter 接收运行结果。两个方法都在两次策略运行之间被同步调用，此时没有 worker 在运行
type Reporter interface {
	StrategyDone(r Result)
	SuiteDone(r SuiteReport)
}

type nopReporter struct{}

func (nopReporter) StrategyDone(Result)   {}
func (nopReporter) SuiteDone(SuiteReport) {}
