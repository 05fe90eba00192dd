package contention

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/timex"
	"golang.org/x/sync/errgroup"

	"lockbench/lock/guarded"
	"lockbench/lock/spinflag"
)

const (
	// DefaultIterations 每个 worker 的迭代次数 K
	DefaultIterations = 100000
	// DefaultCoarseSpinBudget 粗粒度自旋策略每次运行共享的迭代预算
	DefaultCoarseSpinBudget = 10000000
)

// Options Suite 的参数，零值字段取默认值
type Options struct {
	Iterations       int
	CoarseSpinBudget int
	// LockOSThread 为 true 时每个 worker 独占一个 OS 线程
	LockOSThread bool
	Reporter     Reporter
}

// Suite 锁竞争基准。
// 两个 Mutex 策略共用一把 sync.Mutex，两个自旋策略共用一个 SpinFlag，每个策略各有一对计数器。
// 策略之间严格串行：上一个策略的所有 worker 结束后才会启动下一个。
// Suite 的方法不能并发调用。
type Suite struct {
	opts  Options
	mu    sync.Mutex
	flag  *spinflag.SpinFlag
	pairs [numStrategies]*guarded.CounterPair
}

// New 创建计数器全部为 0 的 Suite
func New(opts Options) *Suite {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.CoarseSpinBudget <= 0 {
		opts.CoarseSpinBudget = DefaultCoarseSpinBudget
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}

	s := &Suite{
		opts: opts,
		flag: spinflag.New(),
	}
	s.pairs[FineMutex] = guarded.NewCounterPair(&s.mu)
	s.pairs[CoarseMutex] = guarded.NewCounterPair(&s.mu)
	s.pairs[FineSpin] = guarded.NewCounterPair(s.flag)
	s.pairs[CoarseSpin] = guarded.NewCounterPair(s.flag)
	return s
}

// RunSuite 计数器清零后按 Strategies() 的顺序依次运行全部策略，每个策略使用 threads 个 worker。
// 任一策略失败立即返回，该策略不产生结果。
func (s *Suite) RunSuite(ctx context.Context, threads int) (SuiteReport, error) {
	if threads < 1 {
		return SuiteReport{}, fmt.Errorf("%w: %d", ErrInvalidThreadCount, threads)
	}

	s.Reset()
	report := SuiteReport{
		Threads: threads,
		Results: make([]Result, 0, numStrategies),
	}
	for _, st := range Strategies() {
		r, err := s.RunStrategy(ctx, st, threads)
		if err != nil {
			return report, fmt.Errorf("run %s on %d threads: %w", st, threads, err)
		}
		report.Results = append(report.Results, r)
	}

	// 所有 worker 都已 Wait 返回，读取终值不需要额外同步
	report.Final = s.Snapshot()
	s.opts.Reporter.SuiteDone(report)
	return report, nil
}

// RunStrategy 用 threads 个 worker 运行一个策略，计时从启动第一个 worker 之前到最后一个 worker 结束之后。
// ctx 只在启动前检查，运行中不会被取消。
func (s *Suite) RunStrategy(ctx context.Context, st Strategy, threads int) (Result, error) {
	if threads < 1 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidThreadCount, threads)
	}
	newWorker, ok := workerFactories[st]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownStrategy, st)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	work := newWorker(s)
	var g errgroup.Group
	start := timex.Now()
	for i := 0; i < threads; i++ {
		g.Go(s.worker(st, i, work))
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	elapsed := timex.Since(start)

	r := Result{
		Strategy:            st,
		Threads:             threads,
		IterationsPerThread: s.iterationsOf(st),
		SharedBudget:        st == CoarseSpin,
		Elapsed:             elapsed,
	}
	logx.WithContext(ctx).Debugw("strategy finished",
		logx.Field("strategy", st.String()),
		logx.Field("threads", threads),
		logx.Field("elapsed", elapsed))
	s.opts.Reporter.StrategyDone(r)
	return r, nil
}

func (s *Suite) worker(st Strategy, id int, work func()) func() error {
	return func() (err error) {
		if s.opts.LockOSThread {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
		}
		defer func() {
			if p := recover(); p != nil {
				err = &WorkerError{Strategy: st, Worker: id, Cause: fmt.Errorf("panic: %v", p)}
			}
		}()

		work()
		return nil
	}
}

func (s *Suite) iterationsOf(st Strategy) int {
	if st == CoarseSpin {
		return s.opts.CoarseSpinBudget
	}
	return s.opts.Iterations
}

// Snapshot 读取全部计数器
func (s *Suite) Snapshot() Snapshot {
	var snap Snapshot
	for st, pair := range s.pairs {
		snap.Pairs[st] = pair.Snapshot()
	}
	snap.SpinLocked = s.flag.Locked()
	return snap
}

// Reset 全部计数器清零
func (s *Suite) Reset() {
	for _, pair := range s.pairs {
		pair.Reset()
	}
}

func (s *Suite) String() string {
	return s.Snapshot().String()
}
