package report

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/zeromicro/go-zero/core/logx"

	"lockbench/contention"
	"lockbench/lock/guarded"
)

type strategyLine struct {
	Kind                string `json:"kind"`
	Strategy            string `json:"strategy"`
	ElapsedMs           int64  `json:"elapsed_ms"`
	Threads             int    `json:"threads"`
	IterationsPerThread int    `json:"iterations_per_thread"`
	SharedBudget        bool   `json:"shared_budget,omitempty"`
}

type countsLine struct {
	Counter1 int64 `json:"counter1"`
	Counter2 int64 `json:"counter2"`
}

type summaryLine struct {
	Kind     string                `json:"kind"`
	Threads  int                   `json:"threads"`
	Counters map[string]countsLine `json:"counters"`
	SpinLock bool                  `json:"spin_lock"`
}

// JSON 每个事件输出一行 JSON
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) StrategyDone(r contention.Result) {
	j.write(strategyLine{
		Kind:                "strategy",
		Strategy:            r.Strategy.String(),
		ElapsedMs:           r.Millis(),
		Threads:             r.Threads,
		IterationsPerThread: r.IterationsPerThread,
		SharedBudget:        r.SharedBudget,
	})
}

func (j *JSON) SuiteDone(r contention.SuiteReport) {
	counters := make(map[string]countsLine, len(r.Final.Pairs))
	for _, st := range contention.Strategies() {
		counters[st.String()] = toCountsLine(r.Final.Of(st))
	}
	j.write(summaryLine{
		Kind:     "summary",
		Threads:  r.Threads,
		Counters: counters,
		SpinLock: r.Final.SpinLocked,
	})
}

func (j *JSON) write(v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		logx.Errorf("marshal report line: %v", err)
		return
	}
	data = append(data, '\n')
	if _, err := j.w.Write(data); err != nil {
		logx.Errorf("write report line: %v", err)
	}
}

func toCountsLine(c guarded.Counts) countsLine {
	return countsLine{Counter1: c.First, Counter2: c.Second}
}
