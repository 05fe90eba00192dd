package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spacemonkeygo/monkit/v3"

	"lockbench/contention"
)

// Metrics 把每次运行的耗时和最终计数器记录到 monkit
type Metrics struct {
	reg   *monkit.Registry
	scope *monkit.Scope
}

// NewMetrics reg 为 nil 时使用 monkit.Default
func NewMetrics(reg *monkit.Registry) *Metrics {
	if reg == nil {
		reg = monkit.Default
	}
	return &Metrics{reg: reg, scope: reg.ScopeNamed("lockbench")}
}

func (m *Metrics) StrategyDone(r contention.Result) {
	m.scope.DurationVal("strategy_elapsed", tags(r.Strategy, r.Threads)...).Observe(r.Elapsed)
}

func (m *Metrics) SuiteDone(r contention.SuiteReport) {
	for _, st := range contention.Strategies() {
		c := r.Final.Of(st)
		m.scope.IntVal("counter1", tags(st, r.Threads)...).Observe(c.First)
		m.scope.IntVal("counter2", tags(st, r.Threads)...).Observe(c.Second)
	}
}

// Collect 返回当前全部指标
func (m *Metrics) Collect() map[string]float64 {
	return monkit.Collect(m.reg)
}

// Dump 按 key 排序输出全部指标
func (m *Metrics) Dump(w io.Writer) error {
	stats := m.Collect()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, "%s\t%v\n", k, stats[k]); err != nil {
			return err
		}
	}
	return nil
}

func tags(st contention.Strategy, threads int) []monkit.SeriesTag {
	return []monkit.SeriesTag{
		monkit.NewSeriesTag("strategy", st.String()),
		monkit.NewSeriesTag("threads", strconv.Itoa(threads)),
	}
}
