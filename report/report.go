// Package report 把基准结果输出到控制台、JSON 行或 monkit 指标
package report

import "lockbench/contention"

// Multi 把结果依次分发给多个 Reporter
type Multi []contention.Reporter

func (m Multi) StrategyDone(r contention.Result) {
	for _, rep := range m {
		rep.StrategyDone(r)
	}
}

func (m Multi) SuiteDone(r contention.SuiteReport) {
	for _, rep := range m {
		rep.SuiteDone(r)
	}
}
