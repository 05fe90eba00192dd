package report

import (
	"fmt"
	"io"

	"lockbench/contention"
)

// Text 每次策略运行输出一行，每次 RunSuite 结束再输出一行计数器汇总
type Text struct {
	w io.Writer
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) StrategyDone(r contention.Result) {
	fmt.Fprintln(t.w, r.String())
}

func (t *Text) SuiteDone(r contention.SuiteReport) {
	fmt.Fprintln(t.w, r.Final.String())
}
