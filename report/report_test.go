package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spacemonkeygo/monkit/v3"

	"lockbench/contention"
	"lockbench/lock/guarded"
)

func sampleSuite() contention.SuiteReport {
	var final contention.Snapshot
	final.Pairs[contention.FineMutex] = guarded.Counts{First: 200, Second: 600}
	final.Pairs[contention.CoarseMutex] = guarded.Counts{First: 200, Second: 600}
	final.Pairs[contention.FineSpin] = guarded.Counts{First: 200, Second: 600}
	final.Pairs[contention.CoarseSpin] = guarded.Counts{First: 500, Second: 1500}

	rep := contention.SuiteReport{Threads: 2, Final: final}
	for _, st := range contention.Strategies() {
		rep.Results = append(rep.Results, contention.Result{
			Strategy:            st,
			Threads:             2,
			IterationsPerThread: 100,
			SharedBudget:        st == contention.CoarseSpin,
			Elapsed:             12 * time.Millisecond,
		})
	}
	return rep
}

func feed(r contention.Reporter, rep contention.SuiteReport) {
	for _, res := range rep.Results {
		r.StrategyDone(res)
	}
	r.SuiteDone(rep)
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	feed(NewText(&buf), sampleSuite())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}
	if want := "FineGrainedMutex took 12 msec on 2 threads, 100 iterations each thread"; lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[4], "ContentionBenchmark [spinNum1=200, spinNum2=600, spinLock=false") {
		t.Errorf("unexpected summary line: %s", lines[4])
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	feed(NewJSON(&buf), sampleSuite())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), buf.String())
	}

	var first strategyLine
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first.Kind != "strategy" || first.Strategy != "FineGrainedMutex" || first.ElapsedMs != 12 || first.Threads != 2 {
		t.Errorf("unexpected strategy line: %+v", first)
	}

	var last strategyLine
	if err := json.Unmarshal([]byte(lines[3]), &last); err != nil {
		t.Fatalf("line 3 is not JSON: %v", err)
	}
	if last.Strategy != "CoarseGrainedSpin" || !last.SharedBudget {
		t.Errorf("coarse spin line should carry shared_budget: %+v", last)
	}

	var summary summaryLine
	if err := json.Unmarshal([]byte(lines[4]), &summary); err != nil {
		t.Fatalf("summary is not JSON: %v", err)
	}
	if summary.Kind != "summary" || len(summary.Counters) != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := summary.Counters["CoarseGrainedSpin"]; got.Counter1 != 500 || got.Counter2 != 1500 {
		t.Errorf("coarse spin counters = %+v", got)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics(monkit.NewRegistry())
	feed(m, sampleSuite())

	stats := m.Collect()
	var elapsed, counters int
	for k := range stats {
		if strings.Contains(k, "strategy_elapsed") {
			elapsed++
		}
		if strings.Contains(k, "counter1") && strings.Contains(k, "CoarseGrainedSpin") {
			counters++
		}
	}
	if elapsed == 0 || counters == 0 {
		t.Fatalf("missing metrics, got keys: %v", stats)
	}

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "FineGrainedSpin") {
		t.Errorf("dump missing strategy tag:\n%s", buf.String())
	}
}

type countingReporter struct {
	strategies, suites int
}

func (c *countingReporter) StrategyDone(contention.Result)   { c.strategies++ }
func (c *countingReporter) SuiteDone(contention.SuiteReport) { c.suites++ }

func TestMulti(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	feed(Multi{a, b}, sampleSuite())
	for _, c := range []*countingReporter{a, b} {
		if c.strategies != 4 || c.suites != 1 {
			t.Errorf("got %+v, want 4 strategies and 1 suite", *c)
		}
	}
}
