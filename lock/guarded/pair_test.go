package guarded

import (
	"sync"
	"testing"

	"lockbench/lock/spinflag"
)

func lockers() map[string]func() sync.Locker {
	return map[string]func() sync.Locker{
		"mutex": func() sync.Locker { return new(sync.Mutex) },
		"spin":  func() sync.Locker { return spinflag.New() },
	}
}

func TestCountsStep(t *testing.T) {
	var c Counts
	for i := 0; i < 10; i++ {
		c.Step()
	}
	if c.First != 10 || c.Second != 30 {
		t.Fatalf("got %+v, want {First:10 Second:30}", c)
	}
	if !c.Consistent() {
		t.Fatal("counts should be consistent")
	}
	if (Counts{First: 1, Second: 2}).Consistent() {
		t.Fatal("{1 2} should not be consistent")
	}
}

func TestStepConcurrent(t *testing.T) {
	const (
		workers = 6
		n       = 5000
	)
	for name, newLocker := range lockers() {
		t.Run(name, func(t *testing.T) {
			p := NewCounterPair(newLocker())
			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					for j := 0; j < n; j++ {
						p.Step()
					}
				}()
			}
			wg.Wait()

			got := p.Snapshot()
			if got.First != workers*n || got.Second != 3*workers*n {
				t.Fatalf("got %+v, want First=%d Second=%d", got, workers*n, 3*workers*n)
			}
		})
	}
}

func TestHoldConcurrent(t *testing.T) {
	const (
		workers = 4
		n       = 10000
	)
	for name, newLocker := range lockers() {
		t.Run(name, func(t *testing.T) {
			p := NewCounterPair(newLocker())
			var wg sync.WaitGroup
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					p.Hold(func(c *Counts) {
						for j := 0; j < n; j++ {
							c.Step()
						}
					})
				}()
			}
			wg.Wait()

			if got := p.Snapshot(); got.First != workers*n || !got.Consistent() {
				t.Fatalf("got %+v, want First=%d and Second=3*First", got, workers*n)
			}
		})
	}
}

func TestHoldReleasesOnPanic(t *testing.T) {
	f := spinflag.New()
	p := NewCounterPair(f)

	func() {
		defer func() { _ = recover() }()
		p.Hold(func(c *Counts) { panic("boom") })
	}()

	if f.Locked() {
		t.Fatal("lock should be released after a panic inside Hold")
	}
}

func TestReset(t *testing.T) {
	p := NewCounterPair(new(sync.Mutex))
	p.Step()
	p.Step()
	p.Reset()
	if got := p.Snapshot(); got != (Counts{}) {
		t.Fatalf("got %+v after Reset, want zero", got)
	}
}

func TestSharedLocker(t *testing.T) {
	mu := new(sync.Mutex)
	a, b := NewCounterPair(mu), NewCounterPair(mu)
	a.Step()
	b.Hold(func(c *Counts) { c.Step(); c.Step() })
	if a.Snapshot().First != 1 || b.Snapshot().First != 2 {
		t.Fatalf("pairs sharing a lock must keep separate counts: a=%+v b=%+v", a.Snapshot(), b.Snapshot())
	}
}
