package policies

import (
	"testing"

	"github.com/zeu5/pole-balancing/core"
)

func TestQTableMax(t *testing.T) {
	q := NewQTable(2)
	if a, v := q.Max(0); a != core.PushNegative || v != 0 {
		t.Errorf("tie resolved to %s (%v)", a, v)
	}
	q.Set(1, core.PushPositive, 0.5)
	if a, v := q.Max(1); a != core.PushPositive || v != 0.5 {
		t.Errorf("max of region 1 = %s (%v)", a, v)
	}
	q.Reset()
	if q.Get(1, core.PushPositive) != 0 || q.Size() != 2 {
		t.Errorf("reset kept values")
	}
}

func TestSoftmaxQLearnsFromFailure(t *testing.T) {
	params := DefaultSoftmaxQParams(3)
	s, err := NewSoftmaxQ(params)
	if err != nil {
		t.Fatalf("creating baseline: %s", err)
	}
	s.UpdateStep(nil, region(1), core.PushPositive, region(core.FailedRegion))
	if v := s.QTable().Get(1, core.PushPositive); !approxEqual(v, -0.3) {
		t.Fatalf("Q after failure = %v, want -0.3", v)
	}

	s.UpdateStep(nil, region(0), core.PushNegative, region(1))
	// best action of region 1 is still worth 0
	if v := s.QTable().Get(0, core.PushNegative); v != 0 {
		t.Fatalf("Q without reinforcement = %v", v)
	}

	pushes := 0
	for i := 0; i < 200; i++ {
		if s.PickAction(nil, region(1)) == core.PushPositive {
			pushes++
		}
	}
	if pushes > 20 {
		t.Errorf("picked the punished action %d times out of 200", pushes)
	}
}

func TestSoftmaxQIsReproducible(t *testing.T) {
	params := DefaultSoftmaxQParams(2)
	params.Seed = 9
	a, _ := NewSoftmaxQ(params)
	b, _ := NewSoftmaxQ(params)
	for i := 0; i < 100; i++ {
		if a.PickAction(nil, region(0)) != b.PickAction(nil, region(0)) {
			t.Fatalf("action %d differs for the same seed", i)
		}
	}
}

func TestRandomPolicy(t *testing.T) {
	p := NewRandomPolicy(4)
	first := make([]core.Action, 100)
	positive := 0
	for i := range first {
		first[i] = p.PickAction(nil, region(0))
		if first[i] == core.PushPositive {
			positive++
		}
	}
	if positive == 0 || positive == len(first) {
		t.Fatalf("random policy always pushed the same way")
	}
	p.Reset()
	for i := range first {
		if p.PickAction(nil, region(0)) != first[i] {
			t.Fatalf("action %d differs after reset", i)
		}
	}
}

func TestSoftmaxQConstructorSeedsRuns(t *testing.T) {
	params := DefaultSoftmaxQParams(4)
	params.Seed = 10
	c, err := NewSoftmaxQConstructor(params)
	if err != nil {
		t.Fatalf("constructor: %s", err)
	}
	policy, ok := c.NewPolicy(2).(*SoftmaxQ)
	if !ok || policy == nil {
		t.Fatalf("run 2 got %v", policy)
	}
	if policy.params.Seed != 12 {
		t.Fatalf("run 2 seeded with %d", policy.params.Seed)
	}
}
