package sim

import (
	"fmt"
)

// Strategy names accepted by NewStrategy and the /start endpoint.
const (
	StrategyRoundRobin  = "round_robin"
	StrategyLeastLoaded = "least_loaded"
	StrategyThreshold   = "threshold"
)

// Migration records one queued task moved between processor queues during
// a Rebalance call.
type Migration struct {
	Task *Task
	From int // source processor ID
	To   int // destination processor ID
}

// Strategy defines the placement and migration policy for arriving tasks.
// Place assigns a newly arrived task to exactly one processor's queue tail
// and returns the chosen processor. Rebalance may move queued (never running)
// tasks between processors and returns the migrations performed; strategies
// without runtime migration return nil.
type Strategy interface {
	Name() string
	Place(t *Task) *Processor
	Rebalance() []Migration
}

// NewStrategy creates a placement strategy of the given name over the pool.
// Returns ErrInvalidArgument for unknown names.
func NewStrategy(name string, pool []*Processor, cfg ThresholdConfig) (Strategy, error) {
	switch name {
	case StrategyRoundRobin:
		return &RoundRobin{pool: pool}, nil
	case StrategyLeastLoaded:
		return &LeastLoaded{pool: pool}, nil
	case StrategyThreshold:
		return &Threshold{pool: pool, cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, name)
	}
}

// AvailableStrategies returns the list of supported strategy names.
func AvailableStrategies() []string {
	return []string{StrategyRoundRobin, StrategyLeastLoaded, StrategyThreshold}
}

// IsValidStrategy reports whether name is a supported strategy.
func IsValidStrategy(name string) bool {
	switch name {
	case StrategyRoundRobin, StrategyLeastLoaded, StrategyThreshold:
		return true
	}
	return false
}

// RoundRobin places tasks on processors in rotating order, independent of
// current load. Guarantees long-run fairness of assignment count.
type RoundRobin struct {
	pool    []*Processor
	counter int
}

func (rr *RoundRobin) Name() string { return StrategyRoundRobin }

// Place assigns the task to the processor at the rotating pointer and
// advances the pointer modulo the pool size.
func (rr *RoundRobin) Place(t *Task) *Processor {
	target := rr.pool[rr.counter%len(rr.pool)]
	rr.counter++
	place(t, target)
	return target
}

// Rebalance is a no-op: round robin never migrates.
func (rr *RoundRobin) Rebalance() []Migration { return nil }

// LeastLoaded places each task on the processor with minimum total remaining
// work (queue plus current task). Ties are broken by lowest processor ID.
type LeastLoaded struct {
	pool []*Processor
}

func (ll *LeastLoaded) Name() string { return StrategyLeastLoaded }

func (ll *LeastLoaded) Place(t *Task) *Processor {
	target := leastLoaded(ll.pool)
	place(t, target)
	return target
}

// Rebalance is a no-op: least loaded only balances at placement time.
func (ll *LeastLoaded) Rebalance() []Migration { return nil }

// Threshold places like LeastLoaded and additionally migrates queued tasks
// from overloaded to underloaded processors every tick.
//
// A processor is overloaded when its queue length exceeds the pool-average
// queue length plus OverloadMargin, and underloaded when its queue length is
// below the average minus UnderloadMargin. Each Rebalance moves at most one
// task per overloaded processor (the tail-most queued task, never the
// currently running one) to bound per-tick work and avoid oscillation.
type Threshold struct {
	pool []*Processor
	cfg  ThresholdConfig
}

func (th *Threshold) Name() string { return StrategyThreshold }

func (th *Threshold) Place(t *Task) *Processor {
	target := leastLoaded(th.pool)
	place(t, target)
	return target
}

func (th *Threshold) Rebalance() []Migration {
	var total int
	for _, p := range th.pool {
		total += p.Queue.Len()
	}
	avg := float64(total) / float64(len(th.pool))

	var migrations []Migration
	for _, src := range th.pool {
		if float64(src.Queue.Len()) <= avg+th.cfg.OverloadMargin {
			continue
		}
		dst := underloaded(th.pool, avg-th.cfg.UnderloadMargin)
		if dst == nil || dst == src {
			continue
		}
		task := src.Queue.RemoveTail()
		if task == nil {
			continue
		}
		task.AssignedProcessor = dst.ID
		dst.Queue.Enqueue(task)
		migrations = append(migrations, Migration{Task: task, From: src.ID, To: dst.ID})
	}
	return migrations
}

// place appends the task to the target's queue tail and marks it placed.
func place(t *Task, target *Processor) {
	t.State = StateQueued
	t.AssignedProcessor = target.ID
	target.Queue.Enqueue(t)
}

// leastLoaded returns the processor with minimum remaining work.
// Ties are broken by first occurrence, i.e. lowest processor ID.
func leastLoaded(pool []*Processor) *Processor {
	target := pool[0]
	minLoad := target.RemainingWork()
	for _, p := range pool[1:] {
		if load := p.RemainingWork(); load < minLoad {
			minLoad = load
			target = p
		}
	}
	return target
}

// underloaded returns the processor with the shortest queue strictly below
// the given bound, lowest ID on ties, or nil if none qualifies.
func underloaded(pool []*Processor, bound float64) *Processor {
	var target *Processor
	for _, p := range pool {
		if float64(p.Queue.Len()) >= bound {
			continue
		}
		if target == nil || p.Queue.Len() < target.Queue.Len() {
			target = p
		}
	}
	return target
}
