// Implements the simulation engine: the tick-stepped state machine that owns
// the task registry, the processor pool, and the active placement strategy.
//
// All mutation goes through Engine methods under one lock. The background
// tick loop (Run) and command handlers are strictly serialized, so no caller
// ever observes a partially advanced tick and a Reset waits out any tick
// already in flight.

package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// tickEvent is one observation made during a tick, keyed by task PID so the
// log can be ordered deterministically within its group.
type tickEvent struct {
	pid string
	msg string
}

// tickEvents buckets the events of a single tick. Flush order is fixed:
// arrivals, dispatches, migrations, completions, each group sorted by PID.
type tickEvents struct {
	arrivals    []tickEvent
	dispatches  []tickEvent
	migrations  []tickEvent
	completions []tickEvent
}

// Engine drives the simulation. One instance exists per process; every
// operation takes the engine lock, so ticks and commands never interleave.
type Engine struct {
	mu  sync.RWMutex
	cfg Config
	rng *rand.Rand

	tick      int64
	running   bool
	finished  bool
	finalTick int64 // tick value at the moment finished flipped true

	strategy Strategy
	pool     []*Processor

	// registry holds every task added since the last reset, keyed by PID.
	registry  map[string]*Task
	pending   []*Task // tasks whose arrival tick has not been reached
	completed []*Task // finished tasks, retained for reporting
	metrics   *Metrics

	log    []string
	events tickEvents

	pidCounter int // next auto-generated PID suffix
}

// NewEngine creates an engine with the given configuration and an empty,
// paused simulation at tick 0.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.initialize()
	return e
}

// initialize puts the engine in its post-reset state. Caller holds the lock
// (or is the constructor).
func (e *Engine) initialize() {
	e.pool = NewProcessorPool(e.cfg.Processors)
	e.rng = rand.New(rand.NewSource(e.cfg.Seed))
	e.tick = 0
	e.running = false
	e.finished = false
	e.finalTick = 0
	e.strategy = nil
	e.registry = make(map[string]*Task)
	e.pending = nil
	e.completed = nil
	e.metrics = nil
	e.log = nil
	e.events = tickEvents{}
	e.pidCounter = 1
}

// Start selects the placement algorithm and begins (or resumes) ticking.
// Fails with ErrInvalidState if already running, or if the algorithm differs
// from the one the run started with (re-selectable only after Reset).
// Fails with ErrInvalidArgument for unknown algorithm names.
func (e *Engine) Start(algorithm string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !IsValidStrategy(algorithm) {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, algorithm)
	}
	if e.running {
		return fmt.Errorf("%w: simulation already running", ErrInvalidState)
	}
	if e.finished {
		return fmt.Errorf("%w: simulation finished, add tasks or reset first", ErrInvalidState)
	}
	if e.strategy != nil {
		if e.strategy.Name() != algorithm {
			return fmt.Errorf("%w: algorithm is fixed for the run, reset first", ErrInvalidState)
		}
	} else {
		s, err := NewStrategy(algorithm, e.pool, e.cfg.Threshold)
		if err != nil {
			return err
		}
		e.strategy = s
	}

	e.running = true
	e.appendLog(fmt.Sprintf("Simulation started with algorithm: %s", algorithm))
	return nil
}

// Pause stops scheduling future ticks. Idempotent; a tick already in
// progress completes before the pause is observable.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.appendLog("Simulation paused.")
}

// Reset clears all state back to initial. Always succeeds; waits for any
// in-flight tick because both contend for the same lock.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initialize()
	e.appendLog("Simulation reset.")
}

// AddTask creates a Pending task and enqueues it into pending arrivals.
// Allowed at any time, including mid-run; a task added after the simulation
// finished clears the finished flag so the run can be resumed.
func (e *Engine) AddTask(pid string, arrivalTime, burstTime int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if pid == "" {
		return fmt.Errorf("%w: pid must not be empty", ErrInvalidArgument)
	}
	if arrivalTime < 0 {
		return fmt.Errorf("%w: arrival_time must be >= 0, got %d", ErrInvalidArgument, arrivalTime)
	}
	if burstTime <= 0 {
		return fmt.Errorf("%w: burst_time must be > 0, got %d", ErrInvalidArgument, burstTime)
	}
	if _, exists := e.registry[pid]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, pid)
	}

	e.admit(NewTask(pid, arrivalTime, burstTime))
	e.appendLog(fmt.Sprintf("Added: %s (arrival %d, burst %d)", pid, arrivalTime, burstTime))
	return nil
}

// Generate creates count tasks with randomized arrival and burst times drawn
// from the configured ranges, under auto-assigned unique PIDs.
// Returns the created PIDs, or ErrInvalidArgument if count <= 0.
func (e *Engine) Generate(count int) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidArgument, count)
	}

	gen := e.cfg.Generate
	pids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		pid := e.nextPID()
		arrival := e.tick + e.rng.Int63n(gen.ArrivalSpread+1)
		burst := gen.BurstMin + e.rng.Int63n(gen.BurstMax-gen.BurstMin+1)
		e.admit(NewTask(pid, arrival, burst))
		pids = append(pids, pid)
	}
	e.appendLog(fmt.Sprintf("Generated %d tasks.", count))
	return pids, nil
}

// admit registers a task and parks it in pending arrivals. New tasks are
// never inserted mid-tick into a processor queue; the next tick moves them.
// Caller holds the lock.
func (e *Engine) admit(t *Task) {
	e.registry[t.PID] = t
	e.pending = append(e.pending, t)
	e.finished = false
}

// nextPID returns the next auto-generated PID, skipping any the caller has
// already claimed via AddTask.
func (e *Engine) nextPID() string {
	for {
		pid := fmt.Sprintf("P%d", e.pidCounter)
		e.pidCounter++
		if _, taken := e.registry[pid]; !taken {
			return pid
		}
	}
}

// Run drives ticks on the configured real-time cadence until ctx is
// cancelled. Ticks are no-ops while the simulation is paused or finished.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Step()
		}
	}
}

// Step executes one tick if the simulation is running. Exposed for headless
// runs and tests; the background loop calls it on every ticker fire.
func (e *Engine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.finished {
		return
	}
	e.step()
}

// step advances the simulation by one tick. Pure state transformation over
// already-validated data; it cannot fail. Caller holds the lock.
func (e *Engine) step() {
	// 1. Arrivals: tasks whose arrival tick has been reached are handed to
	// the strategy, in ascending PID order for determinism.
	arrived := e.collectArrivals()
	for _, t := range arrived {
		target := e.strategy.Place(t)
		e.events.arrivals = append(e.events.arrivals, tickEvent{
			pid: t.PID,
			msg: fmt.Sprintf("Arrived: %s (burst %d) -> CPU %d", t.PID, t.BurstTime, target.ID),
		})
	}

	// 2. Rebalance: the strategy may migrate queued tasks between queues.
	for _, m := range e.strategy.Rebalance() {
		e.events.migrations = append(e.events.migrations, tickEvent{
			pid: m.Task.PID,
			msg: fmt.Sprintf("Migrated: %s CPU %d -> CPU %d", m.Task.PID, m.From, m.To),
		})
	}

	// 3. Execution: an idle processor dispatches its queue head (no work on
	// the dispatch tick); a busy processor burns one unit of its current task.
	for _, p := range e.pool {
		if p.Idle() {
			e.dispatch(p)
			continue
		}
		p.Current.RemainingTime--
		p.BusyTicks++
		if p.Current.RemainingTime == 0 {
			e.complete(p)
			e.dispatch(p)
		}
	}

	e.flushEvents()
	e.tick++

	// Finished once nothing is pending, queued, or executing.
	if len(e.pending) == 0 && e.allDrained() {
		e.finished = true
		e.running = false
		e.finalTick = e.tick
		e.metrics = ComputeMetrics(e.completed, e.pool, e.finalTick)
		e.appendLog("All tasks completed. Simulation stopped.")
	}
}

// collectArrivals removes due tasks from pending and returns them sorted by
// PID. Caller holds the lock.
func (e *Engine) collectArrivals() []*Task {
	var arrived, remaining []*Task
	for _, t := range e.pending {
		if t.ArrivalTime <= e.tick {
			arrived = append(arrived, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	e.pending = remaining
	sort.Slice(arrived, func(i, j int) bool { return arrived[i].PID < arrived[j].PID })
	return arrived
}

// dispatch moves the queue head to the processor's current slot. The task
// starts executing on the next tick; StartTime is recorded now if unset.
func (e *Engine) dispatch(p *Processor) {
	t := p.Queue.Dequeue()
	if t == nil {
		return
	}
	if t.RemainingTime <= 0 {
		logrus.Panicf("dispatch: task %s has no remaining work", t.PID)
	}
	t.State = StateRunning
	t.AssignedProcessor = p.ID
	if t.StartTime == TimeUnset {
		t.StartTime = e.tick
	}
	p.Current = t
	e.events.dispatches = append(e.events.dispatches, tickEvent{
		pid: t.PID,
		msg: fmt.Sprintf("Dispatched: %s on CPU %d", t.PID, p.ID),
	})
}

// complete finishes the processor's current task at the current tick.
func (e *Engine) complete(p *Processor) {
	t := p.Current
	t.State = StateFinished
	t.FinishTime = e.tick
	p.Current = nil
	p.ExecutedCount++
	e.completed = append(e.completed, t)
	e.events.completions = append(e.events.completions, tickEvent{
		pid: t.PID,
		msg: fmt.Sprintf("Completed: %s on CPU %d", t.PID, p.ID),
	})
}

// allDrained reports whether every processor is idle with an empty queue.
func (e *Engine) allDrained() bool {
	for _, p := range e.pool {
		if !p.Idle() || p.Queue.Len() > 0 {
			return false
		}
	}
	return true
}

// flushEvents appends this tick's events to the log in fixed group order:
// arrivals, dispatches, migrations, completions, each sorted by PID.
func (e *Engine) flushEvents() {
	for _, group := range [][]tickEvent{
		e.events.arrivals, e.events.dispatches, e.events.migrations, e.events.completions,
	} {
		sort.SliceStable(group, func(i, j int) bool { return group[i].pid < group[j].pid })
		for _, ev := range group {
			e.appendLog(ev.msg)
		}
	}
	e.events = tickEvents{}
}

// appendLog records a timestamped entry. Caller holds the lock.
func (e *Engine) appendLog(msg string) {
	entry := fmt.Sprintf("[tick %d] %s", e.tick, msg)
	e.log = append(e.log, entry)
	logrus.Debug(entry)
}

// Tick returns the current tick counter.
func (e *Engine) Tick() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tick
}

// Running reports whether the tick loop is advancing the simulation.
func (e *Engine) Running() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Finished reports whether all known tasks have completed.
func (e *Engine) Finished() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.finished
}

// Metrics returns the final metrics, or nil while the simulation has not
// finished.
func (e *Engine) Metrics() *Metrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metrics
}
