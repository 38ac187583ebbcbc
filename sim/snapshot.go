// Builds the externally visible read-only view of the simulation.
// Snapshot is a pure projection: it copies everything it exposes, mutates
// nothing, and is safe to call concurrently with an in-progress tick.

package sim

import (
	"sort"
)

// ProcessorView is the per-processor slice of a Snapshot.
type ProcessorView struct {
	ID            int     `json:"id"`
	Current       *string `json:"current"` // PID of the executing task, null if idle
	QueueLength   int     `json:"queue_length"`
	ExecutedCount int     `json:"executed_count"`
}

// TaskView describes one non-finished task.
type TaskView struct {
	PID           string `json:"pid"`
	ArrivalTime   int64  `json:"arrival_time"`
	BurstTime     int64  `json:"burst_time"`
	RemainingTime int64  `json:"remaining_time"`
}

// CompletedView is the per-task detail record exposed once the run finished.
type CompletedView struct {
	PID        string `json:"pid"`
	Arrival    int64  `json:"arrival"`
	Burst      int64  `json:"burst"`
	Start      int64  `json:"start"`
	Finish     int64  `json:"finish"`
	Waiting    int64  `json:"waiting"`
	Turnaround int64  `json:"turnaround"`
}

// Snapshot is the only state exposed to external readers.
type Snapshot struct {
	Tick             int64           `json:"tick"`
	Running          bool            `json:"running"`
	Finished         bool            `json:"finished"`
	Processors       []ProcessorView `json:"processors"`
	ActiveTasks      []TaskView      `json:"active_tasks"`
	Metrics          *Metrics        `json:"metrics,omitempty"`
	CompletedDetails []CompletedView `json:"completed_details,omitempty"`
	Log              []string        `json:"log"`
}

// Snapshot assembles the current view under a read lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		Tick:     e.tick,
		Running:  e.running,
		Finished: e.finished,
	}

	snap.Processors = make([]ProcessorView, len(e.pool))
	for i, p := range e.pool {
		view := ProcessorView{
			ID:            p.ID,
			QueueLength:   p.Queue.Len(),
			ExecutedCount: p.ExecutedCount,
		}
		if p.Current != nil {
			pid := p.Current.PID
			view.Current = &pid
		}
		snap.Processors[i] = view
	}

	snap.ActiveTasks = make([]TaskView, 0)
	for _, t := range e.registry {
		if t.State == StateFinished {
			continue
		}
		snap.ActiveTasks = append(snap.ActiveTasks, TaskView{
			PID:           t.PID,
			ArrivalTime:   t.ArrivalTime,
			BurstTime:     t.BurstTime,
			RemainingTime: t.RemainingTime,
		})
	}
	sort.Slice(snap.ActiveTasks, func(i, j int) bool {
		a, b := snap.ActiveTasks[i], snap.ActiveTasks[j]
		if a.ArrivalTime != b.ArrivalTime {
			return a.ArrivalTime < b.ArrivalTime
		}
		return a.PID < b.PID
	})

	if e.finished {
		snap.Metrics = e.metrics

		snap.CompletedDetails = make([]CompletedView, len(e.completed))
		for i, t := range e.completed {
			snap.CompletedDetails[i] = CompletedView{
				PID:        t.PID,
				Arrival:    t.ArrivalTime,
				Burst:      t.BurstTime,
				Start:      t.StartTime,
				Finish:     t.FinishTime,
				Waiting:    t.WaitingTime(),
				Turnaround: t.TurnaroundTime(),
			}
		}
		sort.Slice(snap.CompletedDetails, func(i, j int) bool {
			a, b := snap.CompletedDetails[i], snap.CompletedDetails[j]
			if a.Arrival != b.Arrival {
				return a.Arrival < b.Arrival
			}
			return a.PID < b.PID
		})
	}

	start := 0
	if excess := len(e.log) - e.cfg.LogLimit; excess > 0 {
		start = excess
	}
	snap.Log = append([]string(nil), e.log[start:]...)
	if snap.Log == nil {
		snap.Log = []string{}
	}

	return snap
}
