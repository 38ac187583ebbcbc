// Defines the Task struct that models an individual compute task in the simulation.
// Tracks arrival, burst and remaining work, placement, and start/finish timestamps.

package sim

import (
	"fmt"
)

// TaskState represents the lifecycle state of a task.
type TaskState string

const (
	// StatePending means the task exists but its arrival tick has not been reached.
	StatePending TaskState = "pending"
	// StateQueued means the task sits in a processor's ready queue.
	StateQueued TaskState = "queued"
	// StateRunning means the task is the current task of a processor.
	StateRunning TaskState = "running"
	// StateFinished means the task has consumed all of its burst time.
	StateFinished TaskState = "finished"
)

// TimeUnset marks a start/finish timestamp that has not been recorded yet.
const TimeUnset int64 = -1

// Task models a single task's lifecycle in the simulation.
// Each task has:
// - a unique PID (caller-supplied or auto-generated)
// - an arrival tick at which it becomes eligible to run
// - a fixed burst time and a monotonically decreasing remaining time
// - placement and timing fields filled in as the engine advances
type Task struct {
	PID           string    // Unique identifier for the task
	ArrivalTime   int64     // Tick at which the task becomes eligible to run
	BurstTime     int64     // Total work units required, fixed at creation
	RemainingTime int64     // Work units left, initialized to BurstTime
	State         TaskState // pending, queued, running, finished

	AssignedProcessor int   // Processor ID the task was placed on (0 until placed)
	StartTime         int64 // Tick the task first began executing (TimeUnset until then)
	FinishTime        int64 // Tick RemainingTime reached 0 (TimeUnset until then)
}

// NewTask creates a task in the Pending state with its full burst remaining.
func NewTask(pid string, arrivalTime, burstTime int64) *Task {
	return &Task{
		PID:           pid,
		ArrivalTime:   arrivalTime,
		BurstTime:     burstTime,
		RemainingTime: burstTime,
		State:         StatePending,
		StartTime:     TimeUnset,
		FinishTime:    TimeUnset,
	}
}

// WaitingTime returns the ticks the task spent queued before first execution.
// Only meaningful for finished tasks.
func (t *Task) WaitingTime() int64 {
	return t.StartTime - t.ArrivalTime
}

// TurnaroundTime returns the ticks from arrival to completion.
// Only meaningful for finished tasks.
func (t *Task) TurnaroundTime() int64 {
	return t.FinishTime - t.ArrivalTime
}

func (t *Task) String() string {
	return fmt.Sprintf("%s[%s rem=%d]", t.PID, t.State, t.RemainingTime)
}
