// Implements the TaskQueue and Processor types. Each processor owns a FIFO
// ready queue of tasks plus at most one currently executing task.

package sim

import (
	"fmt"
	"strings"
)

// TaskQueue represents a FIFO queue of tasks waiting on a single processor.
// Ordering is FIFO unless the Threshold strategy migrates a tail task away.
type TaskQueue struct {
	queue []*Task
}

// Enqueue adds a task to the back of the queue.
func (q *TaskQueue) Enqueue(t *Task) {
	q.queue = append(q.queue, t)
}

// Dequeue removes and returns the task at the front of the queue.
// Returns nil if the queue is empty.
func (q *TaskQueue) Dequeue() *Task {
	if len(q.queue) == 0 {
		return nil
	}
	head := q.queue[0]
	q.queue = q.queue[1:]
	return head
}

// RemoveTail removes and returns the task at the back of the queue.
// Used for migration: the tail-most task has waited the least and is the
// cheapest to move without disturbing FIFO fairness for the rest.
// Returns nil if the queue is empty.
func (q *TaskQueue) RemoveTail() *Task {
	if len(q.queue) == 0 {
		return nil
	}
	tail := q.queue[len(q.queue)-1]
	q.queue = q.queue[:len(q.queue)-1]
	return tail
}

// Len returns the number of tasks in the queue.
func (q *TaskQueue) Len() int {
	return len(q.queue)
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (q *TaskQueue) Items() []*Task {
	return q.queue
}

func (q *TaskQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, t := range q.queue {
		sb.WriteString(fmt.Sprint(t))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Processor models one processor slot in the fixed pool.
// Only its queue, current task and counters mutate during a run; identity is
// fixed at pool construction.
type Processor struct {
	ID            int       // 1-based processor identifier
	Queue         TaskQueue // ready queue of placed tasks
	Current       *Task     // at most one currently executing task
	ExecutedCount int       // tasks fully completed on this processor
	BusyTicks     int64     // ticks spent with a non-idle current task
}

// NewProcessorPool creates n processors with IDs 1..n.
func NewProcessorPool(n int) []*Processor {
	pool := make([]*Processor, n)
	for i := range pool {
		pool[i] = &Processor{ID: i + 1}
	}
	return pool
}

// RemainingWork returns the total remaining work units on this processor:
// the sum over its queue plus the current task (0 if idle).
// Used by the LeastLoaded and Threshold strategies for placement decisions.
func (p *Processor) RemainingWork() int64 {
	var total int64
	for _, t := range p.Queue.Items() {
		total += t.RemainingTime
	}
	if p.Current != nil {
		total += p.Current.RemainingTime
	}
	return total
}

// Idle reports whether the processor has no current task.
func (p *Processor) Idle() bool {
	return p.Current == nil
}
