package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finishedTask(pid string, arrival, burst, start, finish int64) *Task {
	t := NewTask(pid, arrival, burst)
	t.RemainingTime = 0
	t.State = StateFinished
	t.StartTime = start
	t.FinishTime = finish
	return t
}

func TestComputeMetrics_AveragesAndUtilization(t *testing.T) {
	pool := NewProcessorPool(4)
	pool[0].BusyTicks = 3
	pool[1].BusyTicks = 2

	completed := []*Task{
		finishedTask("P1", 0, 3, 0, 3),
		finishedTask("P2", 0, 2, 0, 2),
	}

	m := ComputeMetrics(completed, pool, 4)
	assert.Equal(t, 0.0, m.AvgWaitingTime)
	assert.Equal(t, 2.5, m.AvgTurnaroundTime)
	require.Len(t, m.CPUUtilization, 4)
	assert.Equal(t, 75.0, m.CPUUtilization[0])
	assert.Equal(t, 50.0, m.CPUUtilization[1])
	assert.Equal(t, 0.0, m.CPUUtilization[2])
	assert.Equal(t, 0.0, m.CPUUtilization[3])
}

func TestComputeMetrics_PopulationVariance(t *testing.T) {
	// Utilizations 100, 50, 50, 0: mean 50, population variance
	// (2500 + 0 + 0 + 2500) / 4 = 1250.
	pool := NewProcessorPool(4)
	pool[0].BusyTicks = 10
	pool[1].BusyTicks = 5
	pool[2].BusyTicks = 5
	pool[3].BusyTicks = 0

	m := ComputeMetrics(nil, pool, 10)
	assert.Equal(t, 1250.0, m.Variance)
}

func TestComputeMetrics_ZeroVarianceWhenBalanced(t *testing.T) {
	pool := NewProcessorPool(4)
	for _, p := range pool {
		p.BusyTicks = 7
	}
	m := ComputeMetrics(nil, pool, 10)
	assert.Equal(t, 0.0, m.Variance)
}

func TestComputeMetrics_NoCompletedTasks(t *testing.T) {
	pool := NewProcessorPool(4)
	m := ComputeMetrics(nil, pool, 5)
	assert.Equal(t, 0.0, m.AvgWaitingTime)
	assert.Equal(t, 0.0, m.AvgTurnaroundTime)
}

func TestComputeMetrics_ClampsZeroFinalTick(t *testing.T) {
	pool := NewProcessorPool(2)
	pool[0].BusyTicks = 0
	m := ComputeMetrics(nil, pool, 0)
	assert.Equal(t, 0.0, m.CPUUtilization[0])
}

func TestComputeMetrics_Rounding(t *testing.T) {
	// One busy tick over three: 33.333...% must round to 33.33.
	pool := NewProcessorPool(1)
	pool[0].BusyTicks = 1
	m := ComputeMetrics(nil, pool, 3)
	assert.Equal(t, 33.33, m.CPUUtilization[0])
}

func TestTaskDerivedTimes(t *testing.T) {
	task := finishedTask("P1", 2, 3, 4, 7)
	assert.Equal(t, int64(2), task.WaitingTime())
	assert.Equal(t, int64(5), task.TurnaroundTime())
}
