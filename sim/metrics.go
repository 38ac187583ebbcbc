// Tracks end-of-run performance metrics: per-task waiting and turnaround
// times, per-processor utilization, and the utilization variance that
// quantifies load-balance quality (lower is better balanced).

package sim

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about a finished simulation for reporting.
// Computed once, from completed task records and per-processor busy ticks.
type Metrics struct {
	AvgWaitingTime    float64   `json:"avg_waiting_time"`
	AvgTurnaroundTime float64   `json:"avg_turnaround_time"`
	CPUUtilization    []float64 `json:"cpu_utilization"` // percent, one per processor
	Variance          float64   `json:"variance"`        // population variance of utilizations
}

// ComputeMetrics derives the final metrics. finalTick is the tick counter
// value at the moment the simulation finished; a value of 0 is clamped to 1
// to keep the utilization quotient defined.
func ComputeMetrics(completed []*Task, pool []*Processor, finalTick int64) *Metrics {
	m := &Metrics{}

	if len(completed) > 0 {
		waits := make([]float64, len(completed))
		turnarounds := make([]float64, len(completed))
		for i, t := range completed {
			waits[i] = float64(t.WaitingTime())
			turnarounds[i] = float64(t.TurnaroundTime())
		}
		m.AvgWaitingTime = round2(stat.Mean(waits, nil))
		m.AvgTurnaroundTime = round2(stat.Mean(turnarounds, nil))
	}

	if finalTick <= 0 {
		finalTick = 1
	}
	utils := make([]float64, len(pool))
	for i, p := range pool {
		utils[i] = float64(p.BusyTicks) / float64(finalTick) * 100
	}
	m.Variance = round2(stat.PopVariance(utils, nil))

	m.CPUUtilization = make([]float64, len(utils))
	for i, u := range utils {
		m.CPUUtilization[i] = round2(u)
	}
	return m
}

// Print displays the metrics at the end of a headless run.
func (m *Metrics) Print(finalTick int64, elapsed time.Duration) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Final Tick           : %d\n", finalTick)
	fmt.Printf("Average Waiting Time : %.2f ticks\n", m.AvgWaitingTime)
	fmt.Printf("Average Turnaround   : %.2f ticks\n", m.AvgTurnaroundTime)
	for i, u := range m.CPUUtilization {
		fmt.Printf("CPU %d Utilization    : %.2f%%\n", i+1, u)
	}
	fmt.Printf("Load Variance        : %.2f\n", m.Variance)
	fmt.Printf("Wall Clock           : %v\n", elapsed)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
