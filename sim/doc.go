// Package sim provides the tick-stepped simulation engine for dynamic load
// balancing of compute tasks across a fixed processor pool.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - task.go: Task lifecycle (pending → queued → running → finished)
//   - processor.go: Processor slots and their FIFO ready queues
//   - engine.go: The tick loop, arrivals, dispatch, completion, and the
//     single-lock concurrency model
//
// # Key Interfaces
//
// Strategy is the one extension point: Place assigns an arriving task to a
// processor and Rebalance optionally migrates queued tasks. Three
// implementations live in strategy.go (round robin, least loaded,
// threshold-based migration).
//
// The engine is driven either in real time (Run, a ticker loop) or
// synchronously (Step, used by headless scenario runs and tests). All reads
// go through Snapshot, a pure projection of engine state.
package sim
