// Package parallel runs many independent simulations concurrently and
// aggregates their reports.
//
// It provides:
//   - WorkerPool: bounded concurrency pool for simulation runs
//   - RunBatch: seeded, headless Monte Carlo runs of one room with summary
//     statistics over the reports
package parallel
