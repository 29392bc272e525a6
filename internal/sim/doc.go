// Package sim drives the cleaning simulation.
//
// An Engine owns a room grid and a set of robots. Each tick:
//
//  1. every robot takes one step drawn from the engine's Sampler
//  2. every robot position is reconciled against the grid; a dirty cell
//     becomes clean and the cleaned counter grows by exactly one
//  3. coverage is recomputed as cleaned / total * 100
//  4. the termination request is evaluated
//  5. a Snapshot is handed to the Renderer; the final snapshot has Done set
//
// Rendering happens after every tick value is computed, so a renderer can
// never change the outcome of a tick.
//
// # Termination
//
// A Request is either ModeTime (run for Value seconds) or ModePercentage
// (run until Value percent of the room is clean). Once the request is met
// the engine moves to StateDone and no further ticks are processed.
//
// # Timing
//
// Elapsed time is wall-clock time since Run started, sampled once per tick
// after reconciliation. It includes pacing waits from earlier ticks but
// never the wait that follows the current tick. The same sample feeds the
// snapshot and the termination check.
//
// # Rendering
//
// Render failures are logged and otherwise ignored. WithFatalRenderErrors
// makes Run stop with an error wrapping ErrRendering instead.
package sim
