// Package robot models a single cleaning robot confined to a room.
//
// A robot only knows its own position and the room bounds. It does not know
// about the grid state or other robots. Each call to Step draws one direction
// from a Sampler and applies it with boundary clamping:
//
//   - right: allowed while x < xMax
//   - left:  allowed while x >= 1
//   - up:    allowed while y < yMax
//   - down:  allowed while y >= 1
//
// A disallowed move leaves the robot where it is for that tick.
package robot
