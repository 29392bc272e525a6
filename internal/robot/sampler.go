package robot

import "math/rand/v2"

// Sampler chooses the next direction for a robot at a given position.
type Sampler interface {
	Sample(pos Position) Direction
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(pos Position) Direction

// Sample calls f(pos).
func (f SamplerFunc) Sample(pos Position) Direction {
	return f(pos)
}

// RandomSampler draws directions uniformly from a seeded PCG source.
type RandomSampler struct {
	rnd *rand.Rand
}

// NewRandomSampler returns a uniform sampler. The same seed always yields
// the same direction sequence.
func NewRandomSampler(seed uint64) *RandomSampler {
	return &RandomSampler{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Sample ignores pos; movement is uniformly random.
func (s *RandomSampler) Sample(Position) Direction {
	return Directions[s.rnd.IntN(len(Directions))]
}

// ScriptedSampler replays a fixed sequence of directions, wrapping around
// when it runs out. Like the engine that drives it, it is not safe for
// concurrent use.
type ScriptedSampler struct {
	steps []Direction
	next  int
}

// NewScriptedSampler returns a sampler that yields steps in order.
// An empty script always yields Up.
func NewScriptedSampler(steps ...Direction) *ScriptedSampler {
	return &ScriptedSampler{steps: append([]Direction(nil), steps...)}
}

// Sample returns the next scripted direction.
func (s *ScriptedSampler) Sample(Position) Direction {
	if len(s.steps) == 0 {
		return Up
	}
	d := s.steps[s.next%len(s.steps)]
	s.next++
	return d
}

// Drawn returns how many directions have been sampled so far.
func (s *ScriptedSampler) Drawn() int {
	return s.next
}
