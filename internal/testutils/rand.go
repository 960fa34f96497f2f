// Package testutils holds deterministic fakes shared by package tests.
package testutils

import "sync"

// MockRand replays scripted values. Once a queue is drained it keeps
// returning the matching default (ValInt / ValFloat).
type MockRand struct {
	Mu       sync.Mutex
	Ints     []int
	Floats   []float64
	ValInt   int
	ValFloat float64
}

// Intn returns the next scripted int, clamped into [0, n).
func (m *MockRand) Intn(n int) int {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	v := m.ValInt
	if len(m.Ints) > 0 {
		v = m.Ints[0]
		m.Ints = m.Ints[1:]
	}
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

// Float64 returns the next scripted float.
func (m *MockRand) Float64() float64 {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if len(m.Floats) > 0 {
		v := m.Floats[0]
		m.Floats = m.Floats[1:]
		return v
	}
	return m.ValFloat
}

// ZeroNoise returns a MockRand whose Float64 yields 0.5, i.e. no price noise.
func ZeroNoise() *MockRand {
	return &MockRand{ValFloat: 0.5}
}
