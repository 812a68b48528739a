// Package physics provides the reaction-diffusion models stepped by the
// simulation.
//
// [GrayScott] implements the two-species Gray-Scott model on a
// [field.Pair]: A is consumed by the autocatalytic reaction A + 2B -> 3B,
// fed back at the feed rate, and B is removed at the kill rate.
//
//	gs := physics.NewGrayScott()
//	gs.Step(pair) // writes next buffers
//	pair.Swap()
//
// Models implement [Configurable] for runtime parameter adjustment.
package physics
