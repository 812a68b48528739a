// Package analysis inspects recorded metric series and parameter sweeps.
//
//   - [PowerSpectrum] and [DominantPeriod]: periodicity of a sampled series,
//     such as coverage rising and collapsing with each dissolve
//   - [Summarize]: min, max, mean, deviation and final value
//   - [Sweep]: final metrics across a range of one Gray-Scott parameter
package analysis
