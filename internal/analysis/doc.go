// Package analysis inspects metric series recorded by headless runs.
//
// Particles released from rest fall through the center and swing back
// out, so metrics such as mean distance oscillate. [DominantFrequency]
// recovers the strongest oscillation from a uniformly sampled series:
//
//	f, err := analysis.DominantFrequency(series["mean_distance"], dt)
package analysis
