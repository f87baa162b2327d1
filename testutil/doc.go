// Package testutil provides testing utilities for nindex.
//
// This package is intended for use in tests and benchmarks only. It provides
// a seeded, thread-safe RNG with helpers for generating key permutations and
// randomized insert/delete workloads.
//
//	rng := testutil.NewRNG(4711)
//	keys := rng.Perm(1000)           // insertion order
//	ops := rng.Ops(5000, 200, 0.3)   // mixed workload over keys [0, 200)
//	hot := rng.Zipf(200, 1.5)        // skewed key
package testutil
