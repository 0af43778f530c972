// Copyright ©2024 The Revsimplex Authors. All rights reserved.

// Package simplex implements the numerical core of a revised-simplex
// linear-programming solver: basis factorization (LU plus a chain of eta
// updates, i.e. the product form of the inverse), FTRAN/BTRAN triangular
// solves, Dantzig and steepest-edge pricing, the Harris two-pass ratio
// test, the pivot operation, and the top-level iteration loop with
// anti-cycling perturbation and scheduled refactorization.
//
// The package assumes a fully-assembled linear program in memory (see
// Model) and returns a fully-populated Result; model construction, file
// I/O, presolve, and MIP/quadratic extensions are external collaborators
// and out of scope here.
package simplex
