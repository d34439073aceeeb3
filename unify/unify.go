// Tangram
// Copyright (C) 2024+ the tangram project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package unify is the type unifier: given two variables in a shared
// store, it decides whether their described types can be made structurally
// equal, mutating the store on success or projecting error types on
// failure. It is the algebraic core the rest of a Hindley-Milner type
// checker depends on.
package unify

import (
	"github.com/tangram-lang/tangram/errtype"
	"github.com/tangram-lang/tangram/store"
	"github.com/tangram-lang/tangram/types"
)

// MismatchKind tags why a pairwise comparison failed. TypeMismatch is the
// sole tag currently produced; arity, field-kind, and recursion failures
// are all expressed as TypeMismatch today; richer tags are anticipated but
// not yet needed by any caller.
type MismatchKind int

const (
	TypeMismatch MismatchKind = iota
)

func (k MismatchKind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	}
	return "MismatchKind(?)"
}

// Mismatch is a single structural-incompatibility datum. A non-empty slice
// of Mismatch means the unification that produced it has failed.
type Mismatch struct {
	Kind MismatchKind
	// Detail is a short, non-localized description for debug traces; the
	// reporting subsystem never reads it directly, it re-derives
	// messages from the projected ErrorTypes instead.
	Detail string
}

// Outcome is the accumulator every specialized unifier returns: an empty
// slice signals success.
type Outcome = []Mismatch

func mismatch(detail string) Outcome {
	return Outcome{{Kind: TypeMismatch, Detail: detail}}
}

// Pool collects the fresh variables a unification registers, so the caller
// can fold them into its rank bookkeeping.
type Pool = []types.Variable

// UnifiedKind tags which Unified variant is populated.
type UnifiedKind int

const (
	// Success: pool is the list of freshly registered variables the
	// caller must add to its rank pool.
	Success UnifiedKind = iota
	// Failure: both inputs are now linked to Error; ErrA/ErrB carry the
	// projected error types for diagnostics.
	Failure
	// BadType: projection itself surfaced a Problem, used when the
	// input was already malformed; takes priority over Failure.
	BadType
)

func (k UnifiedKind) String() string {
	switch k {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case BadType:
		return "BadType"
	}
	return "UnifiedKind(?)"
}

// Unified is the top-level result of Unify.
type Unified struct {
	Kind UnifiedKind
	Pool Pool

	// ErrA and ErrB are populated on Failure.
	ErrA errtype.ErrorType
	ErrB errtype.ErrorType

	// Problem is populated on BadType.
	Problem errtype.Problem
}

// Context is the pair of descriptors under comparison for one dispatch
// step, re-fetched fresh at every recursive call since a prior step may
// have mutated either side's descriptor.
type Context struct {
	First      types.Variable
	FirstDesc  types.Descriptor
	Second     types.Variable
	SecondDesc types.Descriptor
}

// Unify is the top-level entry point: unify two variables, mutating s on
// success, poisoning both to Error and projecting diagnostics on failure.
func Unify(s *store.Store, a, b types.Variable, opts Options) Unified {
	var pool Pool
	mismatches := UnifyPool(s, &pool, a, b, opts)

	if len(mismatches) == 0 {
		return Unified{Kind: Success, Pool: pool}
	}

	errA, problems := s.VarToErrorType(a)
	errB, problemsB := s.VarToErrorType(b)
	problems = append(problems, problemsB...)

	s.Union(a, b, types.Descriptor{Content: types.ErrorContent(), Mark: types.MarkNone})

	if len(problems) > 0 {
		return Unified{Kind: BadType, Pool: pool, Problem: problems[0]}
	}
	return Unified{Kind: Failure, Pool: pool, ErrA: errA, ErrB: errB}
}

// UnifyPool is the re-entrant form used by callers, and by the unifier
// itself, that already own a pool: it never projects error types or
// poisons variables on failure - only the top-level Unify does that - so
// it is safe to call from deep inside a recursive unification.
func UnifyPool(s *store.Store, pool *Pool, a, b types.Variable, opts Options) Outcome {
	if s.Equivalent(a, b) {
		return nil
	}
	ctx := Context{
		First:      a,
		FirstDesc:  s.Get(a),
		Second:     b,
		SecondDesc: s.Get(b),
	}
	return unifyContext(s, pool, ctx, opts)
}

// unifyContext is the structural dispatcher: it branches on the first
// side's content kind and routes to the matching specialized unifier.
func unifyContext(s *store.Store, pool *Pool, ctx Context, opts Options) Outcome {
	switch ctx.FirstDesc.Content.Kind {
	case types.KindFlexVar:
		return unifyFlex(s, pool, ctx, opts)
	case types.KindRigidVar:
		return unifyRigid(s, pool, ctx, opts)
	case types.KindStructure:
		return unifyStructure(s, pool, ctx, opts)
	case types.KindAlias:
		return unifyAlias(s, pool, ctx, opts)
	case types.KindError:
		// Error propagates. Whatever it's compared against doesn't
		// matter.
		return merge(s, ctx, types.ErrorContent())
	}
	opts.traceMismatch(ctx, "unrecognized content kind %s", ctx.FirstDesc.Content.Kind)
	return mismatch("unrecognized content kind")
}
