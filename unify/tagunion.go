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

package unify

import (
	"github.com/tangram-lang/tangram/rows"
	"github.com/tangram-lang/tangram/store"
	"github.com/tangram-lang/tangram/types"
)

type sharedTag struct {
	actual, expected []types.Variable
}

func partitionTags(
	tags1, tags2 map[string][]types.Variable,
) (shared map[string]sharedTag, only1, only2 map[string][]types.Variable) {
	shared = map[string]sharedTag{}
	only1 = map[string][]types.Variable{}
	only2 = map[string][]types.Variable{}
	for name, v := range tags1 {
		if other, ok := tags2[name]; ok {
			shared[name] = sharedTag{actual: v, expected: other}
		} else {
			only1[name] = v
		}
	}
	for name, v := range tags2 {
		if _, ok := tags1[name]; !ok {
			only2[name] = v
		}
	}
	return shared, only1, only2
}

func unionTagVars(a, b map[string][]types.Variable) map[string][]types.Variable {
	out := make(map[string][]types.Variable, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// unifyTagUnion unifies two gathered (tags, ext) tag-union rows, carrying
// whichever recursion variables each side names.
func unifyTagUnion(
	s *store.Store, pool *Pool, ctx Context,
	tags1 map[string][]types.Variable, ext1 types.Variable,
	tags2 map[string][]types.Variable, ext2 types.Variable,
	rec1 types.Variable, hasRec1 bool,
	rec2 types.Variable, hasRec2 bool,
	opts Options,
) Outcome {
	shared, only1, only2 := partitionTags(tags1, tags2)

	var recursionVar types.Variable
	hasRecursion := false
	switch {
	case hasRec1 && hasRec2:
		// The two recursion variables' unification result is
		// deliberately not checked here, carried verbatim from the
		// source: if they disagree it surfaces later, when their
		// payloads are compared tag by tag.
		UnifyPool(s, pool, rec1, rec2, opts)
		recursionVar, hasRecursion = rec1, true
	case hasRec1:
		recursionVar, hasRecursion = rec1, true
	case hasRec2:
		recursionVar, hasRecursion = rec2, true
	}

	switch {
	case len(only1) == 0 && len(only2) == 0:
		extProblems := UnifyPool(s, pool, ext1, ext2, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		tagProblems := unifySharedTags(s, pool, ctx, shared, nil, ext1, recursionVar, hasRecursion, opts)
		return append(tagProblems, extProblems...)

	case len(only1) == 0:
		sub := fresh(s, ctx, types.Structure(types.TagUnion(only2, ext2)), pool)
		extProblems := UnifyPool(s, pool, ext1, sub, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		tagProblems := unifySharedTags(s, pool, ctx, shared, nil, sub, recursionVar, hasRecursion, opts)
		return append(tagProblems, extProblems...)

	case len(only2) == 0:
		sub := fresh(s, ctx, types.Structure(types.TagUnion(only1, ext1)), pool)
		extProblems := UnifyPool(s, pool, sub, ext2, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		tagProblems := unifySharedTags(s, pool, ctx, shared, nil, sub, recursionVar, hasRecursion, opts)
		return append(tagProblems, extProblems...)

	default:
		otherTags := unionTagVars(only1, only2)
		ext := fresh(s, ctx, types.UnnamedFlexVar(), pool)
		sub1 := fresh(s, ctx, types.Structure(types.TagUnion(only1, ext)), pool)
		sub2 := fresh(s, ctx, types.Structure(types.TagUnion(only2, ext)), pool)

		// Roll back the ext unifications on failure so a mismatch
		// reads as "[Blue]a vs [Red, Green]" instead of the fully
		// merged superset "[Blue, Red, Green]a vs [Red, Green]".
		snapshot := s.Snapshot()

		p1 := UnifyPool(s, pool, ext1, sub2, opts)
		if len(p1) != 0 {
			s.RollbackTo(snapshot)
			return p1
		}
		p2 := UnifyPool(s, pool, sub1, ext2, opts)
		if len(p2) != 0 {
			s.RollbackTo(snapshot)
			return p2
		}
		s.CommitSnapshot(snapshot)

		tagProblems := unifySharedTags(s, pool, ctx, shared, otherTags, ext, recursionVar, hasRecursion, opts)
		problems := append(tagProblems, p1...)
		problems = append(problems, p2...)
		return problems
	}
}

// isStructure reports whether var's content is ultimately a Structure,
// chasing through Alias real-vars and peeling an ATTR_ATTR uniqueness
// wrapper to look at what it wraps, rather than treating the wrapper
// itself as structure.
func isStructure(s *store.Store, v types.Variable) bool {
	desc := s.Get(v)
	switch desc.Content.Kind {
	case types.KindAlias:
		return isStructure(s, desc.Content.Real)
	case types.KindStructure:
		if desc.Content.Flat != nil {
			if _, inner, ok := desc.Content.Flat.IsAttrWrapped(); ok {
				return isStructure(s, inner)
			}
		}
		return true
	}
	return false
}

// attrInner reports whether v resolves to Apply(ATTR_ATTR, [u, inner]) and
// returns its two arguments if so.
func attrInner(s *store.Store, v types.Variable) (uniqueness, inner types.Variable, ok bool) {
	desc := s.Get(v)
	if desc.Content.Kind != types.KindStructure || desc.Content.Flat == nil {
		return types.NoVariable, types.NoVariable, false
	}
	return desc.Content.Flat.IsAttrWrapped()
}

// unifySharedTags unifies the underlying payload variables of every tag
// present on both sides, then - only once every shared tag matched -
// merges the result with otherTags and whatever ext's own chase
// contributes, as a single tag-union structure.
func unifySharedTags(
	s *store.Store, pool *Pool, ctx Context,
	shared map[string]sharedTag, otherTags map[string][]types.Variable,
	ext types.Variable, recursionVar types.Variable, hasRecursion bool,
	opts Options,
) Outcome {
	matching := map[string][]types.Variable{}

	for name, pair := range shared {
		if len(pair.actual) != len(pair.expected) {
			// Differing arity: this tag contributes no match at
			// all, not a partial one.
			continue
		}
		matchingVars := make([]types.Variable, 0, len(pair.actual))
		for i := range pair.actual {
			actual, expected := pair.actual[i], pair.expected[i]
			var problems Outcome
			if hasRecursion {
				problems = unifyTagPayload(s, pool, ctx, actual, expected, recursionVar, opts)
			} else {
				problems = UnifyPool(s, pool, actual, expected, opts)
			}
			if len(problems) == 0 {
				matchingVars = append(matchingVars, actual)
			}
		}
		if len(matchingVars) == len(pair.actual) {
			matching[name] = matchingVars
		}
	}

	if len(matching) != len(shared) {
		opts.traceMismatch(ctx, "tag union: %d of %d shared tags matched", len(matching), len(shared))
		return mismatch("tag union tags incompatible")
	}

	tags := unionTagVars(matching, otherTags)
	chased, terminal := rows.GatherTags(s, ext)
	for name, payload := range chased {
		if _, exists := tags[name]; !exists {
			tags[name] = payload
		}
	}

	var flat types.FlatType
	if hasRecursion {
		flat = types.RecursiveTagUnion(recursionVar, tags, terminal)
	} else {
		flat = types.TagUnion(tags, terminal)
	}
	return merge(s, ctx, types.Structure(flat))
}

// unifyTagPayload unifies one (actual, expected) payload pair in the
// presence of a recursion variable, expanding the recursive side one
// unfolding when the non-recursive side is a structure so that e.g.
// `ConsList Int` lines up against `Cons Int (Cons Int Nil)`, while never
// substituting against a bare flex/rigid (which would unfold forever). An
// outer Attr.Attr uniqueness wrapper present on both sides is peeled
// before this logic runs, and restored implicitly since the outer
// unification call still compares the wrapped variables.
func unifyTagPayload(s *store.Store, pool *Pool, ctx Context, actual, expected, rvar types.Variable, opts Options) Outcome {
	_, expectedInner, expectedWrapped := attrInner(s, expected)
	_, actualInner, actualWrapped := attrInner(s, actual)

	if expectedWrapped && actualWrapped {
		switch {
		case s.Equivalent(expectedInner, rvar):
			if s.Equivalent(actualInner, rvar) {
				return UnifyPool(s, pool, actual, expected, opts)
			}
			var problems Outcome
			problems = append(problems, UnifyPool(s, pool, actualInner, ctx.Second, opts)...)
			problems = append(problems, UnifyPool(s, pool, expected, actual, opts)...)
			return problems
		case isStructure(s, actualInner):
			s.ExplicitSubstitute(rvar, ctx.Second, expectedInner)
			return UnifyPool(s, pool, actual, expected, opts)
		default:
			return UnifyPool(s, pool, actual, expected, opts)
		}
	}

	switch {
	case s.Equivalent(expected, rvar):
		if s.Equivalent(actual, rvar) {
			return UnifyPool(s, pool, expected, actual, opts)
		}
		var problems Outcome
		problems = append(problems, UnifyPool(s, pool, actual, ctx.Second, opts)...)
		// Required for layout generation, but produces a worse
		// mismatch message in this branch than the symmetric one
		// above; preserved as-is rather than reordered.
		problems = append(problems, UnifyPool(s, pool, expected, actual, opts)...)
		return problems
	case isStructure(s, actual):
		s.ExplicitSubstitute(rvar, ctx.Second, expected)
		return UnifyPool(s, pool, actual, expected, opts)
	default:
		return UnifyPool(s, pool, actual, expected, opts)
	}
}
