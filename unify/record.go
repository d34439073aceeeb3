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

type sharedRecordField struct {
	actual, expected types.RecordField
}

// partitionFields splits two field maps into the keys shared by both
// (paired) and each side's asymmetric complement - the "unique" set is
// never the symmetric difference; a key found in both always lands in
// shared even if its kinds later turn out incompatible.
func partitionFields(
	fields1, fields2 map[string]types.RecordField,
) (shared map[string]sharedRecordField, only1, only2 map[string]types.RecordField) {
	shared = map[string]sharedRecordField{}
	only1 = map[string]types.RecordField{}
	only2 = map[string]types.RecordField{}
	for name, f := range fields1 {
		if other, ok := fields2[name]; ok {
			shared[name] = sharedRecordField{actual: f, expected: other}
		} else {
			only1[name] = f
		}
	}
	for name, f := range fields2 {
		if _, ok := fields1[name]; !ok {
			only2[name] = f
		}
	}
	return shared, only1, only2
}

func unionRecordFields(a, b map[string]types.RecordField) map[string]types.RecordField {
	out := make(map[string]types.RecordField, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// unifyRecord unifies two gathered (fields, ext) record rows.
func unifyRecord(
	s *store.Store, pool *Pool, ctx Context,
	fields1 map[string]types.RecordField, ext1 types.Variable,
	fields2 map[string]types.RecordField, ext2 types.Variable,
	opts Options,
) Outcome {
	shared, only1, only2 := partitionFields(fields1, fields2)

	switch {
	case len(only1) == 0 && len(only2) == 0:
		extProblems := UnifyPool(s, pool, ext1, ext2, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		fieldProblems := unifySharedFields(s, pool, ctx, shared, nil, ext1, opts)
		return append(fieldProblems, extProblems...)

	case len(only1) == 0:
		sub := fresh(s, ctx, types.Structure(types.Record(only2, ext2)), pool)
		extProblems := UnifyPool(s, pool, ext1, sub, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		fieldProblems := unifySharedFields(s, pool, ctx, shared, nil, sub, opts)
		return append(fieldProblems, extProblems...)

	case len(only2) == 0:
		sub := fresh(s, ctx, types.Structure(types.Record(only1, ext1)), pool)
		extProblems := UnifyPool(s, pool, sub, ext2, opts)
		if len(extProblems) != 0 {
			return extProblems
		}
		fieldProblems := unifySharedFields(s, pool, ctx, shared, nil, sub, opts)
		return append(fieldProblems, extProblems...)

	default:
		otherFields := unionRecordFields(only1, only2)
		ext := fresh(s, ctx, types.UnnamedFlexVar(), pool)
		sub1 := fresh(s, ctx, types.Structure(types.Record(only1, ext)), pool)
		sub2 := fresh(s, ctx, types.Structure(types.Record(only2, ext)), pool)

		p1 := UnifyPool(s, pool, ext1, sub2, opts)
		if len(p1) != 0 {
			return p1
		}
		p2 := UnifyPool(s, pool, sub1, ext2, opts)
		if len(p2) != 0 {
			return p2
		}

		fieldProblems := unifySharedFields(s, pool, ctx, shared, otherFields, ext, opts)
		problems := append(fieldProblems, p1...)
		problems = append(problems, p2...)
		return problems
	}
}

// unifySharedFields unifies the underlying variable of every field present
// on both sides, combines compatible kinds, and - only once every shared
// field matched - merges the result with whatever otherFields and ext's
// own chase contribute, as a single Record structure.
func unifySharedFields(
	s *store.Store, pool *Pool, ctx Context,
	shared map[string]sharedRecordField, otherFields map[string]types.RecordField,
	ext types.Variable, opts Options,
) Outcome {
	matching := map[string]types.RecordField{}

	for name, pair := range shared {
		problems := UnifyPool(s, pool, pair.actual.Var, pair.expected.Var, opts)
		if len(problems) != 0 {
			continue
		}
		kind, ok := types.CombineFieldKinds(pair.actual.Kind, pair.expected.Kind)
		if !ok {
			continue
		}
		matching[name] = types.RecordField{Kind: kind, Var: pair.actual.Var}
	}

	if len(matching) != len(shared) {
		opts.traceMismatch(ctx, "record fields: %d of %d shared fields matched", len(matching), len(shared))
		return mismatch("record fields incompatible")
	}

	fields := unionRecordFields(matching, otherFields)
	chased, terminal := rows.GatherFields(s, ext)
	for name, f := range chased {
		if _, exists := fields[name]; !exists {
			fields[name] = f
		}
	}

	return merge(s, ctx, types.Structure(types.Record(fields, terminal)))
}
