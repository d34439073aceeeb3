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

// unifyStructure handles a concrete type-constructor application on the
// left.
func unifyStructure(s *store.Store, pool *Pool, ctx Context, opts Options) Outcome {
	flat := ctx.FirstDesc.Content.Flat
	other := ctx.SecondDesc.Content

	switch other.Kind {
	case types.KindFlexVar:
		// If the other is flex, structure wins.
		return merge(s, ctx, types.Structure(*flat))
	case types.KindRigidVar:
		opts.traceMismatch(ctx, "structure %s vs rigid %s", flat, other.Name)
		return mismatch("rigid var can only unify with flex")
	case types.KindStructure:
		return unifyFlatType(s, pool, ctx, *flat, *other.Flat, opts)
	case types.KindAlias:
		return UnifyPool(s, pool, ctx.First, other.Real, opts)
	case types.KindError:
		return merge(s, ctx, types.ErrorContent())
	}
	opts.traceMismatch(ctx, "structure vs unrecognized content kind %s", other.Kind)
	return mismatch("structure vs unrecognized content kind")
}

// hasOnlyOptionalFields reports whether every field in fields is Optional,
// the condition under which a record can unify with EmptyRecord outright.
func hasOnlyOptionalFields(fields map[string]types.RecordField) bool {
	for _, f := range fields {
		if f.Kind != types.FieldOptional {
			return false
		}
	}
	return true
}

// unifyFlatType is the case table over pairs of flat types.
func unifyFlatType(s *store.Store, pool *Pool, ctx Context, left, right types.FlatType, opts Options) Outcome {
	switch {
	case left.Kind == types.KindEmptyRecord && right.Kind == types.KindEmptyRecord:
		return merge(s, ctx, types.Structure(left))

	case left.Kind == types.KindRecord && right.Kind == types.KindEmptyRecord && hasOnlyOptionalFields(left.Fields):
		return UnifyPool(s, pool, left.Ext, ctx.Second, opts)

	case left.Kind == types.KindEmptyRecord && right.Kind == types.KindRecord && hasOnlyOptionalFields(right.Fields):
		return UnifyPool(s, pool, ctx.First, right.Ext, opts)

	case left.Kind == types.KindRecord && right.Kind == types.KindRecord:
		fields1, ext1 := rows.GatherFields(s, left.Ext)
		fields2, ext2 := rows.GatherFields(s, right.Ext)
		for k, v := range left.Fields {
			fields1[k] = v
		}
		for k, v := range right.Fields {
			fields2[k] = v
		}
		return unifyRecord(s, pool, ctx, fields1, ext1, fields2, ext2, opts)

	case left.Kind == types.KindEmptyTagUnion && right.Kind == types.KindEmptyTagUnion:
		return merge(s, ctx, types.Structure(left))

	case left.Kind == types.KindTagUnion && right.Kind == types.KindEmptyTagUnion && len(left.Tags) == 0:
		return UnifyPool(s, pool, left.Ext, ctx.Second, opts)

	case left.Kind == types.KindEmptyTagUnion && right.Kind == types.KindTagUnion && len(right.Tags) == 0:
		return UnifyPool(s, pool, ctx.First, right.Ext, opts)

	case left.Kind == types.KindTagUnion && right.Kind == types.KindTagUnion:
		tags1, ext1 := rows.GatherTags(s, left.Ext)
		tags2, ext2 := rows.GatherTags(s, right.Ext)
		mergeTagMaps(tags1, left.Tags)
		mergeTagMaps(tags2, right.Tags)
		return unifyTagUnion(s, pool, ctx, tags1, ext1, tags2, ext2, types.NoVariable, false, types.NoVariable, false, opts)

	case left.Kind == types.KindRecursiveTagUnion && right.Kind == types.KindTagUnion:
		tags1, ext1 := rows.GatherTags(s, left.Ext)
		tags2, ext2 := rows.GatherTags(s, right.Ext)
		mergeTagMaps(tags1, left.Tags)
		mergeTagMaps(tags2, right.Tags)
		return unifyTagUnion(s, pool, ctx, tags1, ext1, tags2, ext2, left.Rec, true, types.NoVariable, false, opts)

	case left.Kind == types.KindTagUnion && right.Kind == types.KindRecursiveTagUnion:
		tags1, ext1 := rows.GatherTags(s, left.Ext)
		tags2, ext2 := rows.GatherTags(s, right.Ext)
		mergeTagMaps(tags1, left.Tags)
		mergeTagMaps(tags2, right.Tags)
		return unifyTagUnion(s, pool, ctx, tags1, ext1, tags2, ext2, types.NoVariable, false, right.Rec, true, opts)

	case left.Kind == types.KindRecursiveTagUnion && right.Kind == types.KindRecursiveTagUnion:
		tags1, ext1 := rows.GatherTags(s, left.Ext)
		tags2, ext2 := rows.GatherTags(s, right.Ext)
		mergeTagMaps(tags1, left.Tags)
		mergeTagMaps(tags2, right.Tags)
		return unifyTagUnion(s, pool, ctx, tags1, ext1, tags2, ext2, left.Rec, true, right.Rec, true, opts)

	case left.Kind == types.KindFunc && right.Kind == types.KindFunc && len(left.Args) == len(right.Args):
		var argProblems, retProblems, closureProblems Outcome
		for i := range left.Args {
			argProblems = append(argProblems, UnifyPool(s, pool, left.Args[i], right.Args[i], opts)...)
		}
		retProblems = UnifyPool(s, pool, left.Ret, right.Ret, opts)
		closureProblems = UnifyPool(s, pool, left.Closure, right.Closure, opts)
		if len(argProblems) == 0 && len(retProblems) == 0 && len(closureProblems) == 0 {
			return merge(s, ctx, types.Structure(types.Func(right.Args, right.Closure, right.Ret)))
		}
		var problems Outcome
		problems = append(problems, retProblems...)
		problems = append(problems, closureProblems...)
		problems = append(problems, argProblems...)
		return problems

	case left.Kind == types.KindApply && right.Kind == types.KindApply && left.Symbol == right.Symbol:
		problems := unifyZip(s, pool, left.Args, right.Args, opts)
		if len(problems) == 0 {
			return merge(s, ctx, types.Structure(types.Apply(right.Symbol, right.Args)))
		}
		return problems

	case left.Kind == types.KindBoolean && right.Kind == types.KindBoolean:
		return unifyBool(s, pool, ctx, *left.Bool, *right.Bool, opts)
	}

	opts.traceMismatch(ctx, "incompatible flat types %s ~ %s", left, right)
	return mismatch("incompatible flat types")
}

func unifyZip(s *store.Store, pool *Pool, left, right []types.Variable, opts Options) Outcome {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	var problems Outcome
	for i := 0; i < n; i++ {
		problems = append(problems, UnifyPool(s, pool, left[i], right[i], opts)...)
	}
	return problems
}

// mergeTagMaps folds a node's own immediate tags into the map its
// extension chase already gathered, overwriting any duplicate key - the
// node's own tags are the gather's starting accumulator, so they take
// precedence over anything discovered further down the extension chain,
// the same precedence GatherFields gives a record's own fields.
func mergeTagMaps(dst, src map[string][]types.Variable) {
	for k, v := range src {
		dst[k] = v
	}
}
