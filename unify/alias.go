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
	"github.com/tangram-lang/tangram/store"
	"github.com/tangram-lang/tangram/types"
)

// unifyAlias handles a named-alias left side.
//
// The same-symbol branch unifies the alias heads' arguments pairwise and
// then merges to the other side's alias form, but does not additionally
// recurse on the real variables; a differing-symbol pair instead recurses
// on real ~ other.real without comparing arguments at all. This is a known,
// deliberate incompleteness: an alias head argument pair only gets unified
// against its own real variable's eventual shape through whatever the
// caller separately unifies, not through this function.
func unifyAlias(s *store.Store, pool *Pool, ctx Context, opts Options) Outcome {
	first := ctx.FirstDesc.Content
	other := ctx.SecondDesc.Content

	switch other.Kind {
	case types.KindFlexVar:
		// Alias wins; keep the head for diagnostics.
		return merge(s, ctx, types.Alias(first.Symbol, first.Args, first.Real))
	case types.KindRigidVar:
		return UnifyPool(s, pool, first.Real, ctx.Second, opts)
	case types.KindAlias:
		if first.Symbol == other.Symbol {
			if len(first.Args) != len(other.Args) {
				opts.traceMismatch(ctx, "alias %s arity %d vs %d", first.Symbol, len(first.Args), len(other.Args))
				return mismatch("alias arity mismatch")
			}
			var problems Outcome
			for i := range first.Args {
				problems = append(problems, UnifyPool(s, pool, first.Args[i].Var, other.Args[i].Var, opts)...)
			}
			problems = append(problems, merge(s, ctx, other)...)
			return problems
		}
		return UnifyPool(s, pool, first.Real, other.Real, opts)
	case types.KindStructure:
		return UnifyPool(s, pool, first.Real, ctx.Second, opts)
	case types.KindError:
		return merge(s, ctx, types.ErrorContent())
	}
	opts.traceMismatch(ctx, "alias vs unrecognized content kind %s", other.Kind)
	return mismatch("alias vs unrecognized content kind")
}
