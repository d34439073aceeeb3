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

// unifyFlex handles an unsolved left side. An unnamed flex on the right
// keeps the left's name hint; everything else - a named flex, a rigid, a
// structure, an alias - wins outright, since an unsolved variable defers
// to anything more specific, including adopting the right's name if both
// sides are flex and named.
func unifyFlex(s *store.Store, pool *Pool, ctx Context, opts Options) Outcome {
	other := ctx.SecondDesc.Content
	switch other.Kind {
	case types.KindFlexVar:
		if !other.HasName {
			return merge(s, ctx, types.FlexVar(ctx.FirstDesc.Content.Name, ctx.FirstDesc.Content.HasName))
		}
		return merge(s, ctx, other)
	case types.KindRigidVar, types.KindStructure, types.KindAlias:
		return merge(s, ctx, other)
	case types.KindError:
		return merge(s, ctx, types.ErrorContent())
	}
	opts.traceMismatch(ctx, "flex vs unrecognized content kind %s", other.Kind)
	return mismatch("flex vs unrecognized content kind")
}

// unifyRigid handles a user-introduced skolem on the left. It only ever
// survives against flex; against another rigid (even one with the same
// name - two rigids are distinct skolems), a structure, or an alias, it is
// a mismatch.
func unifyRigid(s *store.Store, pool *Pool, ctx Context, opts Options) Outcome {
	other := ctx.SecondDesc.Content
	switch other.Kind {
	case types.KindFlexVar:
		return merge(s, ctx, types.RigidVar(ctx.FirstDesc.Content.Name))
	case types.KindRigidVar, types.KindStructure, types.KindAlias:
		opts.traceMismatch(ctx, "rigid %s vs %s", ctx.FirstDesc.Content.Name, other)
		return mismatch("rigid var can only unify with flex")
	case types.KindError:
		return merge(s, ctx, types.ErrorContent())
	}
	opts.traceMismatch(ctx, "rigid vs unrecognized content kind %s", other.Kind)
	return mismatch("rigid vs unrecognized content kind")
}
