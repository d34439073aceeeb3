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

// varIsShared reports whether v's root is already known to be the Shared
// uniqueness value.
func varIsShared(s *store.Store, v types.Variable) bool {
	desc := s.Get(v)
	return desc.Content.Kind == types.KindStructure &&
		desc.Content.Flat != nil &&
		desc.Content.Flat.Kind == types.KindBoolean &&
		desc.Content.Flat.Bool != nil &&
		desc.Content.Flat.Bool.Kind == types.BoolShared
}

// simplifyBool store-normalizes a Bool value: a Container whose own
// container variable already resolves to Shared collapses to Shared
// outright, since Container always absorbs into Shared.
func simplifyBool(s *store.Store, b types.Bool) types.Bool {
	if b.Kind == types.BoolContainer && varIsShared(s, b.Container) {
		return types.Shared()
	}
	return b
}

// unifyBool unifies two uniqueness values over the two-element lattice.
// Shared absorbs: unifying it against a Container forces every member of
// that container to Shared too. Two containers unify their container
// variables and union their member sets, dropping any member already
// known to be Shared.
func unifyBool(s *store.Store, pool *Pool, ctx Context, b1, b2 types.Bool, opts Options) Outcome {
	b1 = simplifyBool(s, b1)
	b2 = simplifyBool(s, b2)

	switch {
	case b1.Kind == types.BoolShared && b2.Kind == types.BoolShared:
		return merge(s, ctx, types.Structure(types.BooleanFlat(types.Shared())))

	case b1.Kind == types.BoolShared && b2.Kind == types.BoolContainer:
		var outcome Outcome
		outcome = append(outcome, UnifyPool(s, pool, ctx.First, b2.Container, opts)...)
		for _, m := range b2.Members {
			outcome = append(outcome, UnifyPool(s, pool, ctx.First, m, opts)...)
		}
		outcome = append(outcome, merge(s, ctx, types.Structure(types.BooleanFlat(types.Shared())))...)
		return outcome

	case b1.Kind == types.BoolContainer && b2.Kind == types.BoolShared:
		var outcome Outcome
		outcome = append(outcome, UnifyPool(s, pool, ctx.Second, b1.Container, opts)...)
		for _, m := range b1.Members {
			outcome = append(outcome, UnifyPool(s, pool, ctx.Second, m, opts)...)
		}
		outcome = append(outcome, merge(s, ctx, types.Structure(types.BooleanFlat(types.Shared())))...)
		return outcome

	default: // both Container
		var outcome Outcome
		outcome = append(outcome, UnifyPool(s, pool, b1.Container, b2.Container, opts)...)

		seen := map[types.Variable]bool{}
		var members []types.Variable
		for _, v := range b1.Members {
			root := s.GetRootKey(v)
			if varIsShared(s, root) || seen[root] {
				continue
			}
			seen[root] = true
			members = append(members, root)
		}
		for _, v := range b2.Members {
			root := s.GetRootKey(v)
			if varIsShared(s, root) || seen[root] {
				continue
			}
			seen[root] = true
			members = append(members, root)
		}

		content := types.Structure(types.BooleanFlat(types.ContainerBool(b1.Container, members)))
		outcome = append(outcome, merge(s, ctx, content)...)
		return outcome
	}
}
