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

func minRank(a, b types.Rank) types.Rank {
	if a < b {
		return a
	}
	return b
}

// merge links ctx.First and ctx.Second in s, installing content as the
// shared root's new descriptor. Rank is preserved as the smaller of the
// two inputs'; mark and copy are reset to their sentinels, since a merged
// descriptor starts a fresh occurrence-check/instantiation lifecycle.
func merge(s *store.Store, ctx Context, content types.Content) Outcome {
	desc := types.Descriptor{
		Content: content,
		Rank:    minRank(ctx.FirstDesc.Rank, ctx.SecondDesc.Rank),
		Mark:    types.MarkNone,
	}
	s.Union(ctx.First, ctx.Second, desc)
	return nil
}

// register allocates a fresh variable for desc and adds it to pool.
func register(s *store.Store, desc types.Descriptor, pool *Pool) types.Variable {
	v := s.Fresh(desc)
	*pool = append(*pool, v)
	return v
}

// fresh registers a new variable carrying content, with rank taken from
// the smaller of ctx's two ranks and mark/copy reset to their sentinels -
// the same bookkeeping merge uses, for a variable materialized mid-unify
// (a row extension, a recursion substitution target) rather than merged
// from an existing pair.
func fresh(s *store.Store, ctx Context, content types.Content, pool *Pool) types.Variable {
	desc := types.Descriptor{
		Content: content,
		Rank:    minRank(ctx.FirstDesc.Rank, ctx.SecondDesc.Rank),
		Mark:    types.MarkNone,
	}
	return register(s, desc, pool)
}
