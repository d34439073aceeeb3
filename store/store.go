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

// Package store implements the union-find arena of type-variable
// descriptors that the unifier mutates: Get, Fresh, Union, Equivalent,
// GetRootKey, ExplicitSubstitute, and a snapshot/rollback/commit stack.
//
// The core Find/Union shape follows the classic union-find convention where
// only the root of each set has a meaningful descriptor and every
// non-root's descriptor is stale: here the per-root payload is a
// types.Descriptor, with path compression and union-by-rank added on top.
package store

import (
	"fmt"

	"github.com/tangram-lang/tangram/internal/errwrap"
	"github.com/tangram-lang/tangram/types"
)

// entry is one arena slot: its union-find parent, the union-by-rank
// bookkeeping, and the descriptor that is meaningful only when this slot is
// its own set's root.
type entry struct {
	parent types.Variable
	ufRank uint8
	desc   types.Descriptor
}

// logEntry is a single pre-mutation snapshot of one arena slot.
type logEntry struct {
	idx  types.Variable
	prev entry
}

// SnapshotHandle marks a position in the mutation log that RollbackTo or
// CommitSnapshot can later refer back to.
type SnapshotHandle int

// Store is the shared, single-threaded, mutable union-find arena that one
// compilation's worth of type variables lives in. The zero value is ready
// to use.
type Store struct {
	// arena[0] is an unused placeholder so that types.NoVariable (0)
	// never aliases a real variable.
	arena []entry
	log   []logEntry
	depth int
}

// New returns an empty store.
func New() *Store {
	return &Store{arena: make([]entry, 1)}
}

// Fresh allocates a new variable with the given descriptor and returns its
// handle. Variables are never deleted; an obsolete one simply becomes an
// unreachable root.
func (s *Store) Fresh(desc types.Descriptor) types.Variable {
	if s.arena == nil {
		s.arena = make([]entry, 1)
	}
	v := types.Variable(len(s.arena))
	s.arena = append(s.arena, entry{parent: v, desc: desc})
	return v
}

// find returns the union-find root of v, compressing the path it walks.
func (s *Store) find(v types.Variable) types.Variable {
	root := v
	for s.arena[root].parent != root {
		root = s.arena[root].parent
	}
	// path compression: point every visited node directly at the root so
	// repeated lookups stay flat. Each rewrite is logged like any other
	// mutation so an outstanding snapshot can undo it.
	for s.arena[v].parent != root {
		next := s.arena[v].parent
		s.recordMutation(v)
		s.arena[v].parent = root
		v = next
	}
	return root
}

// GetRootKey returns the union-find root handle for v.
func (s *Store) GetRootKey(v types.Variable) types.Variable {
	return s.find(v)
}

// Get returns the descriptor for v's equivalence class.
func (s *Store) Get(v types.Variable) types.Descriptor {
	return s.arena[s.find(v)].desc
}

// Equivalent reports whether a and b already share a union-find root.
func (s *Store) Equivalent(a, b types.Variable) bool {
	return s.find(a) == s.find(b)
}

// SetDescriptor overwrites the descriptor at v's root without changing the
// union-find structure. It is used by callers (e.g. generalization) that
// need to mutate rank/mark/copy outside of a Union call.
func (s *Store) SetDescriptor(v types.Variable, desc types.Descriptor) {
	root := s.find(v)
	s.recordMutation(root)
	s.arena[root].desc = desc
}

// Union links the roots of a and b and installs desc as the merged root's
// descriptor. If a and b are already equivalent, this just overwrites the
// shared root's descriptor.
func (s *Store) Union(a, b types.Variable, desc types.Descriptor) {
	ra, rb := s.find(a), s.find(b)
	if ra == rb {
		s.recordMutation(ra)
		s.arena[ra].desc = desc
		s.checkInvariant()
		return
	}

	if s.arena[ra].ufRank < s.arena[rb].ufRank {
		ra, rb = rb, ra
	}

	s.recordMutation(ra)
	s.recordMutation(rb)

	s.arena[rb].parent = ra
	if s.arena[ra].ufRank == s.arena[rb].ufRank {
		s.arena[ra].ufRank++
	}
	s.arena[ra].desc = desc
	s.checkInvariant()
}

// recordMutation pushes the pre-mutation state of idx onto the log, but
// only while at least one snapshot is outstanding - unification that never
// takes a snapshot pays nothing for this bookkeeping.
func (s *Store) recordMutation(idx types.Variable) {
	if s.depth == 0 {
		return
	}
	s.log = append(s.log, logEntry{idx: idx, prev: s.arena[idx]})
}

// Snapshot checkpoints the store's current state. Every Snapshot call must
// be matched by exactly one RollbackTo or CommitSnapshot call, in LIFO
// order, before the enclosing Unify returns.
func (s *Store) Snapshot() SnapshotHandle {
	s.depth++
	return SnapshotHandle(len(s.log))
}

// RollbackTo undoes every mutation recorded since the matching Snapshot
// call, restoring every pre-existing arena slot to its bit-identical
// pre-snapshot state. Variables allocated by Fresh since the snapshot stay
// allocated, as unreachable roots.
func (s *Store) RollbackTo(h SnapshotHandle) {
	for i := len(s.log) - 1; i >= int(h); i-- {
		e := s.log[i]
		s.arena[e.idx] = e.prev
	}
	s.log = s.log[:h]
	s.depth--
	s.checkInvariant()
}

// CommitSnapshot keeps every mutation recorded since the matching Snapshot
// call. It only discards the log once depth returns to zero - a commit
// nested inside an outer, still-open snapshot must leave its undo records
// in place, since an outer RollbackTo still needs to unwind them.
func (s *Store) CommitSnapshot(h SnapshotHandle) {
	s.depth--
	if s.depth == 0 {
		s.log = nil
	}
	s.checkInvariant()
}

// Len returns the number of variables ever allocated by Fresh, including
// types.NoVariable's reserved slot.
func (s *Store) Len() int {
	return len(s.arena)
}

// Validate reports a programming-error-class problem with the store's
// internal structure, such as a dangling parent link or an unbalanced
// snapshot stack. checkInvariant runs it after every Union, RollbackTo and
// CommitSnapshot; callers may also use it in tests and assertions.
func (s *Store) Validate() error {
	var err error
	for i := 1; i < len(s.arena); i++ {
		v := types.Variable(i)
		p := s.arena[v].parent
		if int(p) >= len(s.arena) {
			err = errwrap.Append(err, fmt.Errorf("variable %s has out-of-range parent %s", v, p))
		}
	}
	if s.depth < 0 {
		err = errwrap.Append(err, fmt.Errorf("snapshot depth went negative (%d): unbalanced RollbackTo/CommitSnapshot", s.depth))
	}
	return err
}

// checkInvariant panics if the store's structure has been corrupted. It
// runs Validate after every mutation that changes the union-find topology
// or the snapshot stack; a non-nil result here always means a bug in this
// package, not in a caller, so it panics rather than returning an error
// nobody asked for.
func (s *Store) checkInvariant() {
	if err := s.Validate(); err != nil {
		panic(errwrap.Wrapf(err, "store invariant violated"))
	}
}
