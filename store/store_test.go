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

package store

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/tangram-lang/tangram/types"
)

func TestFreshAndGet(t *testing.T) {
	s := New()
	v := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	if got := s.Get(v).Content.Kind; got != types.KindFlexVar {
		t.Fatalf("got content kind %s, want FlexVar", got)
	}
}

func TestUnionMakesEquivalent(t *testing.T) {
	s := New()
	a := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	b := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	if s.Equivalent(a, b) {
		t.Fatalf("a and b should not start equivalent")
	}
	s.Union(a, b, types.Descriptor{Content: types.RigidVar("x")})
	if !s.Equivalent(a, b) {
		t.Fatalf("a and b should be equivalent after Union")
	}
	if got := s.Get(a).Content; got.Kind != types.KindRigidVar || got.Name != "x" {
		t.Fatalf("unexpected merged content: %s", spew.Sdump(got))
	}
	if got := s.Get(b).Content; got.Kind != types.KindRigidVar || got.Name != "x" {
		t.Fatalf("unexpected merged content via other handle: %s", spew.Sdump(got))
	}
}

func TestGetRootKeyStableAfterUnion(t *testing.T) {
	s := New()
	a := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	b := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	s.Union(a, b, types.Descriptor{Content: types.UnnamedFlexVar()})
	if s.GetRootKey(a) != s.GetRootKey(b) {
		t.Fatalf("roots should agree after union")
	}
}

func TestRollbackRestoresBitIdenticalState(t *testing.T) {
	s := New()
	a := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	b := s.Fresh(types.Descriptor{Content: types.RigidVar("a")})
	c := s.Fresh(types.Descriptor{Content: types.RigidVar("b")})

	before := cloneArena(s)

	snap := s.Snapshot()
	s.Union(a, b, types.Descriptor{Content: types.RigidVar("a")})
	s.Union(b, c, types.Descriptor{Content: types.ErrorContent()})
	s.RollbackTo(snap)

	after := cloneArena(s)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("rollback did not restore bit-identical state:\nbefore=%s\nafter=%s", spew.Sdump(before), spew.Sdump(after))
	}
}

func TestCommitSnapshotKeepsMutations(t *testing.T) {
	s := New()
	a := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	b := s.Fresh(types.Descriptor{Content: types.RigidVar("a")})

	snap := s.Snapshot()
	s.Union(a, b, types.Descriptor{Content: types.RigidVar("a")})
	s.CommitSnapshot(snap)

	if !s.Equivalent(a, b) {
		t.Fatalf("committed union should stick")
	}
}

func TestExplicitSubstituteRewritesNestedReference(t *testing.T) {
	s := New()
	from := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	to := s.Fresh(types.Descriptor{Content: types.RigidVar("replacement")})
	inner := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})

	fields := map[string]types.RecordField{"x": {Kind: types.FieldRequired, Var: from}}
	within := s.Fresh(types.Descriptor{Content: types.Structure(types.Record(fields, inner))})

	s.ExplicitSubstitute(from, to, within)

	got := s.Get(within).Content.Flat.Fields["x"].Var
	if got != to {
		t.Fatalf("expected substituted field var %s, got %s", to, got)
	}
}

func TestExplicitSubstituteStopsAtCycle(t *testing.T) {
	s := New()
	from := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
	to := s.Fresh(types.Descriptor{Content: types.RigidVar("replacement")})
	ext := s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})

	rec := s.Fresh(types.Descriptor{})
	tags := map[string][]types.Variable{"Cons": {from, rec}}
	s.SetDescriptor(rec, types.Descriptor{Content: types.Structure(types.RecursiveTagUnion(rec, tags, ext))})

	// Must terminate despite rec referencing itself.
	s.ExplicitSubstitute(from, to, rec)

	got := s.Get(rec).Content.Flat.Tags["Cons"][0]
	if got != to {
		t.Fatalf("expected substitution inside cyclic structure, got %s", got)
	}
}

type arenaSnapshot struct {
	parent types.Variable
	rank   uint8
	desc   types.Descriptor
}

func cloneArena(s *Store) []arenaSnapshot {
	out := make([]arenaSnapshot, len(s.arena))
	for i, e := range s.arena {
		out[i] = arenaSnapshot{parent: e.parent, rank: e.ufRank, desc: e.desc}
	}
	return out
}
