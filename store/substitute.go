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

import "github.com/tangram-lang/tangram/types"

// ExplicitSubstitute walks the subtree of variables reachable from within
// and rewrites every direct reference to from into a reference to to. It is
// used by the tag-union unifier's recursion-variable handling, where one
// side's own recursion variable must be woven into the other side's merged
// result so the recursive structure stays self-referential. Cyclic
// structures (recursive tag unions referencing themselves) are visited at
// most once.
func (s *Store) ExplicitSubstitute(from, to, within types.Variable) {
	visited := map[types.Variable]bool{}
	s.substituteWithin(from, to, within, visited)
}

func (s *Store) substituteWithin(from, to, within types.Variable, visited map[types.Variable]bool) {
	root := s.find(within)
	if visited[root] {
		return
	}
	visited[root] = true

	desc := s.arena[root].desc
	switch desc.Content.Kind {
	case types.KindStructure:
		if desc.Content.Flat == nil {
			return
		}
		flat := *desc.Content.Flat
		s.substituteFlat(&flat, from, to, visited)
		desc.Content.Flat = &flat
		s.recordMutation(root)
		s.arena[root].desc = desc
	case types.KindAlias:
		changed := false
		args := desc.Content.Args
		for i, a := range args {
			sub := s.substituteVar(a.Var, from, to, visited)
			if sub != a.Var {
				if !changed {
					args = append([]types.AliasArg(nil), args...)
					changed = true
				}
				args[i].Var = sub
			}
		}
		real := s.substituteVar(desc.Content.Real, from, to, visited)
		if changed || real != desc.Content.Real {
			desc.Content.Args = args
			desc.Content.Real = real
			s.recordMutation(root)
			s.arena[root].desc = desc
		}
	default:
		// FlexVar, RigidVar, and Error contents hold no sub-variables.
	}
}

// substituteVar is substituteWithin's leaf case: if v is the variable being
// replaced, return the replacement directly; otherwise recurse into v's own
// content looking for further occurrences, and return v unchanged.
func (s *Store) substituteVar(v, from, to types.Variable, visited map[types.Variable]bool) types.Variable {
	if s.Equivalent(v, from) {
		return to
	}
	s.substituteWithin(from, to, v, visited)
	return v
}

func (s *Store) substituteFlat(flat *types.FlatType, from, to types.Variable, visited map[types.Variable]bool) {
	switch flat.Kind {
	case types.KindRecord:
		// Fields is a map reached through a shared *FlatType; copy it
		// before mutating so an outstanding snapshot's
		// log (which only remembers entry values, not map contents)
		// stays able to roll the change back.
		fields := make(map[string]types.RecordField, len(flat.Fields))
		for name, f := range flat.Fields {
			f.Var = s.substituteVar(f.Var, from, to, visited)
			fields[name] = f
		}
		flat.Fields = fields
		flat.Ext = s.substituteVar(flat.Ext, from, to, visited)
	case types.KindTagUnion, types.KindRecursiveTagUnion:
		tags := make(map[string][]types.Variable, len(flat.Tags))
		for name, vars := range flat.Tags {
			cp := make([]types.Variable, len(vars))
			for i, v := range vars {
				cp[i] = s.substituteVar(v, from, to, visited)
			}
			tags[name] = cp
		}
		flat.Tags = tags
		flat.Ext = s.substituteVar(flat.Ext, from, to, visited)
		if flat.Kind == types.KindRecursiveTagUnion {
			flat.Rec = s.substituteVar(flat.Rec, from, to, visited)
		}
	case types.KindFunc:
		args := make([]types.Variable, len(flat.Args))
		for i, a := range flat.Args {
			args[i] = s.substituteVar(a, from, to, visited)
		}
		flat.Args = args
		flat.Closure = s.substituteVar(flat.Closure, from, to, visited)
		flat.Ret = s.substituteVar(flat.Ret, from, to, visited)
	case types.KindApply:
		args := make([]types.Variable, len(flat.Args))
		for i, a := range flat.Args {
			args[i] = s.substituteVar(a, from, to, visited)
		}
		flat.Args = args
	case types.KindBoolean:
		if flat.Bool == nil {
			return
		}
		b := *flat.Bool
		switch b.Kind {
		case types.BoolContainer:
			b.Container = s.substituteVar(b.Container, from, to, visited)
			members := make([]types.Variable, len(b.Members))
			for i, m := range b.Members {
				members[i] = s.substituteVar(m, from, to, visited)
			}
			b.Members = members
		}
		flat.Bool = &b
	case types.KindEmptyRecord, types.KindEmptyTagUnion:
		// no sub-variables
	}
}
