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

// Package rows walks an open record or tag-union extension chain and
// flattens it into a single field/tag map plus the terminal extension
// variable. It depends only on the store's public Get, never its internal
// arena, and knows nothing about unification itself.
package rows

import (
	"github.com/tangram-lang/tangram/store"
	"github.com/tangram-lang/tangram/types"
)

// GatherFields walks ext: while it resolves to Structure(Record(f', ext')),
// it merges f' into the accumulator (an already-present key wins over one
// discovered further down the chain) and continues on ext'. An Alias is
// chased through its real variable. Anything else - a flex var, a rigid
// var, EmptyRecord, Error - terminates the walk and becomes the result's
// extension.
func GatherFields(s *store.Store, ext types.Variable) (map[string]types.RecordField, types.Variable) {
	fields := map[string]types.RecordField{}
	cur := ext
	for {
		desc := s.Get(cur)
		switch desc.Content.Kind {
		case types.KindAlias:
			cur = desc.Content.Real
			continue
		case types.KindStructure:
			if desc.Content.Flat != nil && desc.Content.Flat.Kind == types.KindRecord {
				for name, f := range desc.Content.Flat.Fields {
					if _, exists := fields[name]; !exists {
						fields[name] = f
					}
				}
				cur = desc.Content.Flat.Ext
				continue
			}
		}
		return fields, cur
	}
}

// GatherTags is GatherFields's analogue over TagUnion and
// RecursiveTagUnion chains. A RecursiveTagUnion link terminates the walk
// (its own recursion variable belongs to that node, not the accumulator)
// rather than being chased through, since unify_tag_union handles
// recursion variables explicitly at the call site.
func GatherTags(s *store.Store, ext types.Variable) (map[string][]types.Variable, types.Variable) {
	tags := map[string][]types.Variable{}
	cur := ext
	for {
		desc := s.Get(cur)
		switch desc.Content.Kind {
		case types.KindAlias:
			cur = desc.Content.Real
			continue
		case types.KindStructure:
			if desc.Content.Flat != nil && desc.Content.Flat.Kind == types.KindTagUnion {
				for name, payload := range desc.Content.Flat.Tags {
					if _, exists := tags[name]; !exists {
						tags[name] = payload
					}
				}
				cur = desc.Content.Flat.Ext
				continue
			}
		}
		return tags, cur
	}
}
