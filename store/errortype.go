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
	"fmt"

	"github.com/tangram-lang/tangram/errtype"
	"github.com/tangram-lang/tangram/internal/errwrap"
	"github.com/tangram-lang/tangram/types"
)

// projector carries the per-call state needed to turn a cyclic,
// variable-keyed descriptor graph into an acyclic errtype.ErrorType tree:
// which roots are currently being expanded (to detect and break cycles)
// and the synthetic binder names handed out for recursive tag unions.
type projector struct {
	store    *Store
	active   map[types.Variable]string
	problems []errtype.Problem
	next     int
}

// VarToErrorType projects v's resolved type into a closed ErrorType tree
// for diagnostics, plus any problems found while doing so. A non-empty
// problem list demotes the caller's result from Failure to BadType.
func (s *Store) VarToErrorType(v types.Variable) (errtype.ErrorType, []errtype.Problem) {
	p := &projector{store: s, active: map[types.Variable]string{}}
	et := p.project(v)
	return et, p.problems
}

// report records a malformed-descriptor finding. The underlying Errorf is
// routed through errwrap.Wrapf so the stored message carries the same
// programming-error-class context a panic path would, even though a
// projection problem is surfaced as data rather than propagated as an error.
func (p *projector) report(kind errtype.ProblemKind, format string, args ...interface{}) {
	err := errwrap.Wrapf(fmt.Errorf(format, args...), "malformed store descriptor")
	p.problems = append(p.problems, errtype.Problem{Kind: kind, Message: errwrap.String(err)})
}

func (p *projector) project(v types.Variable) errtype.ErrorType {
	root := p.store.find(v)
	if name, ok := p.active[root]; ok {
		return errtype.SelfRef(name)
	}

	desc := p.store.arena[root].desc
	switch desc.Content.Kind {
	case types.KindFlexVar:
		if desc.Content.HasName {
			return errtype.FlexVar(desc.Content.Name)
		}
		return errtype.FlexVar("")
	case types.KindRigidVar:
		return errtype.RigidVar(desc.Content.Name)
	case types.KindError:
		return errtype.ErrorNode()
	case types.KindAlias:
		return p.projectAlias(root, desc.Content)
	case types.KindStructure:
		if desc.Content.Flat == nil {
			p.report(errtype.ProblemMalformedContent, "variable %s is Structure with no flat type", root)
			return errtype.ErrorNode()
		}
		return p.projectFlat(root, *desc.Content.Flat)
	}
	p.report(errtype.ProblemMalformedContent, "variable %s has unrecognized content kind %s", root, desc.Content.Kind)
	return errtype.ErrorNode()
}

func (p *projector) projectAlias(root types.Variable, c types.Content) errtype.ErrorType {
	args := make([]errtype.ErrorType, len(c.Args))
	for i, a := range c.Args {
		args[i] = p.project(a.Var)
	}
	return errtype.ErrorType{Kind: errtype.KindAlias, Name: c.Symbol, Args: args}
}

func (p *projector) projectFlat(root types.Variable, f types.FlatType) errtype.ErrorType {
	switch f.Kind {
	case types.KindEmptyRecord:
		return errtype.ErrorType{Kind: errtype.KindEmptyRecord}
	case types.KindRecord:
		return p.projectRecord(f)
	case types.KindEmptyTagUnion:
		return errtype.ErrorType{Kind: errtype.KindEmptyTagUnion}
	case types.KindTagUnion:
		return p.projectTagUnion(root, f, false)
	case types.KindRecursiveTagUnion:
		return p.projectTagUnion(root, f, true)
	case types.KindFunc:
		args := make([]errtype.ErrorType, len(f.Args))
		for i, a := range f.Args {
			args[i] = p.project(a)
		}
		closure := p.project(f.Closure)
		ret := p.project(f.Ret)
		return errtype.ErrorType{Kind: errtype.KindFunc, Args: args, Closure: &closure, Ret: &ret}
	case types.KindApply:
		args := make([]errtype.ErrorType, len(f.Args))
		for i, a := range f.Args {
			args[i] = p.project(a)
		}
		return errtype.ErrorType{Kind: errtype.KindApply, Name: f.Symbol, Args: args}
	case types.KindBoolean:
		if f.Bool == nil {
			p.report(errtype.ProblemMalformedContent, "variable has Boolean flat type with no value")
			return errtype.ErrorNode()
		}
		return errtype.ErrorType{Kind: errtype.KindBoolean, BoolDesc: f.Bool.String()}
	}
	p.report(errtype.ProblemMalformedContent, "unrecognized flat type kind %s", f.Kind)
	return errtype.ErrorNode()
}

func (p *projector) projectRecord(f types.FlatType) errtype.ErrorType {
	fields := make(map[string]errtype.Field, len(f.Fields))
	for name, rf := range f.Fields {
		fields[name] = errtype.Field{Kind: errtype.FieldKind(rf.Kind), Type: p.project(rf.Var)}
	}
	ext := p.projectExt(f.Ext)
	return errtype.ErrorType{Kind: errtype.KindRecord, Fields: fields, Ext: ext}
}

func (p *projector) projectTagUnion(root types.Variable, f types.FlatType, recursive bool) errtype.ErrorType {
	name := ""
	if recursive {
		name = fmt.Sprintf("rec%d", p.next)
		p.next++
		p.active[root] = name
		defer delete(p.active, root)
	}

	tags := make(map[string][]errtype.ErrorType, len(f.Tags))
	for tag, payload := range f.Tags {
		projected := make([]errtype.ErrorType, len(payload))
		for i, v := range payload {
			projected[i] = p.project(v)
		}
		tags[tag] = projected
	}
	ext := p.projectExt(f.Ext)

	kind := errtype.KindTagUnion
	if recursive {
		kind = errtype.KindRecursiveTagUnion
	}
	return errtype.ErrorType{Kind: kind, Name: name, Tags: tags, Ext: ext}
}

// projectExt renders a record/tag-union extension variable, collapsing the
// always-closed EmptyRecord/EmptyTagUnion terminator to "no extension"
// (nil) so String() doesn't print a redundant trailing "{}" or "[]".
func (p *projector) projectExt(ext types.Variable) *errtype.ErrorType {
	root := p.store.find(ext)
	desc := p.store.arena[root].desc
	if desc.Content.Kind == types.KindStructure && desc.Content.Flat != nil {
		switch desc.Content.Flat.Kind {
		case types.KindEmptyRecord, types.KindEmptyTagUnion:
			return nil
		}
	}
	e := p.project(ext)
	return &e
}
