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

// Package errtype is the closed, variable-free tree that a failed
// unification projects each operand into for the diagnostics subsystem.
// It is a leaf package: it knows nothing about the store or about
// unification, only how to represent an already-resolved type shape plus
// whatever problems were found while resolving it.
//
// It is one struct with a Kind discriminator and a String() that recurses by
// switching on Kind, plus an explicit self-reference marker, since the
// structures this package renders can be genuinely cyclic (recursive tag
// unions).
package errtype

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags which ErrorType variant is populated.
type Kind int

const (
	KindFlexVar Kind = iota
	KindRigidVar
	KindEmptyRecord
	KindRecord
	KindEmptyTagUnion
	KindTagUnion
	KindRecursiveTagUnion
	KindFunc
	KindApply
	KindAlias
	KindBoolean
	KindError
	// KindSelfRef breaks a cyclic projection: it stands for an
	// enclosing KindRecursiveTagUnion's Name, the way a bound type
	// variable stands for its binder.
	KindSelfRef
)

func (k Kind) String() string {
	switch k {
	case KindFlexVar:
		return "FlexVar"
	case KindRigidVar:
		return "RigidVar"
	case KindEmptyRecord:
		return "EmptyRecord"
	case KindRecord:
		return "Record"
	case KindEmptyTagUnion:
		return "EmptyTagUnion"
	case KindTagUnion:
		return "TagUnion"
	case KindRecursiveTagUnion:
		return "RecursiveTagUnion"
	case KindFunc:
		return "Func"
	case KindApply:
		return "Apply"
	case KindAlias:
		return "Alias"
	case KindBoolean:
		return "Boolean"
	case KindError:
		return "Error"
	case KindSelfRef:
		return "SelfRef"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// FieldKind mirrors types.FieldKind without importing the types package,
// keeping this package a leaf with no dependency on the store's content
// model.
type FieldKind int

const (
	FieldOptional FieldKind = iota
	FieldRequired
	FieldDemanded
)

func (k FieldKind) String() string {
	switch k {
	case FieldOptional:
		return "Optional"
	case FieldRequired:
		return "Required"
	case FieldDemanded:
		return "Demanded"
	}
	return fmt.Sprintf("FieldKind(%d)", int(k))
}

// Field pairs a projected field kind with its projected type.
type Field struct {
	Kind FieldKind
	Type ErrorType
}

// ErrorType is the projected, variable-free rendering of a Content /
// FlatType tree, suitable for a diagnostics subsystem to format without
// touching the store again.
type ErrorType struct {
	Kind Kind

	// Name carries FlexVar/RigidVar name hints, Apply/Alias symbols, and
	// (for KindRecursiveTagUnion/KindSelfRef) the synthetic recursion
	// binder name.
	Name string

	// Fields and Ext are used by KindRecord.
	Fields map[string]Field
	Ext    *ErrorType

	// Tags and Ext (above) are used by KindTagUnion and
	// KindRecursiveTagUnion; Name additionally carries the recursion
	// binder for the latter.
	Tags map[string][]ErrorType

	// Args, Closure, and Ret are used by KindFunc.
	Args    []ErrorType
	Closure *ErrorType
	Ret     *ErrorType

	// Args (above) is reused by KindApply (Name is the symbol) and
	// KindAlias (Name is the symbol; Ret-less, Closure-less).

	// BoolDesc is a short human-readable rendering of a projected
	// uniqueness value for KindBoolean, e.g. "Shared" or
	// "Container(#3, {#4})".
	BoolDesc string
}

// FlexVar projects an unsolved variable, optionally named.
func FlexVar(name string) ErrorType { return ErrorType{Kind: KindFlexVar, Name: name} }

// RigidVar projects a user-introduced skolem.
func RigidVar(name string) ErrorType { return ErrorType{Kind: KindRigidVar, Name: name} }

// ErrorNode projects poisoned content.
func ErrorNode() ErrorType { return ErrorType{Kind: KindError} }

// SelfRef projects a reference back to an enclosing recursive tag union.
func SelfRef(name string) ErrorType { return ErrorType{Kind: KindSelfRef, Name: name} }

// String renders a short, human-readable form. It never touches the
// store; everything it needs is already resolved into the tree.
func (e ErrorType) String() string {
	switch e.Kind {
	case KindFlexVar:
		if e.Name == "" {
			return "_"
		}
		return e.Name
	case KindRigidVar:
		return e.Name
	case KindEmptyRecord:
		return "{}"
	case KindRecord:
		return fmt.Sprintf("{%s}%s", joinFields(e.Fields), extString(e.Ext))
	case KindEmptyTagUnion:
		return "[]"
	case KindTagUnion:
		return fmt.Sprintf("[%s]%s", joinTags(e.Tags), extString(e.Ext))
	case KindRecursiveTagUnion:
		return fmt.Sprintf("[%s]%s as %s", joinTags(e.Tags), extString(e.Ext), e.Name)
	case KindFunc:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		closure := ""
		if e.Closure != nil {
			closure = e.Closure.String()
		}
		ret := ""
		if e.Ret != nil {
			ret = e.Ret.String()
		}
		return fmt.Sprintf("(%s) -[%s]-> %s", strings.Join(parts, ", "), closure, ret)
	case KindApply:
		if len(e.Args) == 0 {
			return e.Name
		}
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
	case KindAlias:
		if len(e.Args) == 0 {
			return e.Name
		}
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s[%s]", e.Name, strings.Join(parts, ", "))
	case KindBoolean:
		return "Boolean(" + e.BoolDesc + ")"
	case KindError:
		return "<error>"
	case KindSelfRef:
		return e.Name
	}
	return "<malformed error type>"
}

func extString(ext *ErrorType) string {
	if ext == nil {
		return ""
	}
	return ext.String()
}

func joinFields(fields map[string]Field) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		f := fields[k]
		parts[i] = fmt.Sprintf("%s %s: %s", f.Kind, k, f.Type.String())
	}
	return strings.Join(parts, ", ")
}

func joinTags(tags map[string][]ErrorType) string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		payload := tags[k]
		payloadParts := make([]string, len(payload))
		for j, p := range payload {
			payloadParts[j] = p.String()
		}
		if len(payloadParts) == 0 {
			parts[i] = k
		} else {
			parts[i] = fmt.Sprintf("%s %s", k, strings.Join(payloadParts, " "))
		}
	}
	return strings.Join(parts, ", ")
}

// ProblemKind tags why a projection could not complete cleanly.
type ProblemKind int

const (
	// ProblemMalformedContent means a descriptor's Content.Kind claimed
	// a variant (e.g. Structure) whose required payload (Flat) was nil.
	ProblemMalformedContent ProblemKind = iota
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemMalformedContent:
		return "MalformedContent"
	}
	return fmt.Sprintf("ProblemKind(%d)", int(k))
}

// Problem is a defect surfaced while projecting a variable, independent of
// whatever structural Mismatch the unifier itself found.
type Problem struct {
	Kind    ProblemKind
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Message)
}
