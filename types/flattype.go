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

package types

import (
	"fmt"
	"sort"
	"strings"
)

// FlatKind tags which FlatType variant is populated.
type FlatKind int

// The constructor applications a Structure content can hold.
const (
	KindEmptyRecord FlatKind = iota
	KindRecord
	KindEmptyTagUnion
	KindTagUnion
	KindRecursiveTagUnion
	KindFunc
	KindApply
	KindBoolean
)

func (k FlatKind) String() string {
	switch k {
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
	case KindBoolean:
		return "Boolean"
	}
	return fmt.Sprintf("FlatKind(%d)", int(k))
}

// FieldKind tags a RecordField's optionality.
type FieldKind int

// The three field kinds, ordered weakest (Optional) to strongest
// (Demanded) for the purposes of CombineFieldKinds below.
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

// RecordField pairs a field kind with the variable describing its type.
type RecordField struct {
	Kind FieldKind
	Var  Variable
}

// CombineFieldKinds implements the field-kind compatibility rule: Demanded
// never unifies with Optional, and otherwise the stronger requirement wins.
//
//	Demanded  x Optional -> not compatible (ok=false)
//	Demanded  x Required -> Demanded
//	Required  x Demanded -> Demanded
//	Demanded  x Demanded -> Demanded
//	Required  x Required -> Required
//	Required  x Optional -> Required
//	Optional  x Required -> Required
//	Optional  x Optional -> Optional
func CombineFieldKinds(actual, expected FieldKind) (FieldKind, bool) {
	switch {
	case actual == FieldDemanded && expected == FieldOptional,
		actual == FieldOptional && expected == FieldDemanded:
		return 0, false
	case actual == FieldDemanded && expected == FieldRequired,
		actual == FieldRequired && expected == FieldDemanded,
		actual == FieldDemanded && expected == FieldDemanded:
		return FieldDemanded, true
	case actual == FieldRequired && expected == FieldRequired:
		return FieldRequired, true
	case actual == FieldRequired && expected == FieldOptional,
		actual == FieldOptional && expected == FieldRequired:
		return FieldRequired, true
	case actual == FieldOptional && expected == FieldOptional:
		return FieldOptional, true
	}
	return 0, false
}

// FlatType is the tagged union of concrete type-constructor applications
// that a Structure content can hold. Like Content, it is one struct with a
// Kind discriminator rather than an interface.
type FlatType struct {
	Kind FlatKind

	// Fields and Ext are used by KindRecord.
	Fields map[string]RecordField
	Ext    Variable

	// Tags and Ext (reused above) are used by KindTagUnion and
	// KindRecursiveTagUnion. Rec additionally names the self-reference
	// for KindRecursiveTagUnion.
	Tags map[string][]Variable
	Rec  Variable

	// Args, Closure, and Ret are used by KindFunc.
	Args    []Variable
	Closure Variable
	Ret     Variable

	// Symbol and Args (reused above) are used by KindApply.
	Symbol string

	// Bool is used by KindBoolean.
	Bool *Bool
}

// EmptyRecord builds the empty-record flat type.
func EmptyRecord() FlatType { return FlatType{Kind: KindEmptyRecord} }

// Record builds a row-polymorphic record flat type.
func Record(fields map[string]RecordField, ext Variable) FlatType {
	return FlatType{Kind: KindRecord, Fields: fields, Ext: ext}
}

// EmptyTagUnion builds the empty-tag-union flat type.
func EmptyTagUnion() FlatType { return FlatType{Kind: KindEmptyTagUnion} }

// TagUnion builds a non-recursive, row-polymorphic tag union flat type.
func TagUnion(tags map[string][]Variable, ext Variable) FlatType {
	return FlatType{Kind: KindTagUnion, Tags: tags, Ext: ext}
}

// RecursiveTagUnion builds a self-referential tag union flat type, where
// rec is the variable that stands for the whole union inside its own tag
// payloads.
func RecursiveTagUnion(rec Variable, tags map[string][]Variable, ext Variable) FlatType {
	return FlatType{Kind: KindRecursiveTagUnion, Rec: rec, Tags: tags, Ext: ext}
}

// Func builds a function flat type.
func Func(args []Variable, closure, ret Variable) FlatType {
	return FlatType{Kind: KindFunc, Args: args, Closure: closure, Ret: ret}
}

// Apply builds a named type-constructor-application flat type.
func Apply(symbol string, args []Variable) FlatType {
	return FlatType{Kind: KindApply, Symbol: symbol, Args: args}
}

// BooleanFlat builds a uniqueness-algebra flat type.
func BooleanFlat(b Bool) FlatType {
	return FlatType{Kind: KindBoolean, Bool: &b}
}

// ATTRAttr is the reserved Apply symbol whose two arguments are
// [uniqueness, inner] - the uniqueness-attribute wrapper that the
// tag-union recursion logic peels before comparing payloads.
const ATTRAttr = "Attr.Attr"

// IsAttrWrapped reports whether this flat type is Apply(ATTRAttr, [u,
// inner]) and, if so, returns the uniqueness variable and the inner
// variable it wraps.
func (f FlatType) IsAttrWrapped() (uniqueness, inner Variable, ok bool) {
	if f.Kind != KindApply || f.Symbol != ATTRAttr || len(f.Args) != 2 {
		return 0, 0, false
	}
	return f.Args[0], f.Args[1], true
}

// String renders a short debug form. Like Content.String, it never
// resolves variables - nested variables print as their opaque handle.
func (f FlatType) String() string {
	switch f.Kind {
	case KindEmptyRecord:
		return "{}"
	case KindRecord:
		return fmt.Sprintf("{%s}%s", joinFields(f.Fields), f.Ext)
	case KindEmptyTagUnion:
		return "[]"
	case KindTagUnion:
		return fmt.Sprintf("[%s]%s", joinTags(f.Tags), f.Ext)
	case KindRecursiveTagUnion:
		return fmt.Sprintf("[%s]%s as %s", joinTags(f.Tags), f.Ext, f.Rec)
	case KindFunc:
		parts := make([]string, len(f.Args))
		for i, a := range f.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("(%s) -[%s]-> %s", strings.Join(parts, ", "), f.Closure, f.Ret)
	case KindApply:
		parts := make([]string, len(f.Args))
		for i, a := range f.Args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", f.Symbol, strings.Join(parts, ", "))
	case KindBoolean:
		if f.Bool == nil {
			return "Boolean(<nil>)"
		}
		return "Boolean(" + f.Bool.String() + ")"
	}
	return "<malformed flat type>"
}

func joinFields(fields map[string]RecordField) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		f := fields[k]
		parts[i] = fmt.Sprintf("%s %s: %s", f.Kind, k, f.Var)
	}
	return strings.Join(parts, ", ")
}

func joinTags(tags map[string][]Variable) string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		vars := tags[k]
		varParts := make([]string, len(vars))
		for j, v := range vars {
			varParts[j] = v.String()
		}
		parts[i] = fmt.Sprintf("%s %s", k, strings.Join(varParts, " "))
	}
	return strings.Join(parts, ", ")
}
