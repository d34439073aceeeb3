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
	"strings"
)

// ContentKind tags which variant a Content value holds.
type ContentKind int

// Each ContentKind is one of the five things a variable can describe.
const (
	// KindFlexVar is an unsolved variable; may carry a user-visible name
	// hint.
	KindFlexVar ContentKind = iota
	// KindRigidVar is a user-introduced skolem; unifies only with flex.
	KindRigidVar
	// KindStructure is a concrete type constructor application.
	KindStructure
	// KindAlias is a named alias whose expansion is Real.
	KindAlias
	// KindError is poisoned; unifies with anything trivially.
	KindError
)

func (k ContentKind) String() string {
	switch k {
	case KindFlexVar:
		return "FlexVar"
	case KindRigidVar:
		return "RigidVar"
	case KindStructure:
		return "Structure"
	case KindAlias:
		return "Alias"
	case KindError:
		return "Error"
	}
	return fmt.Sprintf("ContentKind(%d)", int(k))
}

// AliasArg is one (name, argument-variable) pair of an Alias's parameter
// list.
type AliasArg struct {
	Name string
	Var  Variable
}

// Content is the tagged union of everything a variable's descriptor can
// describe. It is encoded as one struct with a Kind discriminator and a set
// of fields populated according to that Kind, rather than as a Go interface
// with five implementations, keeping field access branch-free at every call
// site that already knows the Kind.
type Content struct {
	Kind ContentKind

	// Name is used by KindFlexVar (optional hint, may be "") and
	// KindRigidVar (required skolem name).
	Name string
	// HasName distinguishes a FlexVar with no name hint from one named
	// "" - needed because FlexVar's name is an Option<Lowercase> in the
	// source algebra, not a possibly-empty string.
	HasName bool

	// Flat is used by KindStructure.
	Flat *FlatType

	// Symbol, Args, and Real are used by KindAlias.
	Symbol string
	Args   []AliasArg
	Real   Variable
}

// FlexVar builds an unsolved variable content, optionally with a name hint.
func FlexVar(name string, hasName bool) Content {
	return Content{Kind: KindFlexVar, Name: name, HasName: hasName}
}

// UnnamedFlexVar builds an unsolved variable content with no name hint.
func UnnamedFlexVar() Content {
	return Content{Kind: KindFlexVar}
}

// RigidVar builds a skolem constant content.
func RigidVar(name string) Content {
	return Content{Kind: KindRigidVar, Name: name, HasName: true}
}

// Structure builds a concrete type-constructor-application content.
func Structure(flat FlatType) Content {
	return Content{Kind: KindStructure, Flat: &flat}
}

// Alias builds a named-alias content.
func Alias(symbol string, args []AliasArg, real Variable) Content {
	return Content{Kind: KindAlias, Symbol: symbol, Args: args, Real: real}
}

// ErrorContent builds the poisoned content that unifies trivially with
// anything and propagates.
func ErrorContent() Content {
	return Content{Kind: KindError}
}

// String renders a short debug form of the content. It never resolves
// variables (that requires a store), so nested variables print as their
// opaque handle only.
func (c Content) String() string {
	switch c.Kind {
	case KindFlexVar:
		if c.HasName {
			return "FlexVar(" + c.Name + ")"
		}
		return "FlexVar(_)"
	case KindRigidVar:
		return "RigidVar(" + c.Name + ")"
	case KindStructure:
		if c.Flat == nil {
			return "Structure(<nil>)"
		}
		return "Structure(" + c.Flat.String() + ")"
	case KindAlias:
		parts := make([]string, len(c.Args))
		for i, a := range c.Args {
			parts[i] = fmt.Sprintf("%s=%s", a.Name, a.Var)
		}
		return fmt.Sprintf("Alias(%s[%s] -> %s)", c.Symbol, strings.Join(parts, ", "), c.Real)
	case KindError:
		return "Error"
	}
	return "<malformed content>"
}

// Descriptor is the per-equivalence-class record the store attaches to
// every union-find root.
type Descriptor struct {
	Content Content
	Rank    Rank
	Mark    Mark
	Copy    Variable
	HasCopy bool
}
