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

// BoolKind tags which Bool variant is populated.
type BoolKind int

// The two-element uniqueness lattice: Shared absorbs, Container holds a
// container variable plus a set of member variables.
const (
	BoolShared BoolKind = iota
	BoolContainer
)

// Bool is the uniqueness-algebra value a Boolean flat type carries.
type Bool struct {
	Kind BoolKind

	// Container and Members are used by BoolContainer.
	Container Variable
	Members   []Variable
}

// Shared builds the absorbing Shared uniqueness value.
func Shared() Bool { return Bool{Kind: BoolShared} }

// ContainerBool builds a Container(c, members) uniqueness value.
func ContainerBool(c Variable, members []Variable) Bool {
	return Bool{Kind: BoolContainer, Container: c, Members: members}
}

func (b Bool) String() string {
	if b.Kind == BoolShared {
		return "Shared"
	}
	members := make([]string, len(b.Members))
	for i, m := range b.Members {
		members[i] = m.String()
	}
	sort.Strings(members)
	return fmt.Sprintf("Container(%s, {%s})", b.Container, strings.Join(members, ", "))
}
