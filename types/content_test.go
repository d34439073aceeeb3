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

import "testing"

func TestCombineFieldKinds(t *testing.T) {
	type test struct {
		name     string
		actual   FieldKind
		expected FieldKind
		want     FieldKind
		ok       bool
	}
	testCases := []test{
		{"demanded-optional", FieldDemanded, FieldOptional, 0, false},
		{"optional-demanded", FieldOptional, FieldDemanded, 0, false},
		{"demanded-required", FieldDemanded, FieldRequired, FieldDemanded, true},
		{"required-demanded", FieldRequired, FieldDemanded, FieldDemanded, true},
		{"demanded-demanded", FieldDemanded, FieldDemanded, FieldDemanded, true},
		{"required-required", FieldRequired, FieldRequired, FieldRequired, true},
		{"required-optional", FieldRequired, FieldOptional, FieldRequired, true},
		{"optional-required", FieldOptional, FieldRequired, FieldRequired, true},
		{"optional-optional", FieldOptional, FieldOptional, FieldOptional, true},
	}

	for _, tc := range testCases {
		got, ok := CombineFieldKinds(tc.actual, tc.expected)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("%s: got = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestContentString(t *testing.T) {
	if s := UnnamedFlexVar().String(); s != "FlexVar(_)" {
		t.Errorf("unexpected flex var string: %s", s)
	}
	if s := RigidVar("a").String(); s != "RigidVar(a)" {
		t.Errorf("unexpected rigid var string: %s", s)
	}
	if s := ErrorContent().String(); s != "Error" {
		t.Errorf("unexpected error string: %s", s)
	}
}

func TestFlatTypeString(t *testing.T) {
	if s := EmptyRecord().String(); s != "{}" {
		t.Errorf("unexpected empty record string: %s", s)
	}
	if s := EmptyTagUnion().String(); s != "[]" {
		t.Errorf("unexpected empty tag union string: %s", s)
	}
}
