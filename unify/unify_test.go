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

package unify

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kylelemons/godebug/pretty"

	"github.com/tangram-lang/tangram/store"
	"github.com/tangram-lang/tangram/types"
)

func flex(s *store.Store) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.UnnamedFlexVar()})
}

func rigid(s *store.Store, name string) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.RigidVar(name)})
}

func apply0(s *store.Store, symbol string) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.Structure(types.Apply(symbol, nil))})
}

func emptyRecord(s *store.Store) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.Structure(types.EmptyRecord())})
}

func emptyTagUnion(s *store.Store) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.Structure(types.EmptyTagUnion())})
}

func record(s *store.Store, fields map[string]types.RecordField, ext types.Variable) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.Structure(types.Record(fields, ext))})
}

func tagUnion(s *store.Store, tags map[string][]types.Variable, ext types.Variable) types.Variable {
	return s.Fresh(types.Descriptor{Content: types.Structure(types.TagUnion(tags, ext))})
}

func req(v types.Variable) types.RecordField { return types.RecordField{Kind: types.FieldRequired, Var: v} }
func opt(v types.Variable) types.RecordField { return types.RecordField{Kind: types.FieldOptional, Var: v} }

// --- Testable properties ---

func TestReflexivity(t *testing.T) {
	s := store.New()
	v := flex(s)
	before := s.Get(v)

	u := Unify(s, v, v, Options{})
	if u.Kind != Success || len(u.Pool) != 0 {
		t.Fatalf("unify(v, v) = %+v, want empty Success", u)
	}
	if got := s.Get(v); !reflect.DeepEqual(got, before) {
		t.Fatalf("store mutated by reflexive unify: before=%s after=%s", spew.Sdump(before), spew.Sdump(got))
	}
}

func TestFlexAbsorption(t *testing.T) {
	s := store.New()
	f := flex(s)
	i := apply0(s, "Int")

	u := Unify(s, f, i, Options{})
	if u.Kind != Success {
		t.Fatalf("flex ~ structure should succeed, got %+v", u)
	}
	want := s.Get(i).Content
	if got := s.Get(f).Content; got.Kind != want.Kind || got.Flat.Symbol != want.Flat.Symbol {
		t.Fatalf("root content = %s, want %s", got, want)
	}
}

func TestRigidDistinctness(t *testing.T) {
	s := store.New()
	a := rigid(s, "a")
	b := rigid(s, "a")

	u := Unify(s, a, b, Options{})
	if u.Kind != Failure {
		t.Fatalf("two same-named rigids should fail, got %+v", u)
	}
}

func TestAliasTransparency(t *testing.T) {
	s := store.New()
	real := apply0(s, "Int")
	aliasVar := s.Fresh(types.Descriptor{Content: types.Alias("MyInt", nil, real)})
	other := apply0(s, "Int")

	u := Unify(s, aliasVar, other, Options{})
	if u.Kind != Success {
		t.Fatalf("Alias(S,[],r) ~ Structure(ft) should succeed when r ~ ft succeeds, got %+v", u)
	}
}

func TestIdempotence(t *testing.T) {
	s := store.New()
	f := flex(s)
	i := apply0(s, "Int")

	if u := Unify(s, f, i, Options{}); u.Kind != Success {
		t.Fatalf("first unify failed: %+v", u)
	}
	before := s.Get(f)

	u := Unify(s, f, i, Options{})
	if u.Kind != Success || len(u.Pool) != 0 {
		t.Fatalf("second unify should be a no-op Success, got %+v", u)
	}
	if got := s.Get(f); !reflect.DeepEqual(got, before) {
		diff := pretty.Compare(before, got)
		t.Fatalf("second unify mutated the store: %s", diff)
	}
}

func TestRecordRowOpenness(t *testing.T) {
	s := store.New()
	intVar := apply0(s, "Int")
	strVar := apply0(s, "Str")

	r := flex(s)
	left := record(s, map[string]types.RecordField{"a": req(intVar)}, r)
	right := record(s, map[string]types.RecordField{
		"a": req(apply0(s, "Int")),
		"b": req(strVar),
	}, emptyRecord(s))

	u := Unify(s, left, right, Options{})
	if u.Kind != Success {
		t.Fatalf("row-open record unification should succeed, got %+v", u)
	}
	closed := s.Get(r).Content
	if closed.Kind != types.KindStructure || closed.Flat.Kind != types.KindRecord {
		t.Fatalf("r should close to a record, got %s", closed)
	}
	if _, ok := closed.Flat.Fields["b"]; !ok {
		t.Fatalf("r should have closed in field b, got %s", closed)
	}
}

func TestOptionalOnlySubsumesEmpty(t *testing.T) {
	s := store.New()
	okVar := record(s, map[string]types.RecordField{"a": opt(apply0(s, "Int"))}, flex(s))
	u := Unify(s, okVar, emptyRecord(s), Options{})
	if u.Kind != Success {
		t.Fatalf("{a?: Int} ~ {} should succeed, got %+v", u)
	}

	s2 := store.New()
	failVar := record(s2, map[string]types.RecordField{"a": req(apply0(s2, "Int"))}, flex(s2))
	u2 := Unify(s2, failVar, emptyRecord(s2), Options{})
	if u2.Kind != Failure {
		t.Fatalf("{a: Int} ~ {} should fail, got %+v", u2)
	}
}

func TestTagArityMismatch(t *testing.T) {
	s := store.New()
	left := tagUnion(s, map[string][]types.Variable{"Pair": {apply0(s, "Int"), apply0(s, "Int")}}, emptyTagUnion(s))
	right := tagUnion(s, map[string][]types.Variable{"Pair": {apply0(s, "Int")}}, emptyTagUnion(s))

	u := Unify(s, left, right, Options{})
	if u.Kind != Failure {
		t.Fatalf("[Pair Int Int] ~ [Pair Int] should fail, got %+v", u)
	}
}

// --- Recursive unfolding ---

// TestRecursiveUnfolding unifies two independently built self-referential
// list types (each is its own RecursiveTagUnion, so neither recursion
// variable is shared going in) and checks the recursion variables end up
// equivalent and the merged shape still exposes both constructors.
func TestRecursiveUnfolding(t *testing.T) {
	s := store.New()

	recA := s.Fresh(types.Descriptor{})
	consListA := buildConsList(s, recA, "Int")

	recB := s.Fresh(types.Descriptor{})
	consListB := buildConsList(s, recB, "Int")

	u := Unify(s, consListA, consListB, Options{})
	if u.Kind != Success {
		t.Fatalf("ConsList Int ~ ConsList Int should succeed, got %+v: %s / %s", u.Kind, u.ErrA, u.ErrB)
	}
	if !s.Equivalent(recA, recB) {
		t.Fatalf("the two recursion variables should have been unified")
	}
	merged := s.Get(consListA).Content
	if merged.Kind != types.KindStructure || merged.Flat.Kind != types.KindRecursiveTagUnion {
		t.Fatalf("merged result should still be a recursive tag union, got %s", merged)
	}
	if _, ok := merged.Flat.Tags["Cons"]; !ok {
		t.Fatalf("merged result lost the Cons tag, got %s", merged)
	}
	if _, ok := merged.Flat.Tags["Nil"]; !ok {
		t.Fatalf("merged result lost the Nil tag, got %s", merged)
	}
}

// buildConsList installs a RecursiveTagUnion(rec, {Cons: [elem, rec], Nil:
// []}, {}) content onto rec and returns it - a minimal self-referential
// list type with elem as its element type symbol.
func buildConsList(s *store.Store, rec types.Variable, elem string) types.Variable {
	tags := map[string][]types.Variable{
		"Cons": {apply0(s, elem), rec},
		"Nil":  {},
	}
	s.SetDescriptor(rec, types.Descriptor{Content: types.Structure(types.RecursiveTagUnion(rec, tags, emptyTagUnion(s)))})
	return rec
}

func TestSnapshotRollbackBitIdentical(t *testing.T) {
	s := store.New()
	alpha := flex(s)
	left := tagUnion(s, map[string][]types.Variable{"Blue": {}}, alpha)
	right := tagUnion(s, map[string][]types.Variable{"Red": {}, "Green": {}}, emptyTagUnion(s))

	alphaBefore := s.Get(alpha)

	u := Unify(s, left, right, Options{})
	if u.Kind != Failure {
		t.Fatalf("[Blue]a ~ [Red, Green] should fail, got %+v", u)
	}
	if got := s.Get(alpha); !reflect.DeepEqual(got, alphaBefore) {
		t.Fatalf("alpha should be untouched by the rolled-back branch: before=%s after=%s", spew.Sdump(alphaBefore), spew.Sdump(got))
	}
}

func TestErrorPropagation(t *testing.T) {
	s := store.New()
	errVar := s.Fresh(types.Descriptor{Content: types.ErrorContent()})
	other := apply0(s, "Int")

	u := Unify(s, errVar, other, Options{})
	if u.Kind != Success {
		t.Fatalf("Error ~ X should succeed, got %+v", u)
	}
	if got := s.Get(errVar).Content.Kind; got != types.KindError {
		t.Fatalf("root should remain Error, got %s", got)
	}
}

// --- Concrete scenarios ---

func TestScenarioA_FlexWithApply(t *testing.T) {
	s := store.New()
	f := flex(s)
	i := apply0(s, "Int")

	u := Unify(s, f, i, Options{})
	if u.Kind != Success {
		t.Fatalf("scenario A: want Success, got %+v", u)
	}
	if got := s.Get(f).Content; got.Kind != types.KindStructure || got.Flat.Symbol != "Int" {
		t.Fatalf("scenario A: root content = %s, want Structure(Apply(Int, []))", got)
	}
}

func TestScenarioB_RigidVsRigid(t *testing.T) {
	s := store.New()
	a := rigid(s, "a")
	b := rigid(s, "a")

	u := Unify(s, a, b, Options{})
	if u.Kind != Failure {
		t.Fatalf("scenario B: want Failure, got %+v", u)
	}
}

func TestScenarioC_RecordRowPolymorphism(t *testing.T) {
	s := store.New()
	intVar1 := apply0(s, "Int")
	intVar2 := apply0(s, "Int")
	strVar := apply0(s, "Str")

	ext1 := flex(s)
	left := record(s, map[string]types.RecordField{"x": req(intVar1)}, ext1)
	right := record(s, map[string]types.RecordField{
		"x": opt(intVar2),
		"y": req(strVar),
	}, emptyRecord(s))

	u := Unify(s, left, right, Options{})
	if u.Kind != Success {
		t.Fatalf("scenario C: want Success, got %+v", u)
	}

	root := s.Get(left).Content
	if root.Flat.Fields["x"].Kind != types.FieldRequired {
		t.Fatalf("scenario C: field x should become Required, got %s", root.Flat.Fields["x"].Kind)
	}
	ext1Content := s.Get(ext1).Content
	if ext1Content.Kind != types.KindStructure || ext1Content.Flat.Kind != types.KindRecord {
		t.Fatalf("scenario C: ext1 should close to a record, got %s", ext1Content)
	}
	if _, ok := ext1Content.Flat.Fields["y"]; !ok {
		t.Fatalf("scenario C: ext1 should carry field y, got %s", ext1Content)
	}
	terminal := s.Get(ext1Content.Flat.Ext).Content
	if terminal.Kind != types.KindStructure || terminal.Flat.Kind != types.KindEmptyRecord {
		t.Fatalf("scenario C: ext1's extension should terminate at EmptyRecord, got %s", terminal)
	}
}

func TestScenarioD_TagUnionMismatchRollsBack(t *testing.T) {
	s := store.New()
	alpha := flex(s)
	left := tagUnion(s, map[string][]types.Variable{"Blue": {}}, alpha)
	right := tagUnion(s, map[string][]types.Variable{"Red": {}, "Green": {}}, emptyTagUnion(s))

	alphaBefore := s.Get(alpha)

	u := Unify(s, left, right, Options{})
	if u.Kind != Failure {
		t.Fatalf("scenario D: want Failure, got %+v", u)
	}
	if s.Get(left).Content.Kind != types.KindError || s.Get(right).Content.Kind != types.KindError {
		t.Fatalf("scenario D: both vars should become Error")
	}
	if got := s.Get(alpha); !reflect.DeepEqual(got, alphaBefore) {
		t.Fatalf("scenario D: alpha should be unchanged by the rolled-back branch")
	}
}

func TestScenarioE_FuncArityMismatch(t *testing.T) {
	s := store.New()
	intVar := apply0(s, "Int")
	boolVar1 := apply0(s, "Bool")
	boolVar2 := apply0(s, "Bool")

	left := s.Fresh(types.Descriptor{Content: types.Structure(types.Func([]types.Variable{intVar}, flex(s), boolVar1))})
	right := s.Fresh(types.Descriptor{Content: types.Structure(types.Func(
		[]types.Variable{apply0(s, "Int"), apply0(s, "Int")}, flex(s), boolVar2,
	))})

	u := Unify(s, left, right, Options{})
	if u.Kind != Failure {
		t.Fatalf("scenario E: want Failure, got %+v", u)
	}
}

func TestScenarioF_BooleanContainerAbsorbedByShared(t *testing.T) {
	s := store.New()
	c := flex(s)
	m1 := flex(s)

	left := s.Fresh(types.Descriptor{Content: types.Structure(types.BooleanFlat(types.ContainerBool(c, []types.Variable{m1})))})
	right := s.Fresh(types.Descriptor{Content: types.Structure(types.BooleanFlat(types.Shared()))})

	u := Unify(s, left, right, Options{})
	if u.Kind != Success {
		t.Fatalf("scenario F: want Success, got %+v", u)
	}
	if s.Get(c).Content.Flat.Bool.Kind != types.BoolShared {
		t.Fatalf("scenario F: c should become Shared")
	}
	if s.Get(m1).Content.Flat.Bool.Kind != types.BoolShared {
		t.Fatalf("scenario F: m1 should become Shared")
	}
	if s.Get(left).Content.Flat.Bool.Kind != types.BoolShared {
		t.Fatalf("scenario F: root should become Shared")
	}
}
