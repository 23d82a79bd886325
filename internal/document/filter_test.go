package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPaths(t *testing.T, list string) []Path {
	t.Helper()
	paths, err := ParsePaths(list)
	require.NoError(t, err)
	return paths
}

func TestFilterKeepsOnlyRequestedLeaves(t *testing.T) {
	doc := MustParse(`{"name":{"common":"France","official":"French Republic"},"area":1}`)
	got := Filter(doc, mustPaths(t, "name.common"))
	assert.JSONEq(t, `{"name":{"common":"France"}}`, got.String())
}

func TestFilterSkipsAbsentPaths(t *testing.T) {
	doc := MustParse(`{"name":{"common":"France"},"area":551695,"tld":[".fr"]}`)
	got := Filter(doc, mustPaths(t, "area,name.native,population,tld.0,area.km"))
	assert.JSONEq(t, `{"area":551695}`, got.String())
}

func TestFilterSharedPrefix(t *testing.T) {
	doc := MustParse(`{"b":{"c":30,"d":45.5,"e":"abc"},"a":10}`)
	got := Filter(doc, mustPaths(t, "b.c,b.d"))
	assert.JSONEq(t, `{"b":{"c":30,"d":45.5}}`, got.String())
}

func TestFilterPrefixCoversChildren(t *testing.T) {
	doc := MustParse(`{"name":{"common":"France","official":"French Republic"}}`)
	got := Filter(doc, mustPaths(t, "name.common,name"))
	assert.JSONEq(t, doc.String(), got.String())
}

func TestFilterKeepsEmptyButPresentValues(t *testing.T) {
	doc := MustParse(`{"zero":0,"no":false,"empty":"","obj":{},"list":[],"nil":null}`)
	got := Filter(doc, mustPaths(t, "zero,no,empty,obj,list,nil"))
	assert.JSONEq(t, doc.String(), got.String())
}

func TestFilterWithoutPathsReturnsDocument(t *testing.T) {
	doc := MustParse(`{"a":1,"b":{"c":2}}`)
	assert.Equal(t, doc, Filter(doc, nil))
	assert.Equal(t, doc, Filter(doc, []Path{}))
}

func TestFilterNothingResolves(t *testing.T) {
	doc := MustParse(`{"a":1}`)
	got := Filter(doc, mustPaths(t, "b,c.d"))
	assert.JSONEq(t, `{}`, got.String())
}

func TestFilterOrderIndependent(t *testing.T) {
	doc := MustParse(`{"a":1,"b":{"c":2,"d":3},"e":[1,2]}`)
	first := Filter(doc, mustPaths(t, "e,b.d,a"))
	second := Filter(doc, mustPaths(t, "a,b.d,e"))
	assert.Equal(t, first.String(), second.String())
}

func TestFilterIdempotent(t *testing.T) {
	doc := MustParse(`{
		"name":{"common":"Peru","official":"Republic of Peru","nativeName":{"que":{"common":"Piruw"}}},
		"area":1285216,
		"population":32971846,
		"latlng":[-10,-76],
		"capital":["Lima"]
	}`)
	cases := []string{
		"name.common",
		"area,population,latlng",
		"name.nativeName.que.common,name.official,missing.path",
		"capital,name",
	}
	for _, list := range cases {
		paths := mustPaths(t, list)
		once := Filter(doc, paths)
		twice := Filter(once, paths)
		assert.JSONEq(t, once.String(), twice.String(), list)

		for _, p := range paths {
			want, inDoc := Resolve(doc, p)
			got, inOut := Resolve(once, p)
			assert.Equal(t, inDoc, inOut, p.String())
			if inDoc {
				assert.JSONEq(t, want.String(), got.String(), p.String())
			}
		}
	}
}
