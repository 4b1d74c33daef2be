package digest

import (
	"bytes"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type organization struct {
	name        string
	departments map[string]*department
}

type department struct {
	deptName  string
	parentOrg *organization
}

type node struct {
	Name string
	Next *node
}

type pair struct{ A, B int }

type empty struct{}

func canonical(t *testing.T, opts Options, v any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(opts).Walk(&buf, v))
	return buf.String()
}

func TestWalkCanonicalStream(t *testing.T) {
	two := 2
	shared := &profile{title: "x"}

	tests := []struct {
		name string
		v    any
		want string
	}{
		{name: "nil", v: nil, want: ""},
		{name: "scalar", v: 42, want: "42"},
		{name: "struct members sorted by name", v: struct {
			B string
			A int
		}{B: "x", A: 1}, want: "A1Bx"},
		{name: "sequence without separators", v: []any{1, "a", nil, []int{2, 3}}, want: "1a23"},
		{name: "array", v: [2]bool{true, false}, want: "truefalse"},
		{name: "map sorted by key", v: map[string]int{"b": 2, "a": 1, "c": 3}, want: "a1b2c3"},
		{name: "nil map value skipped", v: map[string]*int{"a": nil, "b": &two}, want: "b2"},
		{name: "nil key and nil value skipped", v: map[any]any{nil: nil, "k": "v"}, want: "kv"},
		{name: "nil key with value", v: map[any]any{nil: "v"}, want: "v"},
		{name: "mixed key types", v: map[any]int{"1": 1, 1: 2}, want: "1211"},
		{name: "struct keys", v: map[pair]int{{A: 1, B: 2}: 3}, want: "A1B23"},
		{name: "nil member skipped after its name", v: struct{ P *int }{}, want: "P"},
		{name: "shared reference entered once", v: struct{ L, R *profile }{L: shared, R: shared}, want: "LtitlexR"},
		{name: "unexported big number in map value", v: map[string]struct{ amount *big.Int }{"x": {amount: big.NewInt(7)}}, want: "xamount7"},
		{name: "unexported decimal behind interface", v: struct{ v any }{v: struct{ d decimal.Decimal }{d: decimal.RequireFromString("2.25")}}, want: "vd2.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonical(t, Options{}, tt.v))
		})
	}
}

func TestWalkKeyTies(t *testing.T) {
	a1, a2 := "a", "a"
	nan := map[float64]string{}
	nan[math.NaN()] = "y"
	nan[math.NaN()] = "x"

	tests := []struct {
		name string
		opts Options
		v    any
		want string
	}{
		{
			name: "pointer keys to equal values",
			v:    map[*string]int{&a1: 1, &a2: 2},
			want: "a1a2",
		},
		{
			name: "struct keys rendering alike",
			v:    map[struct{ A, B string }]int{{A: "", B: "B"}: 1, {A: "B", B: ""}: 2},
			want: "ABB1ABB2",
		},
		{
			name: "NaN keys",
			v:    nan,
			want: "NaNxNaNy",
		},
		{
			name: "excluded members do not order entries",
			opts: Options{Exclude: func(p string) bool { return strings.HasSuffix(p, ".A") }},
			v: map[*string]struct {
				A string
				N int
			}{&a1: {A: "a", N: 2}, &a2: {A: "b", N: 1}},
			want: "aN1aN2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				require.Equal(t, tt.want, canonical(t, tt.opts, tt.v))
			}
		})
	}
}

func TestWalkZeroSizeReferences(t *testing.T) {
	v := struct{ L, R *empty }{L: new(empty), R: new(empty)}
	assert.Equal(t, "LR", canonical(t, Options{MarkRevisits: true}, v))
}

func newOrg() *organization {
	org := &organization{name: "TechCorp", departments: map[string]*department{}}
	org.departments["ENG_01"] = &department{deptName: "Engineering", parentOrg: org}
	return org
}

func TestWalkCycle(t *testing.T) {
	org := newOrg()
	assert.Equal(t, "departmentsENG_01deptNameEngineeringparentOrgnameTechCorp", canonical(t, Options{}, org))

	a := &node{Name: "a"}
	a.Next = &node{Name: "b", Next: a}
	assert.Equal(t, "NameaNextNamebNext", canonical(t, Options{}, a))
	assert.Equal(t, "NameaNextNamebNext<cycle>", canonical(t, Options{MarkRevisits: true}, a))

	self := map[string]any{}
	self["me"] = self
	assert.Equal(t, "me", canonical(t, Options{}, self))
}

func TestWalkCyclicMapKey(t *testing.T) {
	type keyed struct {
		back map[*node]int
	}
	k := &node{Name: "k"}
	k.Next = k
	holder := &keyed{back: map[*node]int{k: 1}}
	assert.Equal(t, "backNamekNext1", canonical(t, Options{}, holder))

	k.Next = &node{Name: "inner"}
	assert.Equal(t, "backNamekNextNameinnerNext1", canonical(t, Options{}, holder))
}

func TestWalkExclusion(t *testing.T) {
	u := newUserAccount()
	base := canonical(t, Options{}, u)
	assert.NotContains(t, base, "secret_123")
	assert.NotContains(t, base, "internalToken")

	u.internalToken = "rotated"
	assert.Equal(t, base, canonical(t, Options{}, u))

	u.username = "other"
	assert.NotEqual(t, base, canonical(t, Options{}, u))

	var seen []string
	exclude := func(p string) bool {
		seen = append(seen, p)
		return p == "profile.title" || strings.HasPrefix(p, "tags.1")
	}
	v := struct {
		profile *profile
		tags    []string
	}{profile: &profile{title: "dev"}, tags: []string{"a", "b"}}
	assert.Equal(t, "profiletagsa", canonical(t, Options{Exclude: exclude}, v))
	assert.Contains(t, seen, "tags.0")
}

func TestWalkDescriber(t *testing.T) {
	assert.Equal(t, "a1b2", canonical(t, Options{}, &described{a: 1, b: 2}))
	assert.Equal(t, "xa1b2", canonical(t, Options{}, map[string]*described{"x": {a: 1, b: 2}}))
}

func TestWalkIntrospectionError(t *testing.T) {
	v := struct {
		Handlers map[string]func()
	}{Handlers: map[string]func(){"x": func() {}}}

	err := New(Options{}).Walk(&bytes.Buffer{}, v)
	var ie *IntrospectionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Handlers.x", ie.Path)

	err = New(Options{}).Walk(&bytes.Buffer{}, []any{&described{fail: true}})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "0", ie.Path)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWalkWriteError(t *testing.T) {
	err := New(Options{}).Walk(failingWriter{}, "x")
	assert.EqualError(t, err, "closed")
}

func TestWalkLogsRevisits(t *testing.T) {
	var lines []string
	log := funcr.New(func(prefix, args string) { lines = append(lines, args) }, funcr.Options{Verbosity: 2})
	canonical(t, Options{Logger: log}, newOrg())
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"path"="departments.ENG_01.parentOrg"`)
}
