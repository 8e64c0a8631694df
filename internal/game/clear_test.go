package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateGarbage(t *testing.T) {
	cases := []struct {
		name  string
		typ   ClearType
		b2b   bool
		combo int
		want  int
	}{
		{"single sends nothing", ClearSingle, false, 0, 0},
		{"double", ClearDouble, false, 0, 1},
		{"triple", ClearTriple, false, 0, 2},
		{"quad", ClearQuad, false, 0, 4},
		{"penta", ClearPenta, false, 0, 5},
		{"hex", ClearHex, false, 0, 6},
		{"hepta", ClearHepta, false, 0, 7},
		{"octa", ClearOcta, false, 0, 8},
		{"back-to-back adds one", ClearQuad, true, 0, 5},
		{"combo adds half rounded down", ClearQuad, false, 5, 6},
		{"everything stacks", ClearOcta, true, 4, 11},
		{"none", ClearNone, false, 0, 0},
		{"unknown type is base zero", ClearType("mega"), false, 0, 0},
		{"unknown type still gets bonuses", ClearType("mega"), true, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateGarbage(tc.typ, tc.b2b, tc.combo))
		})
	}
}

func TestCalculateGarbageIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, 6, CalculateGarbage(ClearQuad, true, 2))
	}
}

func TestApplyClearFirstQuad(t *testing.T) {
	s := *NewSession("a")

	res := ApplyClear(s, ClearClaim{Type: ClearQuad, Lines: 4})

	require.Equal(t, 400, res.Score)
	require.Equal(t, 400, res.Points)
	require.Equal(t, 1, res.ComboCount)
	require.False(t, res.BackToBack, "no prior quad, so no back-to-back")
	require.Equal(t, ClearQuad, res.LastClearType)
	require.Equal(t, 4, res.Garbage)
}

func TestApplyClearBackToBackQuad(t *testing.T) {
	s := Session{Score: 400, ComboCount: 1, LastClearType: ClearQuad}

	res := ApplyClear(s, ClearClaim{Type: ClearQuad, Lines: 4})

	require.True(t, res.BackToBack)
	require.Equal(t, 2, res.ComboCount)
	require.Equal(t, 450, res.Points)
	require.Equal(t, 850, res.Score)
	require.Equal(t, 6, res.Garbage, "base 4 + b2b 1 + floor(2/2)")
}

func TestApplyClearEmptyClaimResetsCombo(t *testing.T) {
	s := Session{Score: 100, ComboCount: 5, BackToBack: true, LastClearType: ClearQuad}

	res := ApplyClear(s, ClearClaim{Type: ClearNone, Lines: 0})

	assert.Equal(t, 0, res.ComboCount)
	assert.False(t, res.BackToBack)
	assert.Equal(t, 100, res.Score, "no lines, no points")
	assert.Equal(t, ClearNone, res.LastClearType, "empty clear still records its type")
	assert.Equal(t, 0, res.Garbage)
}

func TestApplyClearEmptySequenceStaysReset(t *testing.T) {
	s := Session{ComboCount: 3, LastClearType: ClearOcta}
	for i := 0; i < 5; i++ {
		res := ApplyClear(s, ClearClaim{Type: ClearNone, Lines: 0})
		assert.Equal(t, 0, res.ComboCount)
		assert.False(t, res.BackToBack)
		s.ComboCount = res.ComboCount
		s.BackToBack = res.BackToBack
		s.LastClearType = res.LastClearType
	}
}

func TestBackToBackOnlyOnHardTiers(t *testing.T) {
	cases := []struct {
		name string
		prev ClearType
		typ  ClearType
		want bool
	}{
		{"quad after quad", ClearQuad, ClearQuad, true},
		{"hex after hex", ClearHex, ClearHex, true},
		{"octa after octa", ClearOcta, ClearOcta, true},
		{"single after single never qualifies", ClearSingle, ClearSingle, false},
		{"hex after quad is not a repeat", ClearQuad, ClearHex, false},
		{"penta after penta is not a hard tier", ClearPenta, ClearPenta, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Session{LastClearType: tc.prev}
			res := ApplyClear(s, ClearClaim{Type: tc.typ, Lines: 1})
			assert.Equal(t, tc.want, res.BackToBack)
		})
	}
}

func TestClearTypeForLines(t *testing.T) {
	want := map[int]ClearType{
		1: ClearSingle, 2: ClearDouble, 3: ClearTriple, 4: ClearQuad,
		5: ClearPenta, 6: ClearHex, 7: ClearHepta, 8: ClearOcta,
	}
	for n, typ := range want {
		assert.Equal(t, typ, ClearTypeForLines(n))
	}
	assert.Equal(t, ClearNone, ClearTypeForLines(0))
	assert.Equal(t, ClearNone, ClearTypeForLines(9))
}
