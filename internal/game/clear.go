package game

// ClearType tags how many rows a single clear removed.
type ClearType string

const (
	ClearNone   ClearType = ""
	ClearSingle ClearType = "single"
	ClearDouble ClearType = "double"
	ClearTriple ClearType = "triple"
	ClearQuad   ClearType = "quad"
	ClearPenta  ClearType = "penta"
	ClearHex    ClearType = "hex"
	ClearHepta  ClearType = "hepta"
	ClearOcta   ClearType = "octa"
)

// Base garbage per tier. Types not listed (including ClearNone and any tag
// a client invents) are base 0 and processed normally.
var garbageBase = map[ClearType]int{
	ClearSingle: 0,
	ClearDouble: 1,
	ClearTriple: 2,
	ClearQuad:   4,
	ClearPenta:  5,
	ClearHex:    6,
	ClearHepta:  7,
	ClearOcta:   8,
}

var clearTypeForLines = map[int]ClearType{
	1: ClearSingle, 2: ClearDouble, 3: ClearTriple, 4: ClearQuad,
	5: ClearPenta, 6: ClearHex, 7: ClearHepta, 8: ClearOcta,
}

// ClearTypeForLines maps a cleared row count to its tag. Counts outside
// 1..8 have no tag.
func ClearTypeForLines(n int) ClearType {
	return clearTypeForLines[n]
}

// hardTier reports whether t qualifies for the back-to-back bonus.
func hardTier(t ClearType) bool {
	return t == ClearQuad || t == ClearHex || t == ClearOcta
}

// ClearClaim is a session's report that it cleared Lines rows, either from
// a piece lock or from the auto-clear after a board resize.
type ClearClaim struct {
	Type  ClearType
	Lines int
}

// ClearResult is everything one claim changes or emits.
type ClearResult struct {
	Score         int
	ComboCount    int
	BackToBack    bool
	LastClearType ClearType
	Points        int
	Garbage       int
}

// ApplyClear runs one clear claim against a session's prior streak state.
// Pure: the session is taken by value and never touched.
//
// Back-to-back requires the claim to repeat the previous clear type and
// that type to be a hard tier; the combo counts consecutive non-empty
// clears and resets on an empty one.
func ApplyClear(s Session, claim ClearClaim) ClearResult {
	b2b := hardTier(claim.Type) && claim.Type == s.LastClearType
	combo := 0
	if claim.Lines > 0 {
		combo = s.ComboCount + 1
	}
	points := claim.Lines * 100
	if b2b {
		points += 50
	}
	return ClearResult{
		Score:         s.Score + points,
		ComboCount:    combo,
		BackToBack:    b2b,
		LastClearType: claim.Type,
		Points:        points,
		Garbage:       CalculateGarbage(claim.Type, b2b, combo),
	}
}

// CalculateGarbage returns the number of penalty rows a clear sends to each
// opponent: the tier base, +1 for back-to-back, plus half the combo count
// rounded down.
func CalculateGarbage(t ClearType, backToBack bool, comboCount int) int {
	n := garbageBase[t]
	if backToBack {
		n++
	}
	return n + comboCount/2
}
