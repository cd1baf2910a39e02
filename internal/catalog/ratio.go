package catalog

// The vendor encodes aspect ratios as small integers. The table is closed;
// both maps must stay in sync.
var ratioByType = map[int]string{
	1: "1:1",
	2: "3:4",
	3: "16:9",
	4: "4:3",
	5: "9:16",
	6: "2:3",
	7: "3:2",
	8: "21:9",
}

var typeByRatio = map[string]int{
	"1:1":  1,
	"3:4":  2,
	"16:9": 3,
	"4:3":  4,
	"9:16": 5,
	"2:3":  6,
	"3:2":  7,
	"21:9": 8,
}

// RatioType converts a ratio string to the vendor ratio code. Unknown strings
// fall back to the 1:1 code, matching the upstream service.
// TODO: tighten unknown ratio strings into an explicit error once callers can
// distinguish a typo from an intentional 1:1 request.
func RatioType(ratio string) int {
	if t, ok := typeByRatio[ratio]; ok {
		return t
	}
	return 1
}

// RatioString converts a vendor ratio code back to its string form. Codes
// outside the table report ok=false; callers decide whether to drop or fail.
func RatioString(ratioType int) (string, bool) {
	s, ok := ratioByType[ratioType]
	return s, ok
}
