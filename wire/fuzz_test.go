package wire

import "testing"

// FuzzDecode seeds from the wire examples scattered through spec.md and
// confirms DecodePacket never panics on arbitrary input, per spec.md §8's fuzz
// requirement.
func FuzzDecode(f *testing.F) {
	seeds := []string{
		"8200036053303045390D0A",
		"82070360004000130D0A",
		"870203610201840612010743008D0D0A",
		"",
		"?",
		"\r\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, line string) {
		DecodePacket(line, Lenient)
	})
}
