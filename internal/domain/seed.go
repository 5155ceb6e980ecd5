package domain

import "golang.org/x/text/unicode/norm"

// Seed drives pool selection in the fallback generator.
type Seed int64

// SeedOf sums the code points of the NFC-normalised name and adds the
// birth date's epoch milliseconds at UTC midnight. An unparseable date
// contributes nothing.
func SeedOf(name, birthDate string) Seed {
	var sum int64
	for _, r := range norm.NFC.String(name) {
		sum += int64(r)
	}
	if t, err := ParseBirthDate(birthDate); err == nil {
		sum += t.UnixMilli()
	}
	return Seed(sum)
}

// Index returns a non-negative index in [0, n). n must be positive.
func (s Seed) Index(n int) int {
	m := int64(s) % int64(n)
	if m < 0 {
		m += int64(n)
	}
	return int(m)
}

func pick(s Seed, pool []string) string {
	return pool[s.Index(len(pool))]
}
