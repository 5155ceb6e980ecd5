package domain

import "fmt"

// TribulationOffset is added to the birth year to name the year of trial.
const TribulationOffset = 20

// Generate builds a fortune locally from the name and birth date. It is
// deterministic and never fails; callers validate inputs beforehand.
func Generate(name, birthDate string) FortuneResult {
	seed := SeedOf(name, birthDate)

	// A bad date is a caller bug; year 0 keeps the output well-formed.
	var year int
	if t, err := ParseBirthDate(birthDate); err == nil {
		year = t.Year()
	}

	root := pick(seed, spiritRoots)
	realm := pick(seed, realms)
	artifact := pick(seed, artifacts)

	return FortuneResult{
		SpiritRoot:    root,
		Realm:         realm,
		Element:       pick(seed, elements),
		Poem:          pick(seed, poems),
		Analysis:      fmt.Sprintf(analysisTemplate, name, birthDate, root, realm, year+TribulationOffset, artifact),
		LuckyArtifact: artifact,
	}
}
