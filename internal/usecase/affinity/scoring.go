package affinity

import "github.com/latidoapp/latido-backend/internal/domain"

// Attribute weights. The score is normalized over the weights of the
// comparable attributes, so it is exact at the boundaries: 1.0 iff every
// comparable attribute matches, 0.0 iff none do.
const (
	weightEmotion    = 35
	weightPurpose    = 35
	weightCity       = 15
	weightCountry    = 10
	weightAgeBracket = 5
)

// ageBracketTag marks two profiles falling into the same five-year age
// bracket; unlike the other tags there is no shared attribute value to show.
const ageBracketTag = "edad similar"

// Score computes the similarity between two profiles as a weighted
// attribute match, together with the shared tags ordered most relevant
// first. City and country are comparable only when at least one side has a
// value; a location neither profile filled in says nothing either way and
// drops out of the weighting. It is a pure function of the two profiles
// and symmetric in its arguments.
func Score(a, b *domain.Profile) (float64, []string) {
	matched, total := 0, 0
	var interests []string

	total += weightEmotion
	if a.EnergyEmotion == b.EnergyEmotion {
		matched += weightEmotion
		interests = append(interests, string(a.EnergyEmotion))
	}
	total += weightPurpose
	if a.PurposeOfLife == b.PurposeOfLife {
		matched += weightPurpose
		interests = append(interests, string(a.PurposeOfLife))
	}
	if a.City != "" || b.City != "" {
		total += weightCity
		if a.City == b.City {
			matched += weightCity
			interests = append(interests, a.City)
		}
	}
	if a.Country != "" || b.Country != "" {
		total += weightCountry
		if a.Country == b.Country {
			matched += weightCountry
			interests = append(interests, a.Country)
		}
	}
	total += weightAgeBracket
	if ageBracket(a.Age) == ageBracket(b.Age) {
		matched += weightAgeBracket
		interests = append(interests, ageBracketTag)
	}

	return float64(matched) / float64(total), interests
}

func ageBracket(age int) int {
	return (age - domain.MinAge) / 5
}
