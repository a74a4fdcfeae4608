package recommend

import "github.com/trackworks/coasterec/internal/domain"

// buildRequest assembles the engine payload. Pure: identical inputs yield
// byte-identical payloads.
//
// The countries list starts with the user's home country, followed by the
// accessible countries in edge order. No de-duplication and no sorting:
// the same country reachable via multiple edges appears multiple times,
// matching what the engine has always been fed.
func buildRequest(user domain.User, edges []domain.AccessEdge, ratings []domain.Rating, topK int) domain.RecommendRequest {
	countries := make([]string, 0, 1+len(edges))
	countries = append(countries, user.Country)
	for _, e := range edges {
		countries = append(countries, e.AccessibleCountry)
	}

	rated := make([]domain.RatedCoaster, 0, len(ratings))
	for _, r := range ratings {
		rated = append(rated, domain.RatedCoaster{CoasterID: r.CoasterID, Rating: r.Value})
	}

	return domain.RecommendRequest{
		Countries: countries,
		Ratings:   rated,
		TopK:      topK,
	}
}
