package unisearch

// Seed derives a stable non-negative number from a university name. The
// search provider carries no ranking or tuition data, so discovery and
// classification enrich rows with values drawn from this seed; the same
// name always produces the same stats.
func Seed(name string) int {
	var seed int32
	for _, ch := range name {
		seed = (seed << 5) - seed + int32(ch)
	}
	if seed < 0 {
		seed = -seed
	}
	return int(seed)
}

// MockRanking maps a name to a 1..500 world ranking.
func MockRanking(name string) int {
	return Seed(name)%500 + 1
}

// MockTuition maps a name to an annual tuition estimate of 10k..59k.
func MockTuition(name string) int {
	return (Seed(name)%50)*1000 + 10000
}

// MockAcceptanceRate maps a name to an acceptance rate in (0.05..0.94].
func MockAcceptanceRate(name string) float64 {
	return float64(Seed(name)%90+5) / 100
}

// DefaultAcceptanceRate estimates an acceptance rate from a ranking when
// the catalogue has none: top schools admit few, unranked ones admit most.
func DefaultAcceptanceRate(ranking int) float64 {
	switch {
	case ranking < 50:
		return 0.1
	case ranking < 200:
		return 0.3
	default:
		return 0.7
	}
}
