package counsellor

import (
	"strconv"

	"github.com/educompass/educompass-backend/internal/clients/unisearch"
	"github.com/educompass/educompass-backend/internal/types"
)

const (
	CategoryDream  = types.CategoryDream
	CategoryTarget = types.CategoryTarget
	CategorySafe   = types.CategorySafe
)

// Candidate is one university considered for the context sample. Ranking
// and AcceptanceRate may be zero when the source carries no data; Classify
// fills them from the deterministic default policy.
type Candidate struct {
	Name           string
	Country        string
	Ranking        int
	AcceptanceRate float64
	TuitionFee     string
}

// ClassificationStats carries the inputs that produced a category, so the
// model can explain the label instead of re-deriving it.
type ClassificationStats struct {
	Ranking        int     `json:"ranking"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	RequiredGPA    float64 `json:"req_gpa"`
}

type ClassifiedUniversity struct {
	Name     string              `json:"name"`
	Country  string              `json:"country"`
	Category string              `json:"category"`
	Stats    ClassificationStats `json:"stats"`
}

// requiredGPA estimates the GPA a school expects from its ranking band.
func requiredGPA(ranking int) float64 {
	switch {
	case ranking <= 50:
		return 3.8
	case ranking <= 100:
		return 3.5
	case ranking <= 300:
		return 3.0
	default:
		return 2.5
	}
}

// Classify buckets a university as Dream, Target or Safe for a given GPA.
//
// The rule order is load-bearing: ranking band sets the required GPA, the
// GPA gap and acceptance rate adjust a score, the score picks a category,
// and the top-20 override runs last and unconditionally wins.
func Classify(c Candidate, userGPA float64) ClassifiedUniversity {
	ranking := c.Ranking
	if ranking <= 0 {
		ranking = unisearch.MockRanking(c.Name)
	}
	acceptanceRate := c.AcceptanceRate
	if acceptanceRate <= 0 {
		acceptanceRate = unisearch.DefaultAcceptanceRate(ranking)
	}

	reqGPA := requiredGPA(ranking)

	score := 0
	gpaDiff := userGPA - reqGPA
	switch {
	case gpaDiff >= 0.2:
		score += 3
	case gpaDiff >= -0.1:
		score += 1
	default:
		score -= 2
	}

	if acceptanceRate > 0.5 {
		score++
	}
	if acceptanceRate < 0.2 {
		score--
	}

	category := CategoryDream
	if score >= 3 {
		category = CategorySafe
	} else if score >= 0 {
		category = CategoryTarget
	}

	// Top-20 schools stay a reach for anyone below an elite GPA, whatever
	// the score said.
	if ranking <= 20 && userGPA < 3.9 {
		category = CategoryDream
	}

	return ClassifiedUniversity{
		Name:     c.Name,
		Country:  c.Country,
		Category: category,
		Stats: ClassificationStats{
			Ranking:        ranking,
			AcceptanceRate: acceptanceRate,
			RequiredGPA:    reqGPA,
		},
	}
}

// ClassifyAll classifies every candidate and returns the results grouped
// and ordered Dream, Target, Safe.
func ClassifyAll(candidates []Candidate, userGPA float64) []ClassifiedUniversity {
	var dream, target, safe []ClassifiedUniversity
	for _, c := range candidates {
		classified := Classify(c, userGPA)
		switch classified.Category {
		case CategoryDream:
			dream = append(dream, classified)
		case CategoryTarget:
			target = append(target, classified)
		default:
			safe = append(safe, classified)
		}
	}
	out := make([]ClassifiedUniversity, 0, len(candidates))
	out = append(out, dream...)
	out = append(out, target...)
	out = append(out, safe...)
	return out
}

// ParseGPA reads a stored GPA string, falling back to a middling 3.0 when
// the profile has none or it does not parse.
func ParseGPA(raw string) float64 {
	gpa, err := strconv.ParseFloat(raw, 64)
	if err != nil || gpa <= 0 {
		return 3.0
	}
	return gpa
}
