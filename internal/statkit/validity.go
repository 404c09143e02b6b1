package statkit

import (
	"fmt"
	"strings"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
)

// reviewThreshold is the item CVI below which an item is flagged for review.
const reviewThreshold = 0.8

// ContentValidity computes the item and scale content validity index of a
// judge panel. Each judge rates every item on the 1-4 relevance scale; the
// item CVI is the share of judges rating it 3 or 4, and the scale CVI is the
// mean of the item CVIs.
func ContentValidity(judges []stats.JudgeRatings) (*stats.ContentValidityResult, error) {
	if len(judges) == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "content validity needs at least 1 judge")
	}
	items := len(judges[0].Ratings)
	if items == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "content validity needs at least 1 item")
	}
	for j, judge := range judges {
		if len(judge.Ratings) != items {
			return nil, core.NewInvalidInputError(core.ErrLengthMismatch, "judge %s rated %d items, expected %d", judgeLabel(judge.JudgeID, j), len(judge.Ratings), items)
		}
		for i, rating := range judge.Ratings {
			if err := checkRating(rating); err != nil {
				return nil, fmt.Errorf("judge %s, item %d: %w", judgeLabel(judge.JudgeID, j), i+1, err)
			}
		}
	}

	itemCVI := make([]float64, items)
	for i := 0; i < items; i++ {
		relevant := 0
		for _, judge := range judges {
			if judge.Ratings[i] >= stats.RelevantRating {
				relevant++
			}
		}
		itemCVI[i] = float64(relevant) / float64(len(judges))
	}

	scaleCVI := 0.0
	for _, cvi := range itemCVI {
		scaleCVI += cvi
	}
	scaleCVI /= float64(items)

	review := []int{}
	recommendations := []string{}
	for i, cvi := range itemCVI {
		if cvi < reviewThreshold {
			review = append(review, i)
			recommendations = append(recommendations, fmt.Sprintf("Review item %d (CVI: %.2f)", i+1, cvi))
		}
	}

	band := ValidityBandFor(scaleCVI)
	return &stats.ContentValidityResult{
		Judges:          len(judges),
		ItemCVI:         itemCVI,
		ScaleCVI:        scaleCVI,
		Band:            band,
		ItemsForReview:  review,
		Recommendations: recommendations,
		Interpretation:  validityInterpretation(band),
	}, nil
}

// ExpertJudgment computes per-dimension CVIs (relevance, clarity, coherence)
// for a panel where every expert rates every item. Items are reported in the
// order the first expert listed them.
//
// Expert agreement is the share of (item, dimension) cells on which all
// experts fall on the same side of the relevance cut-off.
func ExpertJudgment(panel []stats.ExpertEvaluation) (*stats.ExpertJudgmentResult, error) {
	if len(panel) == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "expert judgment needs at least 1 expert")
	}
	order := panel[0].Ratings
	if len(order) == 0 {
		return nil, core.NewInvalidInputError(core.ErrInsufficientData, "expert judgment needs at least 1 item")
	}

	indexed := make([]map[string]stats.ExpertItemRating, len(panel))
	for e, expert := range panel {
		label := judgeLabel(expert.ExpertID, e)
		if len(expert.Ratings) != len(order) {
			return nil, core.NewInvalidInputError(core.ErrLengthMismatch, "expert %s rated %d items, expected %d", label, len(expert.Ratings), len(order))
		}
		byItem := make(map[string]stats.ExpertItemRating, len(expert.Ratings))
		for _, r := range expert.Ratings {
			id := strings.TrimSpace(r.ItemID)
			if id == "" {
				return nil, core.NewInvalidInputError(core.ErrInvalidInput, "expert %s has a rating without item id", label)
			}
			if _, dup := byItem[id]; dup {
				return nil, core.NewInvalidInputError(core.ErrInvalidInput, "expert %s rated item %q twice", label, id)
			}
			for _, rating := range []int{r.Relevance, r.Clarity, r.Coherence} {
				if err := checkRating(rating); err != nil {
					return nil, fmt.Errorf("expert %s, item %s: %w", label, id, err)
				}
			}
			byItem[id] = r
		}
		indexed[e] = byItem
	}

	experts := float64(len(panel))
	items := make([]stats.ItemDimensionCVI, len(order))
	agreeing, cells := 0, 0
	scaleCVI := 0.0
	for i, first := range order {
		id := strings.TrimSpace(first.ItemID)
		var relevance, clarity, coherence [2]int // [not relevant, relevant]
		for e, byItem := range indexed {
			r, ok := byItem[id]
			if !ok {
				return nil, core.NewInvalidInputError(core.ErrInvalidInput, "expert %s did not rate item %q", judgeLabel(panel[e].ExpertID, e), id)
			}
			relevance[relevantIndex(r.Relevance)]++
			clarity[relevantIndex(r.Clarity)]++
			coherence[relevantIndex(r.Coherence)]++
		}

		items[i] = stats.ItemDimensionCVI{
			ItemID:       id,
			RelevanceCVI: float64(relevance[1]) / experts,
			ClarityCVI:   float64(clarity[1]) / experts,
			CoherenceCVI: float64(coherence[1]) / experts,
		}
		scaleCVI += items[i].Mean()

		for _, counts := range [][2]int{relevance, clarity, coherence} {
			cells++
			if counts[0] == 0 || counts[1] == 0 {
				agreeing++
			}
		}
	}
	scaleCVI /= float64(len(items))
	agreement := float64(agreeing) / float64(cells)

	return &stats.ExpertJudgmentResult{
		Experts:         len(panel),
		Items:           items,
		ScaleCVI:        scaleCVI,
		ExpertAgreement: agreement,
		Band:            ValidityBandFor(scaleCVI),
		Recommendations: expertRecommendations(items, agreement),
	}, nil
}

// ValidityBandFor maps a CVI onto the interpretation bands.
func ValidityBandFor(cvi float64) stats.ValidityBand {
	switch {
	case cvi >= 0.9:
		return stats.ValidityExcellent
	case cvi >= 0.8:
		return stats.ValidityGood
	case cvi >= 0.7:
		return stats.ValidityAcceptable
	default:
		return stats.ValidityInsufficient
	}
}

func validityInterpretation(band stats.ValidityBand) string {
	switch band {
	case stats.ValidityExcellent:
		return "Excellent content validity"
	case stats.ValidityGood:
		return "Good content validity"
	case stats.ValidityAcceptable:
		return "Acceptable content validity"
	default:
		return "Insufficient content validity"
	}
}

func expertRecommendations(items []stats.ItemDimensionCVI, agreement float64) []string {
	recommendations := []string{}
	for _, item := range items {
		dims := []struct {
			name string
			cvi  float64
		}{
			{"relevance", item.RelevanceCVI},
			{"clarity", item.ClarityCVI},
			{"coherence", item.CoherenceCVI},
		}
		for _, d := range dims {
			if d.cvi < reviewThreshold {
				recommendations = append(recommendations, fmt.Sprintf("Revise the %s of item %s (CVI: %.2f)", d.name, item.ItemID, d.cvi))
			}
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "All items meet the 0.80 CVI criterion on every dimension")
	}
	if agreement < reviewThreshold {
		recommendations = append(recommendations, fmt.Sprintf("Expert agreement is %.2f; consider a second validation round", agreement))
	}
	return recommendations
}

func checkRating(rating int) error {
	if rating < stats.MinRating || rating > stats.MaxRating {
		return core.NewInvalidInputError(core.ErrRatingOutOfRange, "rating %d outside %d..%d", rating, stats.MinRating, stats.MaxRating)
	}
	return nil
}

func relevantIndex(rating int) int {
	if rating >= stats.RelevantRating {
		return 1
	}
	return 0
}

func judgeLabel(id string, index int) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return fmt.Sprintf("#%d", index+1)
}
