package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
)

// SurveyGeneratorConfig configures the synthetic Likert survey generator.
// Every response is a shared latent trait scaled by Loading plus item noise
// of NoiseSD, mapped onto 1..ScalePoints. Higher loading against noise
// gives a more reliable scale.
type SurveyGeneratorConfig struct {
	Respondents int     `json:"respondents"`
	Items       int     `json:"items"`
	ScalePoints int     `json:"scale_points"`
	Loading     float64 `json:"loading"`
	NoiseSD     float64 `json:"noise_sd"`
	Seed        int64   `json:"seed"`
}

// DefaultSurveyConfig returns a 10-item 5-point survey of 120 respondents
// with a Cronbach alpha well above 0.8
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 120,
		Items:       10,
		ScalePoints: 5,
		Loading:     1.0,
		NoiseSD:     0.6,
		Seed:        42,
	}
}

// SurveyGenerator produces deterministic survey data for a seed
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a generator. Invalid sizes are rejected.
func NewSurveyGenerator(config SurveyGeneratorConfig) (*SurveyGenerator, error) {
	if config.Respondents < 2 {
		return nil, fmt.Errorf("respondents must be at least 2, got %d", config.Respondents)
	}
	if config.Items < 2 {
		return nil, fmt.Errorf("items must be at least 2, got %d", config.Items)
	}
	if config.ScalePoints < 2 {
		return nil, fmt.Errorf("scale points must be at least 2, got %d", config.ScalePoints)
	}
	if config.NoiseSD < 0 {
		return nil, fmt.Errorf("noise standard deviation cannot be negative")
	}
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}, nil
}

// RatingMatrix generates an items x respondents matrix
func (g *SurveyGenerator) RatingMatrix() stats.RatingMatrix {
	matrix := make(stats.RatingMatrix, g.config.Items)
	for i := range matrix {
		matrix[i] = make([]float64, g.config.Respondents)
	}
	for r := 0; r < g.config.Respondents; r++ {
		trait := g.rng.NormFloat64()
		for i := 0; i < g.config.Items; i++ {
			matrix[i][r] = g.likert(trait*g.config.Loading + g.rng.NormFloat64()*g.config.NoiseSD)
		}
	}
	return matrix
}

// Variables returns the items of a fresh matrix as named variables
// (item_1, item_2, ...)
func (g *SurveyGenerator) Variables() []stats.Variable {
	matrix := g.RatingMatrix()
	variables := make([]stats.Variable, len(matrix))
	for i, item := range matrix {
		variables[i] = stats.Variable{Name: fmt.Sprintf("item_%d", i+1), Data: item}
	}
	return variables
}

// Groups draws two normal samples whose means differ by shift standard
// deviations
func (g *SurveyGenerator) Groups(n1, n2 int, shift float64) ([]float64, []float64) {
	draw := func(n int, mean float64) []float64 {
		sample := make([]float64, n)
		for i := range sample {
			sample[i] = mean + g.rng.NormFloat64()
		}
		return sample
	}
	return draw(n1, shift), draw(n2, 0)
}

// JudgePanel rates Items on the 1-4 relevance scale for the given number of
// judges. Each rating is relevant (3 or 4) with probability relevantShare.
func (g *SurveyGenerator) JudgePanel(judges int, relevantShare float64) []stats.JudgeRatings {
	panel := make([]stats.JudgeRatings, judges)
	for j := range panel {
		ratings := make([]int, g.config.Items)
		for i := range ratings {
			ratings[i] = g.relevanceRating(relevantShare)
		}
		panel[j] = stats.JudgeRatings{JudgeID: fmt.Sprintf("judge_%d", j+1), Ratings: ratings}
	}
	return panel
}

// ExpertPanel rates every item on relevance, clarity and coherence
func (g *SurveyGenerator) ExpertPanel(experts int, relevantShare float64) []stats.ExpertEvaluation {
	panel := make([]stats.ExpertEvaluation, experts)
	for e := range panel {
		ratings := make([]stats.ExpertItemRating, g.config.Items)
		for i := range ratings {
			ratings[i] = stats.ExpertItemRating{
				ItemID:    fmt.Sprintf("item_%d", i+1),
				Relevance: g.relevanceRating(relevantShare),
				Clarity:   g.relevanceRating(relevantShare),
				Coherence: g.relevanceRating(relevantShare),
			}
		}
		panel[e] = stats.ExpertEvaluation{ExpertID: fmt.Sprintf("expert_%d", e+1), Ratings: ratings}
	}
	return panel
}

// likert maps a standard normal score onto 1..ScalePoints
func (g *SurveyGenerator) likert(score float64) float64 {
	points := float64(g.config.ScalePoints)
	mid := (points + 1) / 2
	value := math.Round(mid + score*(points-1)/4)
	return math.Max(1, math.Min(points, value))
}

func (g *SurveyGenerator) relevanceRating(relevantShare float64) int {
	if g.rng.Float64() < relevantShare {
		return stats.RelevantRating + g.rng.Intn(stats.MaxRating-stats.RelevantRating+1)
	}
	return stats.MinRating + g.rng.Intn(stats.RelevantRating-stats.MinRating)
}
