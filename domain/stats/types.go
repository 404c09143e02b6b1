package stats

// ============================================================================
// DESCRIPTIVE STATISTICS
// ============================================================================

// Quartiles holds the sorted-position quartiles of a sample.
// Q1 and Q3 are read at floor(n*0.25) and floor(n*0.75) of the sorted sample,
// without interpolation. Q2 is the median.
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// DescriptiveSummary is the result of describing a single sample
type DescriptiveSummary struct {
	N                 int       `json:"n"`
	Mean              float64   `json:"mean"`
	Median            float64   `json:"median"`
	Mode              []float64 `json:"mode"`
	Variance          float64   `json:"variance"`           // unbiased, n-1 denominator
	StandardDeviation float64   `json:"standard_deviation"` // sqrt(Variance)
	Min               float64   `json:"min"`
	Max               float64   `json:"max"`
	Range             float64   `json:"range"`
	Quartiles         Quartiles `json:"quartiles"`
	IQR               float64   `json:"iqr"`
	LowerFence        float64   `json:"lower_fence"`
	UpperFence        float64   `json:"upper_fence"`
	Outliers          []float64 `json:"outliers"` // input order
	Interpretation    string    `json:"interpretation"`
}

// ============================================================================
// CORRELATION
// ============================================================================

// Variable is a named sample; variables of one analysis hold paired observations
type Variable struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// SignificanceLevel classifies a p-value
type SignificanceLevel string

const (
	SignificanceHigh   SignificanceLevel = "high"   // p < 0.001
	SignificanceMedium SignificanceLevel = "medium" // p < 0.01
	SignificanceLow    SignificanceLevel = "low"    // p < 0.05
	SignificanceNone   SignificanceLevel = "none"
)

// CorrelationPair is the Pearson correlation between two variables
type CorrelationPair struct {
	Var1         string            `json:"var1"`
	Var2         string            `json:"var2"`
	Correlation  float64           `json:"correlation"`
	PValue       float64           `json:"p_value"`
	Significance SignificanceLevel `json:"significance"`
}

// CorrelationResult holds the symmetric correlation matrix, indexed in input order
type CorrelationResult struct {
	Variables      []string          `json:"variables"`
	Matrix         [][]float64       `json:"correlation_matrix"`
	Pairs          []CorrelationPair `json:"pairs"`
	Significant    []CorrelationPair `json:"significant_correlations"`
	SampleSize     int               `json:"sample_size"`
	Interpretation string            `json:"interpretation"`
}

// ============================================================================
// TWO-SAMPLE COMPARISON
// ============================================================================

// ConfidenceInterval is a closed interval around an estimate
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// TTestResult is the outcome of comparing two independent samples
type TTestResult struct {
	TStatistic         float64            `json:"t_statistic"`
	PValue             float64            `json:"p_value"`
	DegreesOfFreedom   int                `json:"degrees_of_freedom"`
	Mean1              float64            `json:"mean1"`
	Mean2              float64            `json:"mean2"`
	MeanDifference     float64            `json:"mean_difference"`
	StandardError      float64            `json:"standard_error"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"` // 95%, z = 1.96
	EffectSize         float64            `json:"effect_size"`
	Significant        bool               `json:"significant"`
	Interpretation     string             `json:"interpretation"`
}

// ============================================================================
// RELIABILITY
// ============================================================================

// RatingMatrix is an item x observation grid: Matrix[i][j] is the rating of
// item i by judge/respondent j. Every row must have the same length.
type RatingMatrix [][]float64

// Items returns the number of rows
func (m RatingMatrix) Items() int { return len(m) }

// Observations returns the length of the first row (0 for an empty matrix)
func (m RatingMatrix) Observations() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// ReliabilityBand is the qualitative reading of Cronbach's alpha
type ReliabilityBand string

const (
	ReliabilityExcellent    ReliabilityBand = "excellent"
	ReliabilityGood         ReliabilityBand = "good"
	ReliabilityAcceptable   ReliabilityBand = "acceptable"
	ReliabilityPoor         ReliabilityBand = "poor"
	ReliabilityUnacceptable ReliabilityBand = "unacceptable"
)

// ItemStatistics describes one item of a scale
type ItemStatistics struct {
	Item               int     `json:"item"` // 1-based
	Mean               float64 `json:"mean"`
	Variance           float64 `json:"variance"`
	CorrectedItemTotal float64 `json:"corrected_item_total"`
	// AlphaIfDeleted is nil when alpha is undefined without the item
	AlphaIfDeleted *float64 `json:"alpha_if_deleted"`
}

// ReliabilityResult is the internal-consistency report of a scale
type ReliabilityResult struct {
	Alpha          float64          `json:"alpha"`
	Items          int              `json:"items"`
	Observations   int              `json:"observations"`
	ItemStatistics []ItemStatistics `json:"item_statistics"`
	Reliability    ReliabilityBand  `json:"reliability"`
	Interpretation string           `json:"interpretation"`
}

// ============================================================================
// CONTENT VALIDITY
// ============================================================================

// Relevance ratings use a 1-4 ordinal scale; 3 and 4 count as relevant.
const (
	MinRating      = 1
	MaxRating      = 4
	RelevantRating = 3
)

// JudgeRatings is one judge's relevance rating for every item, in item order
type JudgeRatings struct {
	JudgeID string `json:"judge_id"`
	Ratings []int  `json:"ratings"`
}

// ValidityBand is the qualitative reading of a content validity index
type ValidityBand string

const (
	ValidityExcellent    ValidityBand = "excellent"
	ValidityGood         ValidityBand = "good"
	ValidityAcceptable   ValidityBand = "acceptable"
	ValidityInsufficient ValidityBand = "insufficient"
)

// ContentValidityResult holds item-level and scale-level CVI
type ContentValidityResult struct {
	Judges          int          `json:"judges"`
	ItemCVI         []float64    `json:"item_cvi"`
	ScaleCVI        float64      `json:"scale_cvi"`
	Band            ValidityBand `json:"band"`
	ItemsForReview  []int        `json:"items_for_review"` // 0-based, item order
	Recommendations []string     `json:"recommendations"`
	Interpretation  string       `json:"interpretation"`
}

// ExpertItemRating is one expert's rating of one item on three dimensions
type ExpertItemRating struct {
	ItemID    string `json:"item_id"`
	Relevance int    `json:"relevance"`
	Clarity   int    `json:"clarity"`
	Coherence int    `json:"coherence"`
}

// ExpertEvaluation is everything a single expert submitted for an instrument
type ExpertEvaluation struct {
	ExpertID string             `json:"expert_id"`
	Ratings  []ExpertItemRating `json:"item_ratings"`
	Comments string             `json:"overall_comments,omitempty"`
}

// ItemDimensionCVI is the per-dimension CVI of one item
type ItemDimensionCVI struct {
	ItemID       string  `json:"item_id"`
	RelevanceCVI float64 `json:"relevance_cvi"`
	ClarityCVI   float64 `json:"clarity_cvi"`
	CoherenceCVI float64 `json:"coherence_cvi"`
}

// Mean returns the average of the three dimension CVIs
func (c ItemDimensionCVI) Mean() float64 {
	return (c.RelevanceCVI + c.ClarityCVI + c.CoherenceCVI) / 3
}

// ExpertJudgmentResult summarizes a multi-dimension expert panel
type ExpertJudgmentResult struct {
	Experts         int                `json:"experts"`
	Items           []ItemDimensionCVI `json:"item_cvi"`
	ScaleCVI        float64            `json:"scale_cvi"`
	ExpertAgreement float64            `json:"expert_agreement"`
	Band            ValidityBand       `json:"band"`
	Recommendations []string           `json:"recommendations"`
}

// ============================================================================
// SAMPLE SIZE
// ============================================================================

// NonResponseBufferPercent inflates the computed sample size to absorb drop-outs.
const NonResponseBufferPercent = 20

// SampleSizeParams configures the finite-population sample size calculation.
// ConfidenceLevel and MarginOfError are percentages (95, 5).
type SampleSizeParams struct {
	PopulationSize     int     `json:"population_size,omitempty"` // 0 = infinite
	ConfidenceLevel    float64 `json:"confidence_level"`
	MarginOfError      float64 `json:"margin_of_error"`
	ExpectedProportion float64 `json:"expected_proportion,omitempty"` // 0 = 0.5
}

// SampleSizeResult is the required number of respondents
type SampleSizeResult struct {
	ZScore         float64 `json:"z_score"`
	Infinite       float64 `json:"infinite_population_size"` // n0 before correction
	SampleSize     int     `json:"sample_size"`
	AdjustedSize   int     `json:"adjusted_size"` // SampleSize with the non-response buffer
	Interpretation string  `json:"interpretation"`
}
