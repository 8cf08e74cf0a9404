package entity

// Category is the closed set of question categories the benchmark uses.
type Category string

const (
	CategoryPercentageThreshold   Category = "percentage_threshold"
	CategoryConditionalThreshold  Category = "conditional_threshold"
	CategoryPriceChange           Category = "price_change"
	CategoryVolatility            Category = "volatility"
	CategoryVolatilityStat        Category = "volatility_stat"
	CategoryStreakAnalysis        Category = "streak_analysis"
	CategoryRollingStats          Category = "rolling_stats"
	CategoryVolumeAnalysis        Category = "volume_analysis"
	CategoryPerformanceComparison Category = "performance_comparison"
	CategoryConditionalVolume     Category = "conditional_volume"
	CategoryPriceAnalysis         Category = "price_analysis"
)

// Query is one benchmark record: a question with its precomputed truth.
// Immutable once loaded.
type Query struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Category    Category  `json:"category"`
	Type        ValueKind `json:"value_type"`
	Truth       Value     `json:"truth"`
	Explanation string    `json:"explanation,omitempty"`
}
