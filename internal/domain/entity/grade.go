package entity

// GradeLevel is a letter band on the fixed grading scale.
type GradeLevel string

const (
	GradeAPlus  GradeLevel = "A+"
	GradeA      GradeLevel = "A"
	GradeAMinus GradeLevel = "A-"
	GradeBPlus  GradeLevel = "B+"
	GradeB      GradeLevel = "B"
	GradeBMinus GradeLevel = "B-"
	GradeCPlus  GradeLevel = "C+"
	GradeC      GradeLevel = "C"
	GradeCMinus GradeLevel = "C-"
	GradeDPlus  GradeLevel = "D+"
	GradeD      GradeLevel = "D"
	GradeDMinus GradeLevel = "D-"
	GradeF      GradeLevel = "F"
)

type gradeBand struct {
	Level GradeLevel
	Min   float64
}

// gradeBands is ordered from the top band down; the first band whose
// threshold the score meets wins.
var gradeBands = []gradeBand{
	{GradeAPlus, 95.0},
	{GradeA, 90.0},
	{GradeAMinus, 85.0},
	{GradeBPlus, 80.0},
	{GradeB, 75.0},
	{GradeBMinus, 70.0},
	{GradeCPlus, 65.0},
	{GradeC, 60.0},
	{GradeCMinus, 55.0},
	{GradeDPlus, 50.0},
	{GradeD, 45.0},
	{GradeDMinus, 40.0},
}

// GradeFor maps a 0-100 score onto the letter scale.
func GradeFor(score float64) GradeLevel {
	for _, band := range gradeBands {
		if score >= band.Min {
			return band.Level
		}
	}
	return GradeF
}

// GradeLevels lists every band from best to worst, for distribution tables.
func GradeLevels() []GradeLevel {
	levels := make([]GradeLevel, 0, len(gradeBands)+1)
	for _, band := range gradeBands {
		levels = append(levels, band.Level)
	}
	return append(levels, GradeF)
}

// ComponentScores are the weighted sub-scores behind a composite.
type ComponentScores struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Quality   float64 `json:"quality"`
}

// QuestionScore is the graded outcome for a single query.
type QuestionScore struct {
	QueryID    string          `json:"query_id"`
	Category   Category        `json:"category"`
	Score      float64         `json:"score"`
	Grade      GradeLevel      `json:"grade"`
	Components ComponentScores `json:"component_scores"`
	Feedback   []string        `json:"feedback,omitempty"`
}

// CategoryGrade aggregates composite scores within one category.
type CategoryGrade struct {
	AverageScore float64    `json:"average_score"`
	Grade        GradeLevel `json:"grade"`
	Count        int        `json:"count"`
}

// GradeReport is derived strictly from a Summary and never mutates it.
type GradeReport struct {
	OverallScore    float64                    `json:"overall_score"`
	OverallGrade    GradeLevel                 `json:"overall_grade"`
	TotalQuestions  int                        `json:"total_questions"`
	ComponentScores ComponentScores            `json:"component_scores"`
	PerCategory     map[Category]CategoryGrade `json:"category_performance"`
	Distribution    map[GradeLevel]int         `json:"grade_distribution"`
	Questions       []QuestionScore            `json:"detailed_results"`
}
