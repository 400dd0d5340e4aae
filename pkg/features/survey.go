package features

import "math"

// SurveyRecord is a validated depression-risk questionnaire.
type SurveyRecord struct {
	Gender                       string
	Age                          int
	SleepDuration                string
	WorkStudyHours               int
	FinancialStress              int
	AcademicWorkPressure         int
	JobStudySatisfaction         int
	FamilyHistoryOfMentalIllness string
	SuicidalThoughts             string
}

// SurveyColumns is the row order the scaler and depression model were fitted on.
var SurveyColumns = []string{
	"Gender",
	"Age",
	"Sleep Duration",
	"Work/Study Hours",
	"Pressure",
	"Financial Stress",
	"Satisfaction",
	"Family History of Mental Illness",
	"Have you ever had suicidal thoughts ?",
}

type SurveyMapper struct {
	gender        Lookup
	sleepDuration Lookup
	yesNo         Lookup
}

func NewSurveyMapper() *SurveyMapper {
	return &SurveyMapper{
		gender:        GenderTable,
		sleepDuration: SleepDurationTable,
		yesNo:         YesNoTable,
	}
}

func (m *SurveyMapper) Columns() []string {
	out := make([]string, len(SurveyColumns))
	copy(out, SurveyColumns)
	return out
}

// Map builds the numeric row in SurveyColumns order. Academic/work pressure and
// job/study satisfaction feed the Pressure and Satisfaction columns.
func (m *SurveyMapper) Map(record SurveyRecord) []float64 {
	row := []float64{
		m.gender.Translate(record.Gender),
		float64(record.Age),
		m.sleepDuration.Translate(record.SleepDuration),
		float64(record.WorkStudyHours),
		float64(record.AcademicWorkPressure),
		float64(record.FinancialStress),
		float64(record.JobStudySatisfaction),
		m.yesNo.Translate(record.FamilyHistoryOfMentalIllness),
		m.yesNo.Translate(record.SuicidalThoughts),
	}
	return FillMissing(row)
}

// FillMissing replaces NaN entries with 0 in place and returns the row.
func FillMissing(row []float64) []float64 {
	for i, v := range row {
		if math.IsNaN(v) {
			row[i] = 0
		}
	}
	return row
}
