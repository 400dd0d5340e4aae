package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() SurveyRecord {
	return SurveyRecord{
		Gender:                       "Male",
		Age:                          25,
		SleepDuration:                "6-7 hours",
		WorkStudyHours:               8,
		FinancialStress:              5,
		AcademicWorkPressure:         5,
		JobStudySatisfaction:         5,
		FamilyHistoryOfMentalIllness: "No",
		SuicidalThoughts:             "No",
	}
}

func TestMapBuildsRowInFittedOrder(t *testing.T) {
	row := NewSurveyMapper().Map(sampleRecord())
	assert.Equal(t, []float64{1, 25, 6.5, 8, 5, 5, 5, 0, 0}, row)
}

func TestMapColumnPlacement(t *testing.T) {
	record := SurveyRecord{
		Gender:                       "Female",
		Age:                          40,
		SleepDuration:                "Less than 5 hours",
		WorkStudyHours:               12,
		FinancialStress:              2,
		AcademicWorkPressure:         9,
		JobStudySatisfaction:         3,
		FamilyHistoryOfMentalIllness: "Yes",
		SuicidalThoughts:             "Yes",
	}
	row := NewSurveyMapper().Map(record)
	require.Len(t, row, len(SurveyColumns))
	assert.Equal(t, []float64{0, 40, 4.0, 12, 9, 2, 3, 1, 1}, row)
}

func TestMapUnknownCategoriesFallBackToZero(t *testing.T) {
	record := sampleRecord()
	record.Gender = "Other"
	record.SleepDuration = "about 7"
	record.FamilyHistoryOfMentalIllness = "maybe"
	record.SuicidalThoughts = "yes"

	row := NewSurveyMapper().Map(record)
	assert.Equal(t, 0.0, row[0])
	assert.Equal(t, 0.0, row[2])
	assert.Equal(t, 0.0, row[7])
	assert.Equal(t, 0.0, row[8])
}

func TestMapIsStable(t *testing.T) {
	m := NewSurveyMapper()
	assert.Equal(t, m.Map(sampleRecord()), m.Map(sampleRecord()))
}

func TestSleepDurationTable(t *testing.T) {
	cases := map[string]float64{
		"Less than 5 hours": 4.0,
		"5-6 hours":         5.5,
		"6-7 hours":         6.5,
		"7-8 hours":         7.5,
		"8-9 hours":         8.5,
		"9-11 hours":        10.0,
		"More than 8 hours": 9.0,
		"":                  0,
		"10 hours":          0,
	}
	for bucket, want := range cases {
		assert.Equal(t, want, SleepDurationTable.Translate(bucket), bucket)
	}
}

func TestCategoricalTables(t *testing.T) {
	assert.Equal(t, 1.0, GenderTable.Translate("Male"))
	assert.Equal(t, 0.0, GenderTable.Translate("Female"))
	assert.Equal(t, 0.0, GenderTable.Translate("male"))
	assert.Equal(t, 1.0, YesNoTable.Translate("Yes"))
	assert.Equal(t, 0.0, YesNoTable.Translate("No"))
	assert.Equal(t, 0.0, YesNoTable.Translate("Unknown"))
}

func TestFillMissing(t *testing.T) {
	row := FillMissing([]float64{1, math.NaN(), 3})
	assert.Equal(t, []float64{1, 0, 3}, row)
}

func TestColumnsReturnsCopy(t *testing.T) {
	m := NewSurveyMapper()
	cols := m.Columns()
	cols[0] = "changed"
	assert.Equal(t, "Gender", m.Columns()[0])
}
