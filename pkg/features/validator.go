package features

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoSymptoms    = errors.New("No symptoms provided")
	errVectorLength  = errors.New("input vector length mismatch")
	errVectorEncoded = errors.New("input vector must contain only 0 or 1")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// SurveyInput is the wire form of a survey. Pointers distinguish a missing
// field from a zero answer.
type SurveyInput struct {
	Gender                       *string `json:"Gender" validate:"required"`
	Age                          *int    `json:"Age" validate:"required,gte=10,lte=100"`
	SleepDuration                *string `json:"Sleep_Duration" validate:"required"`
	WorkStudyHours               *int    `json:"Work_Study_Hours" validate:"required,gte=0,lte=24"`
	FinancialStress              *int    `json:"Financial_Stress" validate:"required,gte=0,lte=10"`
	AcademicWorkPressure         *int    `json:"Academic_Work_Pressure" validate:"required,gte=0,lte=10"`
	JobStudySatisfaction         *int    `json:"Job_Study_Satisfaction" validate:"required,gte=0,lte=10"`
	FamilyHistoryOfMentalIllness *string `json:"Family_History_of_Mental_Illness" validate:"required"`
	SuicidalThoughts             *string `json:"Suicidal_Thoughts" validate:"required"`
}

// Fields returns the input as a flat map, used for diagnostic logging.
func (in SurveyInput) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	v := reflect.ValueOf(in)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if f := v.Field(i); !f.IsNil() {
			out[name] = f.Elem().Interface()
		}
	}
	return out
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Survey checks declared ranges and presence, returning the typed record.
func (v *Validator) Survey(in SurveyInput) (SurveyRecord, error) {
	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return SurveyRecord{}, ValidationError{reason: describe(fieldErrs)}
		}
		return SurveyRecord{}, ValidationError{reason: err}
	}
	return SurveyRecord{
		Gender:                       *in.Gender,
		Age:                          *in.Age,
		SleepDuration:                *in.SleepDuration,
		WorkStudyHours:               *in.WorkStudyHours,
		FinancialStress:              *in.FinancialStress,
		AcademicWorkPressure:         *in.AcademicWorkPressure,
		JobStudySatisfaction:         *in.JobStudySatisfaction,
		FamilyHistoryOfMentalIllness: *in.FamilyHistoryOfMentalIllness,
		SuicidalThoughts:             *in.SuicidalThoughts,
	}, nil
}

// Symptoms rejects an empty selection.
func (v *Validator) Symptoms(symptoms []string) error {
	if len(symptoms) == 0 {
		return ValidationError{reason: ErrNoSymptoms}
	}
	return nil
}

// Vector checks a pre-encoded symptom vector against the expected size.
func (v *Validator) Vector(inputs []float64, size int) ([]float64, error) {
	if len(inputs) != size {
		return nil, ValidationError{reason: fmt.Errorf("expected %d inputs, got %d: %w", size, len(inputs), errVectorLength)}
	}
	for i, value := range inputs {
		if value != 0 && value != 1 {
			return nil, ValidationError{reason: fmt.Errorf("position %d has %v: %w", i, value, errVectorEncoded)}
		}
	}
	return inputs, nil
}

func describe(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
