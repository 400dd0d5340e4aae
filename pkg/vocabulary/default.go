package vocabulary

const DefaultVersion = "symptoms-v1"

var defaultSymptoms = []string{
	"itching", "skin_rash", "nodal_skin_eruptions", "continuous_sneezing", "chills", "joint_pain",
	"stomach_pain", "vomiting", "fatigue", "weight_loss", "anxiety", "high_fever", "headache",
	"nausea", "loss_of_appetite", "pain_behind_the_eyes", "back_pain", "constipation",
	"abdominal_pain", "diarrhoea", "yellow_urine", "yellowing_of_eyes", "acute_liver_failure",
	"swelling_of_stomach", "malaise", "blurred_and_distorted_vision", "phlegm", "throat_irritation",
	"sinus_pressure", "runny_nose", "chest_pain", "weakness_in_limbs", "pain_during_bowel_movements",
	"neck_pain", "dizziness", "cramps", "obesity", "puffy_face_and_eyes", "enlarged_thyroid",
	"brittle_nails", "excessive_hunger", "drying_and_tingling_lips", "slurred_speech", "muscle_weakness",
	"stiff_neck", "loss_of_balance", "unsteadiness", "weakness_of_one_body_side", "loss_of_smell",
	"bladder_discomfort", "continuous_feel_of_urine", "internal_itching", "toxic_look_(typhos)",
	"depression", "irritability", "altered_sensorium", "red_spots_over_body", "belly_pain",
	"increased_appetite", "lack_of_concentration", "visual_disturbances",
}

// Default returns the built-in 61 symptom layout.
func Default() *Vocabulary {
	v, err := New(DefaultVersion, defaultSymptoms)
	if err != nil {
		panic(err)
	}
	return v
}
