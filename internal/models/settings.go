package models

// Supported pacing modes. The mode tag selects which ParameterSet schema
// variant applies on the wire.
const (
	ModeAOO  = "AOO"
	ModeVOO  = "VOO"
	ModeAAI  = "AAI"
	ModeVVI  = "VVI"
	ModeAOOR = "AOOR"
	ModeVOOR = "VOOR"
	ModeAAIR = "AAIR"
	ModeVVIR = "VVIR"
	ModeDDD  = "DDD"
	ModeDDDR = "DDDR"
)

// SupportedModes lists every programmable mode in a stable order.
var SupportedModes = []string{
	ModeAOO, ModeVOO, ModeAAI, ModeVVI,
	ModeAOOR, ModeVOOR, ModeAAIR, ModeVVIR,
	ModeDDD, ModeDDDR,
}

// ActivityThresholds lists the accepted rate-response threshold tokens.
// This is the only string-valued wire field; tokens never contain a comma.
var ActivityThresholds = []string{
	"V-Low", "Low", "Med-Low", "Med", "Med-High", "High", "V-High",
}

// IsSupportedMode reports whether mode is one of the programmable modes.
func IsSupportedMode(mode string) bool {
	for _, m := range SupportedModes {
		if m == mode {
			return true
		}
	}
	return false
}

// IsActivityThreshold reports whether tok is a valid threshold token.
func IsActivityThreshold(tok string) bool {
	for _, t := range ActivityThresholds {
		if t == tok {
			return true
		}
	}
	return false
}

// ParameterSet is the full programmable configuration for one pacing mode.
// Every field has a defined default; an instance is always fully populated
// so it can always be serialized.
type ParameterSet struct {
	Mode string `json:"mode"` // AOO | VOO | ... | DDDR

	// Basic bradycardia parameters
	LowerRateLimit    int `json:"lower_rate_limit"`    // ppm
	UpperRateLimit    int `json:"upper_rate_limit"`    // ppm
	MaximumSensorRate int `json:"maximum_sensor_rate"` // ppm

	// Pulse characteristics
	AtrialAmplitude       float64 `json:"atrial_amplitude"`        // V
	AtrialPulseWidth      float64 `json:"atrial_pulse_width"`      // ms
	VentricularAmplitude  float64 `json:"ventricular_amplitude"`   // V
	VentricularPulseWidth float64 `json:"ventricular_pulse_width"` // ms

	// Sensitivity
	AtrialSensitivity      float64 `json:"atrial_sensitivity"`      // mV
	VentricularSensitivity float64 `json:"ventricular_sensitivity"` // mV

	// Refractory periods
	AtrialRefractoryPeriod      int `json:"atrial_refractory_period"`      // ms
	VentricularRefractoryPeriod int `json:"ventricular_refractory_period"` // ms
	PVARP                       int `json:"pvarp"`                         // ms
	PVARPExtension              int `json:"pvarp_extension"`               // ms

	// AV timing
	FixedAVDelay        int  `json:"fixed_av_delay"` // ms
	DynamicAVDelayOn    bool `json:"dynamic_av_delay_on"`
	MinDynamicAVDelay   int  `json:"min_dynamic_av_delay"`   // ms
	SensedAVDelayOffset int  `json:"sensed_av_delay_offset"` // ms, 0 or negative

	// Hysteresis / rate smoothing
	HysteresisRateLimit  int `json:"hysteresis_rate_limit"` // ppm, 0 = Off
	RateSmoothingPercent int `json:"rate_smoothing_percent"`

	// ATR (atrial tachycardia response)
	ATRModeOn       bool `json:"atr_mode_on"`
	ATRDuration     int  `json:"atr_duration"`      // cardiac cycles
	ATRFallbackTime int  `json:"atr_fallback_time"` // minutes

	// Ventricular blanking
	VentricularBlanking int `json:"ventricular_blanking"` // ms

	// Rate response (accelerometer)
	ActivityThreshold string `json:"activity_threshold"` // V-Low..V-High
	ReactionTime      int    `json:"reaction_time"`      // seconds
	ResponseFactor    int    `json:"response_factor"`
	RecoveryTime      int    `json:"recovery_time"` // minutes
}

// DefaultParameterSet returns the documented defaults for the given mode.
func DefaultParameterSet(mode string) ParameterSet {
	return ParameterSet{
		Mode: mode,

		LowerRateLimit:    60,
		UpperRateLimit:    120,
		MaximumSensorRate: 120,

		AtrialAmplitude:       3.5,
		AtrialPulseWidth:      0.4,
		VentricularAmplitude:  3.5,
		VentricularPulseWidth: 0.4,

		AtrialSensitivity:      0.75,
		VentricularSensitivity: 2.5,

		AtrialRefractoryPeriod:      250,
		VentricularRefractoryPeriod: 320,
		PVARP:                       250,
		PVARPExtension:              0,

		FixedAVDelay:        150,
		DynamicAVDelayOn:    false,
		MinDynamicAVDelay:   50,
		SensedAVDelayOffset: 0,

		HysteresisRateLimit:  0,
		RateSmoothingPercent: 0,

		ATRModeOn:       false,
		ATRDuration:     20,
		ATRFallbackTime: 1,

		VentricularBlanking: 40,

		ActivityThreshold: "Med",
		ReactionTime:      30,
		ResponseFactor:    8,
		RecoveryTime:      5,
	}
}
