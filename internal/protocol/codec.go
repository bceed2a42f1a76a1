package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"pacemaker_dcm/internal/models"
)

// Wire command tags. One ASCII line per message, comma-separated fields,
// newline-terminated by the transport. No field value ever contains the
// delimiter, so plain splitting is safe.
const (
	CmdSet   = "PSET"  // DCM -> device, set parameters for a mode
	CmdGet   = "PGET"  // DCM -> device, request parameters for a mode
	CmdAck   = "PACK"  // device -> DCM, acknowledge/return parameters
	CmdEgram = "EGRAM" // device -> DCM, one telemetry sample
)

const delimiter = ","

// MalformedLineError reports a line that cannot be decoded. Decoding is
// atomic: a malformed line never partially populates a result.
type MalformedLineError struct {
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %q: %s", e.Line, e.Reason)
}

func malformed(line, format string, args ...any) error {
	return &MalformedLineError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// fieldSpec binds one ParameterSet field to its wire position. The same
// ordered list serves PSET and PACK, so a response decodes with the exact
// schema used to encode the request.
type fieldSpec struct {
	name string
	enc  func(p *models.ParameterSet) string
	dec  func(p *models.ParameterSet, s string) error
}

func intField(name string, get func(p *models.ParameterSet) *int) fieldSpec {
	return fieldSpec{
		name: name,
		enc:  func(p *models.ParameterSet) string { return strconv.Itoa(*get(p)) },
		dec: func(p *models.ParameterSet, s string) error {
			v, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("field %s: %q is not an integer", name, s)
			}
			*get(p) = v
			return nil
		},
	}
}

func floatField(name string, get func(p *models.ParameterSet) *float64) fieldSpec {
	return fieldSpec{
		name: name,
		// 'f' format only: the wire format forbids scientific notation.
		enc: func(p *models.ParameterSet) string { return strconv.FormatFloat(*get(p), 'f', -1, 64) },
		dec: func(p *models.ParameterSet, s string) error {
			if strings.ContainsAny(s, "eE") {
				return fmt.Errorf("field %s: %q uses scientific notation", name, s)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("field %s: %q is not a number", name, s)
			}
			*get(p) = v
			return nil
		},
	}
}

func boolField(name string, get func(p *models.ParameterSet) *bool) fieldSpec {
	return fieldSpec{
		name: name,
		enc: func(p *models.ParameterSet) string {
			if *get(p) {
				return "1"
			}
			return "0"
		},
		dec: func(p *models.ParameterSet, s string) error {
			switch s {
			case "0":
				*get(p) = false
			case "1":
				*get(p) = true
			default:
				return fmt.Errorf("field %s: %q is not 0/1", name, s)
			}
			return nil
		},
	}
}

// paramSchema is the fixed, versioned field order for PSET/PACK payloads
// (everything after the mode tag).
var paramSchema = []fieldSpec{
	intField("lower_rate_limit", func(p *models.ParameterSet) *int { return &p.LowerRateLimit }),
	intField("upper_rate_limit", func(p *models.ParameterSet) *int { return &p.UpperRateLimit }),
	intField("maximum_sensor_rate", func(p *models.ParameterSet) *int { return &p.MaximumSensorRate }),
	floatField("atrial_amplitude", func(p *models.ParameterSet) *float64 { return &p.AtrialAmplitude }),
	floatField("atrial_pulse_width", func(p *models.ParameterSet) *float64 { return &p.AtrialPulseWidth }),
	floatField("ventricular_amplitude", func(p *models.ParameterSet) *float64 { return &p.VentricularAmplitude }),
	floatField("ventricular_pulse_width", func(p *models.ParameterSet) *float64 { return &p.VentricularPulseWidth }),
	floatField("atrial_sensitivity", func(p *models.ParameterSet) *float64 { return &p.AtrialSensitivity }),
	floatField("ventricular_sensitivity", func(p *models.ParameterSet) *float64 { return &p.VentricularSensitivity }),
	intField("atrial_refractory_period", func(p *models.ParameterSet) *int { return &p.AtrialRefractoryPeriod }),
	intField("ventricular_refractory_period", func(p *models.ParameterSet) *int { return &p.VentricularRefractoryPeriod }),
	intField("pvarp", func(p *models.ParameterSet) *int { return &p.PVARP }),
	intField("pvarp_extension", func(p *models.ParameterSet) *int { return &p.PVARPExtension }),
	intField("fixed_av_delay", func(p *models.ParameterSet) *int { return &p.FixedAVDelay }),
	boolField("dynamic_av_delay_on", func(p *models.ParameterSet) *bool { return &p.DynamicAVDelayOn }),
	intField("min_dynamic_av_delay", func(p *models.ParameterSet) *int { return &p.MinDynamicAVDelay }),
	intField("sensed_av_delay_offset", func(p *models.ParameterSet) *int { return &p.SensedAVDelayOffset }),
	intField("hysteresis_rate_limit", func(p *models.ParameterSet) *int { return &p.HysteresisRateLimit }),
	intField("rate_smoothing_percent", func(p *models.ParameterSet) *int { return &p.RateSmoothingPercent }),
	boolField("atr_mode_on", func(p *models.ParameterSet) *bool { return &p.ATRModeOn }),
	intField("atr_duration", func(p *models.ParameterSet) *int { return &p.ATRDuration }),
	intField("atr_fallback_time", func(p *models.ParameterSet) *int { return &p.ATRFallbackTime }),
	intField("ventricular_blanking", func(p *models.ParameterSet) *int { return &p.VentricularBlanking }),
	{
		name: "activity_threshold",
		enc:  func(p *models.ParameterSet) string { return p.ActivityThreshold },
		dec: func(p *models.ParameterSet, s string) error {
			if !models.IsActivityThreshold(s) {
				return fmt.Errorf("field activity_threshold: unknown token %q", s)
			}
			p.ActivityThreshold = s
			return nil
		},
	},
	intField("reaction_time", func(p *models.ParameterSet) *int { return &p.ReactionTime }),
	intField("response_factor", func(p *models.ParameterSet) *int { return &p.ResponseFactor }),
	intField("recovery_time", func(p *models.ParameterSet) *int { return &p.RecoveryTime }),
}

// FieldNames returns the wire field order for PSET/PACK payloads, mode first.
func FieldNames() []string {
	names := make([]string, 0, len(paramSchema)+1)
	names = append(names, "mode")
	for _, f := range paramSchema {
		names = append(names, f.name)
	}
	return names
}

// Command returns the command tag of a line without decoding the payload.
func Command(line string) string {
	if i := strings.Index(line, delimiter); i >= 0 {
		return line[:i]
	}
	return line
}

// EncodeParams builds a PSET or PACK line from a fully populated set.
func EncodeParams(cmd string, p models.ParameterSet) (string, error) {
	if cmd != CmdSet && cmd != CmdAck {
		return "", fmt.Errorf("encode: command %q does not carry a parameter payload", cmd)
	}
	if !models.IsSupportedMode(p.Mode) {
		return "", fmt.Errorf("encode: unsupported mode %q", p.Mode)
	}
	fields := make([]string, 0, len(paramSchema)+2)
	fields = append(fields, cmd, p.Mode)
	for _, f := range paramSchema {
		fields = append(fields, f.enc(&p))
	}
	return strings.Join(fields, delimiter), nil
}

// EncodeGet builds a PGET line requesting the parameters for a mode.
func EncodeGet(mode string) (string, error) {
	if !models.IsSupportedMode(mode) {
		return "", fmt.Errorf("encode: unsupported mode %q", mode)
	}
	return CmdGet + delimiter + mode, nil
}

// EncodeSample builds an EGRAM line from a telemetry sample.
func EncodeSample(s models.EgramSample) (string, error) {
	if !models.IsChamber(s.Chamber) {
		return "", fmt.Errorf("encode: unknown chamber %q", s.Chamber)
	}
	return strings.Join([]string{
		CmdEgram,
		s.Chamber,
		strconv.FormatInt(s.TimestampMS, 10),
		strconv.FormatFloat(s.ValueMV, 'f', -1, 64),
	}, delimiter), nil
}

// DecodeParams decodes a PSET or PACK line. The returned set is fully
// populated on success; on any error the line is rejected whole.
func DecodeParams(line string) (string, models.ParameterSet, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), delimiter)
	cmd := fields[0]
	if cmd != CmdSet && cmd != CmdAck {
		return "", models.ParameterSet{}, malformed(line, "unrecognized command tag %q", cmd)
	}
	want := len(paramSchema) + 2
	if len(fields) != want {
		return "", models.ParameterSet{}, malformed(line, "expected %d fields for %s, got %d", want, cmd, len(fields))
	}
	mode := fields[1]
	if !models.IsSupportedMode(mode) {
		return "", models.ParameterSet{}, malformed(line, "unsupported mode %q", mode)
	}
	var p models.ParameterSet
	p.Mode = mode
	for i, f := range paramSchema {
		if err := f.dec(&p, fields[i+2]); err != nil {
			return "", models.ParameterSet{}, malformed(line, "%v", err)
		}
	}
	return cmd, p, nil
}

// DecodeGet decodes a PGET line and returns the requested mode.
func DecodeGet(line string) (string, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), delimiter)
	if fields[0] != CmdGet {
		return "", malformed(line, "unrecognized command tag %q", fields[0])
	}
	if len(fields) != 2 {
		return "", malformed(line, "expected 2 fields for %s, got %d", CmdGet, len(fields))
	}
	if !models.IsSupportedMode(fields[1]) {
		return "", malformed(line, "unsupported mode %q", fields[1])
	}
	return fields[1], nil
}

// DecodeSample decodes an EGRAM telemetry line.
func DecodeSample(line string) (models.EgramSample, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), delimiter)
	if fields[0] != CmdEgram {
		return models.EgramSample{}, malformed(line, "unrecognized command tag %q", fields[0])
	}
	if len(fields) != 4 {
		return models.EgramSample{}, malformed(line, "expected 4 fields for %s, got %d", CmdEgram, len(fields))
	}
	if !models.IsChamber(fields[1]) {
		return models.EgramSample{}, malformed(line, "unknown chamber %q", fields[1])
	}
	ts, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return models.EgramSample{}, malformed(line, "timestamp %q is not an integer", fields[2])
	}
	val, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return models.EgramSample{}, malformed(line, "value %q is not a number", fields[3])
	}
	return models.EgramSample{Chamber: fields[1], TimestampMS: ts, ValueMV: val}, nil
}

// FieldMismatch records one field that differs between a local set and the
// device's copy. Values are reported in their wire encoding.
type FieldMismatch struct {
	Field  string `json:"field"`
	Local  string `json:"local"`
	Device string `json:"device"`
}

// Diff compares two parameter sets field-by-field in wire order, mode first.
// An empty result means the sets match exactly.
func Diff(local, device models.ParameterSet) []FieldMismatch {
	var out []FieldMismatch
	if local.Mode != device.Mode {
		out = append(out, FieldMismatch{Field: "mode", Local: local.Mode, Device: device.Mode})
	}
	for _, f := range paramSchema {
		lv, dv := f.enc(&local), f.enc(&device)
		if lv != dv {
			out = append(out, FieldMismatch{Field: f.name, Local: lv, Device: dv})
		}
	}
	return out
}
