// Package validation checks a ParameterSet against the programmable-range
// table before anything is transmitted to the device.
package validation

import (
	"fmt"

	"pacemaker_dcm/internal/models"
)

// Validate reports whether p is programmable, with an ordered list of
// human-readable violations when it is not.
func Validate(p models.ParameterSet) (bool, []string) {
	var errs []string

	if !models.IsSupportedMode(p.Mode) {
		errs = append(errs, fmt.Sprintf("Mode %q is not a supported pacing mode.", p.Mode))
	}

	if p.LowerRateLimit < 30 || p.LowerRateLimit > 175 {
		errs = append(errs, "Lower Rate Limit must be between 30 and 175 ppm.")
	}
	if p.UpperRateLimit < p.LowerRateLimit || p.UpperRateLimit > 175 {
		errs = append(errs, "Upper Rate Limit must be between LRL and 175 ppm.")
	}
	if p.MaximumSensorRate < 50 || p.MaximumSensorRate > 175 {
		errs = append(errs, "Maximum Sensor Rate must be between 50 and 175 ppm.")
	}

	for _, a := range []struct {
		name string
		val  float64
	}{
		{"Atrial Amplitude", p.AtrialAmplitude},
		{"Ventricular Amplitude", p.VentricularAmplitude},
	} {
		if a.val < 0.1 || a.val > 7.0 {
			errs = append(errs, fmt.Sprintf("%s must be between 0.1 and 7.0 V.", a.name))
		}
	}

	for _, w := range []struct {
		name string
		val  float64
	}{
		{"Atrial Pulse Width", p.AtrialPulseWidth},
		{"Ventricular Pulse Width", p.VentricularPulseWidth},
	} {
		if w.val < 0.05 || w.val > 1.9 {
			errs = append(errs, fmt.Sprintf("%s must be between 0.05 and 1.9 ms.", w.name))
		}
	}

	for _, sv := range []struct {
		name string
		val  float64
	}{
		{"Atrial Sensitivity", p.AtrialSensitivity},
		{"Ventricular Sensitivity", p.VentricularSensitivity},
	} {
		if sv.val < 0.0 || sv.val > 10.0 {
			errs = append(errs, fmt.Sprintf("%s must be between 0.0 and 10.0 mV.", sv.name))
		}
	}

	for _, r := range []struct {
		name string
		val  int
	}{
		{"ARP", p.AtrialRefractoryPeriod},
		{"VRP", p.VentricularRefractoryPeriod},
		{"PVARP", p.PVARP},
	} {
		if r.val < 150 || r.val > 500 {
			errs = append(errs, fmt.Sprintf("%s must be between 150 and 500 ms.", r.name))
		}
	}

	if p.FixedAVDelay < 70 || p.FixedAVDelay > 300 {
		errs = append(errs, "Fixed AV Delay must be between 70 and 300 ms.")
	}
	if p.MinDynamicAVDelay < 30 || p.MinDynamicAVDelay > 100 {
		errs = append(errs, "Min Dynamic AV Delay must be between 30 and 100 ms.")
	}
	if p.SensedAVDelayOffset < -100 || p.SensedAVDelayOffset > 0 {
		errs = append(errs, "Sensed AV Delay Offset must be between 0 and -100 ms.")
	}

	if !models.IsActivityThreshold(p.ActivityThreshold) {
		errs = append(errs, "Activity Threshold must be one of the predefined categories.")
	}

	return len(errs) == 0, errs
}
