package protocol

import (
	"errors"
	"strings"
	"testing"

	"pacemaker_dcm/internal/models"
)

func TestEncodeDecodeParams_RoundTrip(t *testing.T) {
	for _, mode := range models.SupportedModes {
		t.Run(mode, func(t *testing.T) {
			p := models.DefaultParameterSet(mode)
			p.LowerRateLimit = 62
			p.AtrialAmplitude = 2.5
			p.DynamicAVDelayOn = true

			line, err := EncodeParams(CmdSet, p)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !strings.HasPrefix(line, "PSET,"+mode+",") {
				t.Fatalf("unexpected prefix: %q", line)
			}

			cmd, got, err := DecodeParams(line)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if cmd != CmdSet {
				t.Fatalf("cmd: got %q, want %q", cmd, CmdSet)
			}
			if got != p {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
			}
		})
	}
}

func TestEncodeParams_LeadingFieldsLiteral(t *testing.T) {
	p := models.DefaultParameterSet(models.ModeVVI)
	p.LowerRateLimit = 60
	p.UpperRateLimit = 130

	line, err := EncodeParams(CmdSet, p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(line, "PSET,VVI,60,130,") {
		t.Fatalf("unexpected wire prefix: %q", line)
	}

	_, got, err := DecodeParams(line)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LowerRateLimit != 60 || got.UpperRateLimit != 130 {
		t.Fatalf("rate limits: %+v", got)
	}
}

func TestDecodeParams_AckSameSchemaAsSet(t *testing.T) {
	p := models.DefaultParameterSet(models.ModeVVI)
	setLine, err := EncodeParams(CmdSet, p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ackLine := CmdAck + setLine[len(CmdSet):]

	cmd, got, err := DecodeParams(ackLine)
	if err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if cmd != CmdAck || got != p {
		t.Fatalf("ack decode: cmd=%q set=%+v", cmd, got)
	}
}

func TestDecodeParams_Malformed(t *testing.T) {
	valid, _ := EncodeParams(CmdSet, models.DefaultParameterSet(models.ModeVVI))

	cases := []struct {
		name string
		line string
	}{
		{"unknown tag", "PFOO,VVI,60"},
		{"missing fields", "PSET,VVI,60,120"},
		{"extra field", valid + ",99"},
		{"unsupported mode", strings.Replace(valid, "PSET,VVI", "PSET,XYZ", 1)},
		{"non numeric int", strings.Replace(valid, ",60,", ",sixty,", 1)},
		{"scientific float", strings.Replace(valid, ",3.5,", ",3.5e0,", 1)},
		{"non numeric tail", valid[:len(valid)-1] + "x"},
		{"unknown threshold", strings.Replace(valid, ",Med,", ",Medium,", 1)},
		{"empty line", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, p, err := DecodeParams(tc.line)
			var mle *MalformedLineError
			if !errors.As(err, &mle) {
				t.Fatalf("expected MalformedLineError, got %v", err)
			}
			if p != (models.ParameterSet{}) {
				t.Fatalf("malformed line must not partially decode: %+v", p)
			}
		})
	}
}

func TestEncodeParams_Rejects(t *testing.T) {
	p := models.DefaultParameterSet(models.ModeAOO)
	if _, err := EncodeParams(CmdGet, p); err == nil {
		t.Fatal("PGET must not carry a parameter payload")
	}
	p.Mode = "NONSENSE"
	if _, err := EncodeParams(CmdSet, p); err == nil {
		t.Fatal("unsupported mode must fail to encode")
	}
}

func TestEncodeDecodeGet(t *testing.T) {
	line, err := EncodeGet(models.ModeDDDR)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if line != "PGET,DDDR" {
		t.Fatalf("unexpected line: %q", line)
	}
	mode, err := DecodeGet(line)
	if err != nil || mode != models.ModeDDDR {
		t.Fatalf("decode: mode=%q err=%v", mode, err)
	}

	if _, err := EncodeGet("BAD"); err == nil {
		t.Fatal("unsupported mode must fail to encode")
	}
	if _, err := DecodeGet("PGET,VVI,extra"); err == nil {
		t.Fatal("extra field must be malformed")
	}
	if _, err := DecodeGet("PACK,VVI"); err == nil {
		t.Fatal("wrong tag must be malformed")
	}
}

func TestEncodeDecodeSample(t *testing.T) {
	s := models.EgramSample{Chamber: models.ChamberVentricle, TimestampMS: 1250, ValueMV: -0.35}
	line, err := EncodeSample(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if line != "EGRAM,V,1250,-0.35" {
		t.Fatalf("unexpected line: %q", line)
	}
	got, err := DecodeSample(line + "\r\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != s {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	for _, bad := range []string{
		"EGRAM,X,0,0.1",
		"EGRAM,A,zero,0.1",
		"EGRAM,A,0,volts",
		"EGRAM,A,0",
	} {
		if _, err := DecodeSample(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestCommand(t *testing.T) {
	if got := Command("PACK,VVI,60"); got != CmdAck {
		t.Fatalf("got %q", got)
	}
	if got := Command("EGRAM"); got != CmdEgram {
		t.Fatalf("got %q", got)
	}
}

func TestDiff(t *testing.T) {
	local := models.DefaultParameterSet(models.ModeVVI)
	device := local
	if d := Diff(local, device); len(d) != 0 {
		t.Fatalf("identical sets must not differ: %+v", d)
	}

	device.LowerRateLimit = 70
	device.VentricularAmplitude = 5.0
	d := Diff(local, device)
	if len(d) != 2 {
		t.Fatalf("expected 2 mismatches, got %+v", d)
	}
	if d[0].Field != "lower_rate_limit" || d[0].Local != "60" || d[0].Device != "70" {
		t.Fatalf("first mismatch: %+v", d[0])
	}
	if d[1].Field != "ventricular_amplitude" || d[1].Device != "5" {
		t.Fatalf("second mismatch: %+v", d[1])
	}

	other := models.DefaultParameterSet(models.ModeAAI)
	d = Diff(local, other)
	if len(d) == 0 || d[0].Field != "mode" {
		t.Fatalf("mode mismatch must come first: %+v", d)
	}
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	if len(names) != 28 {
		t.Fatalf("expected 28 wire fields, got %d", len(names))
	}
	if names[0] != "mode" || names[1] != "lower_rate_limit" || names[27] != "recovery_time" {
		t.Fatalf("unexpected order: %v", names)
	}
}
