package astro

import (
	"math"
	"testing"
)

func TestFormatHMS(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want string
	}{
		{"HCG 7 right ascension", 9.81625, "00h39m15.90s"},
		{"zero", 0, "00h00m00.00s"},
		{"half turn", 180, "12h00m00.00s"},
		{"rounding carries into minutes", 14.9999999, "01h00m00.00s"},
		{"just under a full turn", 359.9999999, "00h00m00.00s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatHMS(tt.deg); got != tt.want {
				t.Errorf("FormatHMS(%v) = %q, want %q", tt.deg, got, tt.want)
			}
		})
	}
}

func TestFormatDMS(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		want string
	}{
		{"HCG 7 declination", 0.88806, "+00d53m17.0s"},
		{"zero keeps plus sign", 0, "+00d00m00.0s"},
		{"negative", -5.5, "-05d30m00.0s"},
		{"south pole", -90, "-90d00m00.0s"},
		{"rounding carries into degrees", 29.9999999, "+30d00m00.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDMS(tt.deg); got != tt.want {
				t.Errorf("FormatDMS(%v) = %q, want %q", tt.deg, got, tt.want)
			}
		})
	}
}

func TestParseHMS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"HCG 7 right ascension", "0h39m15.9s", 9.81625, false},
		{"zero padded", "00h39m15.90s", 9.81625, false},
		{"uppercase and spaces", "  12H00M00S ", 180, false},
		{"minutes out of range", "0h75m00s", 0, true},
		{"seconds out of range", "0h00m61s", 0, true},
		{"hours out of range", "25h00m00s", 0, true},
		{"garbage", "not a coordinate", 0, true},
		{"bare number is not hms", "9.81625", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHMS(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHMS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseHMS(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDMS(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"HCG 7 declination", "+0d53m17.0s", 0.888056, false},
		{"unsigned means positive", "0d53m17.0s", 0.888056, false},
		{"negative below one degree", "-00d30m00s", -0.5, false},
		{"negative", "-05d30m00.0s", -5.5, false},
		{"out of range", "+91d00m00s", 0, true},
		{"arcminutes out of range", "+0d60m00s", 0, true},
		{"garbage", "way up there", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDMS(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDMS(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ParseDMS(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// Degrees, hours and sexagesimal text must describe the same point on the
// sky. 9.81625 degrees is 0h39m15.9s exactly, and any position should
// survive a format/parse round trip to within the printed precision.
func TestRepresentationRoundTrips(t *testing.T) {
	t.Run("degrees to hours and back", func(t *testing.T) {
		p, err := NewPosition(9.81625, 0.88806)
		if err != nil {
			t.Fatalf("NewPosition: %v", err)
		}
		if got := p.RAHours() * 15; math.Abs(got-9.81625) > 1e-12 {
			t.Errorf("hours round trip = %v, want 9.81625", got)
		}
	})

	t.Run("degrees to sexagesimal and back", func(t *testing.T) {
		positions := [][2]float64{
			{9.81625, 0.88806},
			{10.68471, 41.26875},
			{350.85, -9.09},
			{0.0001, -89.9999},
		}
		for _, pos := range positions {
			raText := FormatHMS(pos[0])
			decText := FormatDMS(pos[1])

			ra, err := ParseHMS(raText)
			if err != nil {
				t.Fatalf("ParseHMS(%q): %v", raText, err)
			}
			dec, err := ParseDMS(decText)
			if err != nil {
				t.Fatalf("ParseDMS(%q): %v", decText, err)
			}
			// hms prints to 0.01s (4.2e-5 deg), dms to 0.1 arcsec (2.8e-5 deg)
			if math.Abs(ra-pos[0]) > 1e-4 {
				t.Errorf("RA round trip %v -> %q -> %v", pos[0], raText, ra)
			}
			if math.Abs(dec-pos[1]) > 1e-4 {
				t.Errorf("Dec round trip %v -> %q -> %v", pos[1], decText, dec)
			}
		}
	})
}

func TestPositionStrings(t *testing.T) {
	p, err := NewPosition(9.81625, 0.88806)
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}

	if got, want := p.DecimalString(), "9.81625 +0.88806"; got != want {
		t.Errorf("DecimalString() = %q, want %q", got, want)
	}
	if got, want := p.HourString(), "0.654417h +0.888060d"; got != want {
		t.Errorf("HourString() = %q, want %q", got, want)
	}
	if got, want := p.SexagesimalString(), "00h39m15.90s +00d53m17.0s"; got != want {
		t.Errorf("SexagesimalString() = %q, want %q", got, want)
	}
}

func TestParseRAAndDec(t *testing.T) {
	tests := []struct {
		name    string
		ra      string
		dec     string
		wantRA  float64
		wantDec float64
		wantErr bool
	}{
		{"decimal degrees", "9.81625", "0.88806", 9.81625, 0.88806, false},
		{"sexagesimal", "00h39m15.90s", "+00d53m17.0s", 9.81625, 0.888056, false},
		{"mixed forms", "180", "-05d30m00s", 180, -5.5, false},
		{"ra garbage", "eleven", "0", 0, 0, true},
		{"dec garbage", "0", "eleven", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, errRA := ParseRA(tt.ra)
			dec, errDec := ParseDec(tt.dec)
			gotErr := errRA != nil || errDec != nil
			if gotErr != tt.wantErr {
				t.Fatalf("ParseRA/ParseDec(%q, %q) errors = %v, %v; wantErr %v", tt.ra, tt.dec, errRA, errDec, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(ra-tt.wantRA) > 1e-4 {
				t.Errorf("ParseRA(%q) = %v, want %v", tt.ra, ra, tt.wantRA)
			}
			if math.Abs(dec-tt.wantDec) > 1e-4 {
				t.Errorf("ParseDec(%q) = %v, want %v", tt.dec, dec, tt.wantDec)
			}
		})
	}
}
