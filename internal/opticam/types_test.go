package opticam

import "testing"

// TestPerspectivePublicID pins the internal-to-public camera id mapping.
// The offset between the two id spaces is load-bearing for clients.
func TestPerspectivePublicID(t *testing.T) {
	cases := []struct {
		p    Perspective
		want int32
	}{
		{PerspectiveInvalid, -1},
		{PerspectiveStereoLeft, 0},
		{PerspectiveStereoRight, 1},
		{PerspectiveMono, 2},
		{Perspective(42), -1},
		{Perspective(-1), -1},
	}
	for _, tc := range cases {
		if got := tc.p.PublicID(); got != tc.want {
			t.Errorf("%v.PublicID() = %d, want %d", tc.p, got, tc.want)
		}
	}
}

func TestPerspectiveString(t *testing.T) {
	if got := PerspectiveStereoLeft.String(); got != "stereo_left" {
		t.Errorf("String = %q", got)
	}
	if got := Perspective(42).String(); got != "perspective(42)" {
		t.Errorf("unknown String = %q", got)
	}
}

func TestImageFormatString(t *testing.T) {
	if got := FormatInfrared.String(); got != "infrared" {
		t.Errorf("String = %q", got)
	}
	if got := FormatIBRG.String(); got != "ibrg" {
		t.Errorf("String = %q", got)
	}
	if got := ImageFormat(9).String(); got != "format(9)" {
		t.Errorf("unknown String = %q", got)
	}
}
