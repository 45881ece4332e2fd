package service

import "testing"

func TestFormatHHMM(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		65:   "01:05",
		600:  "10:00",
		1439: "23:59",
		1455: "24:15",
	}
	for in, want := range cases {
		if got := FormatHHMM(in); got != want {
			t.Errorf("FormatHHMM(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"08:00", 480, false},
		{"9:05", 545, false},
		{"24:15", 1455, false},
		{"", 0, true},
		{"noon", 0, true},
		{"10:75", 0, true},
		{"-1:00", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHHMM(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHHMM(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHHMM(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseInvertsFormat(t *testing.T) {
	for m := 0; m < 1600; m += 7 {
		got, err := ParseHHMM(FormatHHMM(m))
		if err != nil || got != m {
			t.Fatalf("round trip of %d gave %d, %v", m, got, err)
		}
	}
}
