package airports

import (
	"testing"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lower case", in: "ont", want: "ONT"},
		{name: "whitespace", in: "  dfw ", want: "DFW"},
		{name: "too long", in: "laxx", want: "LAX"},
		{name: "partial", in: "la", want: "LA"},
		{name: "empty", in: "", want: ""},
		{name: "non-ascii", in: "ééé", want: "ÉÉÉ"},
		{name: "non-ascii too long", in: "ønta", want: "ØNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Normalize(%q) produced invalid UTF-8 %q", tt.in, got)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		code     string
		wantOK   bool
		wantICAO string
	}{
		{code: "ONT", wantOK: true, wantICAO: "KONT"},
		{code: "DFW", wantOK: true, wantICAO: "KDFW"},
		{code: "HNL", wantOK: true, wantICAO: "PHNL"},
		{code: "SJU", wantOK: true, wantICAO: "TJSJ"},
		{code: "ZZZ", wantOK: false},
		{code: "ont", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Valid(tt.code); got != tt.wantOK {
				t.Errorf("Valid(%q) = %v, want %v", tt.code, got, tt.wantOK)
			}
			icao, ok := ICAO(tt.code)
			if ok != tt.wantOK || icao != tt.wantICAO {
				t.Errorf("ICAO(%q) = %q, %v; want %q, %v", tt.code, icao, ok, tt.wantICAO, tt.wantOK)
			}
		})
	}
}

func TestAllSortedAndUnique(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("reference list is empty")
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Code >= all[i].Code {
			t.Errorf("list not strictly sorted at %d: %s >= %s", i, all[i-1].Code, all[i].Code)
		}
	}
	for _, a := range all {
		if len(a.ICAO) != 4 {
			t.Errorf("%s has ICAO %q, want 4 characters", a.Code, a.ICAO)
		}
	}
}

func TestParseRejectsBadRows(t *testing.T) {
	if _, err := parse("code,icao,name\nlax,KLAX,Los Angeles\n"); err == nil {
		t.Error("expected lower-case code to be rejected")
	}
	if _, err := parse("code,icao,name\nLAX,KLAX\n"); err == nil {
		t.Error("expected short row to be rejected")
	}
}
