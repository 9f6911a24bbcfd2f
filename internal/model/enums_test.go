package model

import "testing"

func TestParseScaleAliases(t *testing.T) {
	tests := []struct {
		token    string
		expected Scale
	}{
		{"Db", ScaleCSharp},
		{"Gb", ScaleFSharp},
		{"Cb", ScaleB},
		{"C#", ScaleCSharp},
		{"F#", ScaleFSharp},
		{"A", ScaleA},
		{"Eb", ScaleEFlat},
	}

	for _, tt := range tests {
		scale, err := ParseScale(tt.token)
		if err != nil {
			t.Errorf("ParseScale(%q) returned error: %v", tt.token, err)
			continue
		}
		if scale != tt.expected {
			t.Errorf("ParseScale(%q) = %q, expected %q", tt.token, scale, tt.expected)
		}
	}
}

func TestParseScaleUnknownToken(t *testing.T) {
	for _, token := range []string{"H", "c", "D#", "", "Abb"} {
		if _, err := ParseScale(token); err == nil {
			t.Errorf("ParseScale(%q) should have failed", token)
		}
	}
}

func TestParseStyle(t *testing.T) {
	valid := []string{"BN1", "Funk3", "Jazz2", "Rock1", "SS3"}
	for _, token := range valid {
		if _, err := ParseStyle(token); err != nil {
			t.Errorf("ParseStyle(%q) returned error: %v", token, err)
		}
	}

	invalid := []string{"BN4", "funk1", "Metal1", ""}
	for _, token := range invalid {
		if _, err := ParseStyle(token); err == nil {
			t.Errorf("ParseStyle(%q) should have failed", token)
		}
	}
}

func TestParseModeAndVersion(t *testing.T) {
	if mode, err := ParseMode("minor"); err != nil || mode != ModeMinor {
		t.Errorf("ParseMode(minor) = %q, %v", mode, err)
	}
	if _, err := ParseMode("dorian"); err == nil {
		t.Error("ParseMode(dorian) should have failed")
	}

	if v, err := ParsePlayingVersion("solo"); err != nil || v != VersionSolo {
		t.Errorf("ParsePlayingVersion(solo) = %q, %v", v, err)
	}
	if _, err := ParsePlayingVersion("lead"); err == nil {
		t.Error("ParsePlayingVersion(lead) should have failed")
	}
}

func TestParseEventEnums(t *testing.T) {
	if s, err := ParseExcitationStyle("FS"); err != nil || s != ExcitationFingerStyle {
		t.Errorf("ParseExcitationStyle(FS) = %q, %v", s, err)
	}
	if _, err := ParseExcitationStyle("XX"); err == nil {
		t.Error("ParseExcitationStyle(XX) should have failed")
	}

	if s, err := ParseExpressionStyle("VI"); err != nil || s != ExpressionVibrato {
		t.Errorf("ParseExpressionStyle(VI) = %q, %v", s, err)
	}

	if l, err := ParseLoudness("fff"); err != nil || l != LoudnessFortississimo {
		t.Errorf("ParseLoudness(fff) = %q, %v", l, err)
	}
	if _, err := ParseLoudness("pppp"); err == nil {
		t.Error("ParseLoudness(pppp) should have failed")
	}
}
