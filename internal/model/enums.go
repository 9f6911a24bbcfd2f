package model

import "fmt"

// Style is the playing style encoded in a GuitarSet title.
type Style string

const (
	StyleBossaNova1 Style = "BN1"
	StyleBossaNova2 Style = "BN2"
	StyleBossaNova3 Style = "BN3"
	StyleFunk1      Style = "Funk1"
	StyleFunk2      Style = "Funk2"
	StyleFunk3      Style = "Funk3"
	StyleJazz1      Style = "Jazz1"
	StyleJazz2      Style = "Jazz2"
	StyleJazz3      Style = "Jazz3"
	StyleRock1      Style = "Rock1"
	StyleRock2      Style = "Rock2"
	StyleRock3      Style = "Rock3"
	StyleSinger1    Style = "SS1"
	StyleSinger2    Style = "SS2"
	StyleSinger3    Style = "SS3"
)

var styles = map[string]Style{
	"BN1": StyleBossaNova1, "BN2": StyleBossaNova2, "BN3": StyleBossaNova3,
	"Funk1": StyleFunk1, "Funk2": StyleFunk2, "Funk3": StyleFunk3,
	"Jazz1": StyleJazz1, "Jazz2": StyleJazz2, "Jazz3": StyleJazz3,
	"Rock1": StyleRock1, "Rock2": StyleRock2, "Rock3": StyleRock3,
	"SS1": StyleSinger1, "SS2": StyleSinger2, "SS3": StyleSinger3,
}

// ParseStyle maps a style token to its enumeration value.
func ParseStyle(token string) (Style, error) {
	if s, ok := styles[token]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown style token %q", token)
}

// Scale is the musical scale of a recording. Only sharp and natural
// spellings are enumerated; flat spellings go through ScaleAliases first.
type Scale string

const (
	ScaleA      Scale = "A"
	ScaleAFlat  Scale = "Ab"
	ScaleB      Scale = "B"
	ScaleBFlat  Scale = "Bb"
	ScaleC      Scale = "C"
	ScaleCSharp Scale = "C#"
	ScaleD      Scale = "D"
	ScaleE      Scale = "E"
	ScaleEFlat  Scale = "Eb"
	ScaleF      Scale = "F"
	ScaleFSharp Scale = "F#"
	ScaleG      Scale = "G"
)

// ScaleAliases maps enharmonic flat spellings onto the enumerated
// sharp/natural equivalents.
var ScaleAliases = map[string]string{
	"Gb": "F#",
	"Db": "C#",
	"Cb": "B",
}

var scales = map[string]Scale{
	"A": ScaleA, "Ab": ScaleAFlat, "B": ScaleB, "Bb": ScaleBFlat,
	"C": ScaleC, "C#": ScaleCSharp, "D": ScaleD, "E": ScaleE,
	"Eb": ScaleEFlat, "F": ScaleF, "F#": ScaleFSharp, "G": ScaleG,
}

// ParseScale normalizes enharmonic aliases and maps the token to its
// enumeration value.
func ParseScale(token string) (Scale, error) {
	if alias, ok := ScaleAliases[token]; ok {
		token = alias
	}
	if s, ok := scales[token]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown scale token %q", token)
}

// Mode is the scale mode.
type Mode string

const (
	ModeMajor Mode = "major"
	ModeMinor Mode = "minor"
)

// ParseMode maps a mode token to its enumeration value.
func ParseMode(token string) (Mode, error) {
	switch Mode(token) {
	case ModeMajor:
		return ModeMajor, nil
	case ModeMinor:
		return ModeMinor, nil
	}
	return "", fmt.Errorf("unknown mode token %q", token)
}

// PlayingVersion distinguishes the comping take from the solo take.
type PlayingVersion string

const (
	VersionComping PlayingVersion = "comp"
	VersionSolo    PlayingVersion = "solo"
)

// ParsePlayingVersion maps a version token to its enumeration value.
func ParsePlayingVersion(token string) (PlayingVersion, error) {
	switch PlayingVersion(token) {
	case VersionComping:
		return VersionComping, nil
	case VersionSolo:
		return VersionSolo, nil
	}
	return "", fmt.Errorf("unknown playing version token %q", token)
}

// ExcitationStyle is how a note was excited in an IDMT transcription event.
type ExcitationStyle string

const (
	ExcitationFingerStyle ExcitationStyle = "FS"
	ExcitationMuted       ExcitationStyle = "MU"
	ExcitationPicked      ExcitationStyle = "PK"
)

var excitationStyles = map[string]ExcitationStyle{
	"FS": ExcitationFingerStyle,
	"MU": ExcitationMuted,
	"PK": ExcitationPicked,
}

// ParseExcitationStyle maps an excitation token to its enumeration value.
func ParseExcitationStyle(token string) (ExcitationStyle, error) {
	if s, ok := excitationStyles[token]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown excitation style token %q", token)
}

// ExpressionStyle is the expressive technique of an IDMT transcription event.
type ExpressionStyle string

const (
	ExpressionBending   ExpressionStyle = "DE"
	ExpressionDeadNotes ExpressionStyle = "DN"
	ExpressionFlutter   ExpressionStyle = "FL"
	ExpressionHarmonics ExpressionStyle = "HA"
	ExpressionNone      ExpressionStyle = "NO"
	ExpressionSlide     ExpressionStyle = "SL"
	ExpressionStaccato  ExpressionStyle = "ST"
	ExpressionTremolo   ExpressionStyle = "TR"
	ExpressionVibrato   ExpressionStyle = "VI"
)

var expressionStyles = map[string]ExpressionStyle{
	"DE": ExpressionBending, "DN": ExpressionDeadNotes, "FL": ExpressionFlutter,
	"HA": ExpressionHarmonics, "NO": ExpressionNone, "SL": ExpressionSlide,
	"ST": ExpressionStaccato, "TR": ExpressionTremolo, "VI": ExpressionVibrato,
}

// ParseExpressionStyle maps an expression token to its enumeration value.
func ParseExpressionStyle(token string) (ExpressionStyle, error) {
	if s, ok := expressionStyles[token]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown expression style token %q", token)
}

// Loudness is the dynamic marking of an IDMT transcription event.
type Loudness string

const (
	LoudnessPianississimo Loudness = "ppp"
	LoudnessPianissimo    Loudness = "pp"
	LoudnessPiano         Loudness = "p"
	LoudnessMezzoPiano    Loudness = "mp"
	LoudnessMezzoForte    Loudness = "mf"
	LoudnessForte         Loudness = "f"
	LoudnessFortissimo    Loudness = "ff"
	LoudnessFortississimo Loudness = "fff"
)

var loudnesses = map[string]Loudness{
	"ppp": LoudnessPianississimo, "pp": LoudnessPianissimo, "p": LoudnessPiano,
	"mp": LoudnessMezzoPiano, "mf": LoudnessMezzoForte, "f": LoudnessForte,
	"ff": LoudnessFortissimo, "fff": LoudnessFortississimo,
}

// ParseLoudness maps a loudness token to its enumeration value.
func ParseLoudness(token string) (Loudness, error) {
	if l, ok := loudnesses[token]; ok {
		return l, nil
	}
	return "", fmt.Errorf("unknown loudness token %q", token)
}
