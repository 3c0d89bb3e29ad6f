package datastructure

import (
	"fmt"
	"strings"
)

// Locale. language of the announcement text. the zero value reads as english.
type Locale string

const (
	LOCALE_EN Locale = "en"
	LOCALE_ID Locale = "id"
)

// ParseLocale. case insensitive, "" gives LOCALE_EN
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	if l == "" {
		return LOCALE_EN, nil
	}
	if _, ok := phrasebooks[l]; !ok {
		return LOCALE_EN, fmt.Errorf("unsupported announcement locale %q", s)
	}
	return l, nil
}

func (l Locale) String() string {
	if l == "" {
		return string(LOCALE_EN)
	}
	return string(l)
}

type phrasebook struct {
	offRoute   string
	arrived    string
	onto       string // maneuver, street
	in         string // distance, maneuver
	meters     string
	kilometers string
	maneuver   func(td TurnDirection, exitNumber int) string
}

var phrasebooks = map[Locale]phrasebook{
	LOCALE_EN: {
		offRoute:   "You are off the route, recalculating",
		arrived:    "You have arrived at your destination",
		onto:       "%s onto %s",
		in:         "In %s, %s",
		meters:     "%.0f meters",
		kilometers: "%.1f kilometers",
		maneuver:   TurnDirection.Description,
	},
	LOCALE_ID: {
		offRoute:   "Anda keluar dari rute, menghitung ulang",
		arrived:    "Anda telah tiba di tujuan",
		onto:       "%s ke %s",
		in:         "Dalam %s, %s",
		meters:     "%.0f meter",
		kilometers: "%.1f kilometer",
		maneuver:   indonesianManeuver,
	},
}

func (l Locale) phrasebook() phrasebook {
	if pb, ok := phrasebooks[l]; ok {
		return pb
	}
	return phrasebooks[LOCALE_EN]
}

func indonesianManeuver(td TurnDirection, exitNumber int) string {
	switch td {
	case U_TURN_LEFT:
		return "Putar balik ke kiri"
	case U_TURN_RIGHT:
		return "Putar balik ke kanan"
	case TURN_SHARP_LEFT:
		return "Belok tajam ke kiri"
	case TURN_LEFT:
		return "Belok kiri"
	case TURN_SLIGHT_LEFT:
		return "Belok sedikit ke kiri"
	case TURN_SLIGHT_RIGHT:
		return "Belok sedikit ke kanan"
	case TURN_RIGHT:
		return "Belok kanan"
	case TURN_SHARP_RIGHT:
		return "Belok tajam ke kanan"
	case ENTER_ROUNDABOUT:
		if exitNumber > 0 {
			return fmt.Sprintf("Di bundaran, ambil jalan keluar ke-%d", exitNumber)
		}
		return "Masuk bundaran"
	case EXIT_ROUNDABOUT:
		return "Keluar dari bundaran"
	case DESTINATION:
		return "Tiba di tujuan"
	default:
		return "Lurus terus"
	}
}
