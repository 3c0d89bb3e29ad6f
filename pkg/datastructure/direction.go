package datastructure

import (
	"fmt"
	"strings"
)

// TurnDirection. maneuver at the end of a route segment. values follow the turn signs of the guidance package:
// negative = left, positive = right.
type TurnDirection int

const (
	U_TURN_LEFT       TurnDirection = -8
	EXIT_ROUNDABOUT   TurnDirection = -6
	TURN_SHARP_LEFT   TurnDirection = -3
	TURN_LEFT         TurnDirection = -2
	TURN_SLIGHT_LEFT  TurnDirection = -1
	STRAIGHT          TurnDirection = 0
	TURN_SLIGHT_RIGHT TurnDirection = 1
	TURN_RIGHT        TurnDirection = 2
	TURN_SHARP_RIGHT  TurnDirection = 3
	DESTINATION       TurnDirection = 4
	ENTER_ROUNDABOUT  TurnDirection = 6
	U_TURN_RIGHT      TurnDirection = 8
)

var turnDirectionNames = map[TurnDirection]string{
	U_TURN_LEFT:       "U_TURN_LEFT",
	EXIT_ROUNDABOUT:   "EXIT_ROUNDABOUT",
	TURN_SHARP_LEFT:   "TURN_SHARP_LEFT",
	TURN_LEFT:         "TURN_LEFT",
	TURN_SLIGHT_LEFT:  "TURN_SLIGHT_LEFT",
	STRAIGHT:          "STRAIGHT",
	TURN_SLIGHT_RIGHT: "TURN_SLIGHT_RIGHT",
	TURN_RIGHT:        "TURN_RIGHT",
	TURN_SHARP_RIGHT:  "TURN_SHARP_RIGHT",
	DESTINATION:       "DESTINATION",
	ENTER_ROUNDABOUT:  "ENTER_ROUNDABOUT",
	U_TURN_RIGHT:      "U_TURN_RIGHT",
}

func (td TurnDirection) String() string {
	if name, ok := turnDirectionNames[td]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(td))
}

func (td TurnDirection) Valid() bool {
	_, ok := turnDirectionNames[td]
	return ok
}

func (td TurnDirection) IsLeft() bool {
	return td < 0
}

func (td TurnDirection) IsRoundabout() bool {
	return td == ENTER_ROUNDABOUT || td == EXIT_ROUNDABOUT
}

// ParseTurnDirection. case insensitive, accepts the names returned by String
func ParseTurnDirection(s string) (TurnDirection, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for td, n := range turnDirectionNames {
		if n == name {
			return td, nil
		}
	}
	return STRAIGHT, fmt.Errorf("unknown turn direction %q", s)
}

func (td TurnDirection) MarshalText() ([]byte, error) {
	return []byte(td.String()), nil
}

func (td *TurnDirection) UnmarshalText(text []byte) error {
	parsed, err := ParseTurnDirection(string(text))
	if err != nil {
		return err
	}
	*td = parsed
	return nil
}

// Description. english maneuver phrase, e.g. "Turn slight left"
func (td TurnDirection) Description(exitNumber int) string {
	switch td {
	case U_TURN_LEFT:
		return "Make U-turn left"
	case U_TURN_RIGHT:
		return "Make U-turn right"
	case TURN_SHARP_LEFT:
		return "Turn sharp left"
	case TURN_LEFT:
		return "Turn left"
	case TURN_SLIGHT_LEFT:
		return "Turn slight left"
	case TURN_SLIGHT_RIGHT:
		return "Turn slight right"
	case TURN_RIGHT:
		return "Turn right"
	case TURN_SHARP_RIGHT:
		return "Turn sharp right"
	case ENTER_ROUNDABOUT:
		if exitNumber > 0 {
			return fmt.Sprintf("At the roundabout, take exit %d", exitNumber)
		}
		return "Enter the roundabout"
	case EXIT_ROUNDABOUT:
		return "Exit the roundabout"
	case DESTINATION:
		return "Arrive at your destination"
	default:
		return "Continue"
	}
}

func isEmpty(str string) bool {
	return strings.TrimSpace(str) == ""
}
