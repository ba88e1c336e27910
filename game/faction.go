package game

import (
	"fmt"
	"strings"
)

// Faction identifies a player. The numeric values are stable because they are serialized.
type Faction int

const (
	None   Faction = 0
	Yellow Faction = 10
	Green  Faction = 20
	Black  Faction = 30
	Red    Faction = 40
	Orange Faction = 50
	Blue   Faction = 60
	Grey   Faction = 70
	Purple Faction = 80
	Brown  Faction = 90
	White  Faction = 100
	Pink   Faction = 110
	Cyan   Faction = 120
)

var factionNames = map[Faction]string{
	None:   "None",
	Yellow: "Yellow",
	Green:  "Green",
	Black:  "Black",
	Red:    "Red",
	Orange: "Orange",
	Blue:   "Blue",
	Grey:   "Grey",
	Purple: "Purple",
	Brown:  "Brown",
	White:  "White",
	Pink:   "Pink",
	Cyan:   "Cyan",
}

func (f Faction) String() string {
	if s, ok := factionNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Faction(%d)", int(f))
}

func (f Faction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Faction) UnmarshalText(text []byte) error {
	v, err := parseName(factionNames, string(text))
	if err != nil {
		return fmt.Errorf("faction: %w", err)
	}
	*f = v
	return nil
}

// parseName resolves a case-insensitive name against an enum name table.
func parseName[T comparable](names map[T]string, s string) (T, error) {
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown value %q", s)
}
