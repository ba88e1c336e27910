package game

import "fmt"

type CardType int

const (
	NoCard              CardType = 0
	Laser               CardType = 10
	Projectile          CardType = 20
	Poison              CardType = 30
	PoisonTooth         CardType = 31
	Chemistry           CardType = 35
	Shield              CardType = 40
	Antidote            CardType = 50
	PortableAntidote    CardType = 51
	ProjectileAndPoison CardType = 55
	ShieldAndAntidote   CardType = 56
	Mercenary           CardType = 60
	Karma               CardType = 70
	Useless             CardType = 80
	ArtilleryStrike     CardType = 150
	Juice               CardType = 190
	Residual            CardType = 250

	// Voice categories. No card has these types; they name a whole family of cards.
	ProjectileDefense CardType = 19
	PoisonDefense     CardType = 29
)

var cardTypeNames = map[CardType]string{
	NoCard:              "None",
	Laser:               "Lasgun",
	Projectile:          "Projectile",
	Poison:              "Poison",
	PoisonTooth:         "PoisonTooth",
	Chemistry:           "Chemistry",
	Shield:              "Shield",
	Antidote:            "Snooper",
	PortableAntidote:    "PortableSnooper",
	ProjectileAndPoison: "ProjectileAndPoison",
	ShieldAndAntidote:   "ShieldAndSnooper",
	Mercenary:           "Mercenary",
	Karma:               "Karma",
	Useless:             "Useless",
	ArtilleryStrike:     "ArtilleryStrike",
	Juice:               "Juice",
	Residual:            "Residual",
	ProjectileDefense:   "ProjectileDefense",
	PoisonDefense:       "PoisonDefense",
}

func (t CardType) String() string {
	if s, ok := cardTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("CardType(%d)", int(t))
}

func (t CardType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CardType) UnmarshalText(text []byte) error {
	v, err := parseName(cardTypeNames, string(text))
	if err != nil {
		return fmt.Errorf("card type: %w", err)
	}
	*t = v
	return nil
}

func (t CardType) IsLaser() bool {
	return t == Laser
}

func (t CardType) IsProjectileWeapon() bool {
	return t == Projectile || t == ProjectileAndPoison
}

func (t CardType) IsPoisonWeapon() bool {
	return t == Poison || t == ProjectileAndPoison
}

func (t CardType) IsPoisonTooth() bool {
	return t == PoisonTooth
}

func (t CardType) IsArtillery() bool {
	return t == ArtilleryStrike
}

func (t CardType) IsWeapon() bool {
	return t.IsLaser() || t.IsProjectileWeapon() || t.IsPoisonWeapon() || t.IsPoisonTooth() || t.IsArtillery()
}

func (t CardType) IsShield() bool {
	return t == Shield || t == ShieldAndAntidote
}

func (t CardType) IsProjectileDefense() bool {
	return t.IsShield()
}

// IsPoisonDefense reports whether the card stops a poison weapon.
func (t CardType) IsPoisonDefense() bool {
	return t == Antidote || t == PortableAntidote || t == ShieldAndAntidote || t == Chemistry
}

// IsNonAntidotePoisonDefense reports whether the card also stops a poison tooth.
func (t CardType) IsNonAntidotePoisonDefense() bool {
	return t == Chemistry
}

func (t CardType) IsDefense() bool {
	return t.IsProjectileDefense() || t.IsPoisonDefense()
}

func (t CardType) IsUseless() bool {
	return t == Useless
}

// IsOneTime reports whether the card is discarded after any battle it is played in.
func (t CardType) IsOneTime() bool {
	return t == ArtilleryStrike || t == PoisonTooth || t == Mercenary || t == PortableAntidote
}

type CardID int

// Card is one treachery card instance.
type Card struct {
	ID   CardID   `json:"id" yaml:"id"`
	Type CardType `json:"type" yaml:"type"`
	Name string   `json:"name" yaml:"name"`
}

func (c *Card) String() string {
	if c == nil {
		return "none"
	}
	return c.Name
}

// CardTable owns every card of a game. Slot 0 is unused so that the zero CardID means "no card".
type CardTable struct {
	cards []Card
}

func NewCardTable() *CardTable {
	return &CardTable{cards: []Card{{}}}
}

func (t *CardTable) Add(typ CardType, name string) CardID {
	id := CardID(len(t.cards))
	if name == "" {
		name = typ.String()
	}
	t.cards = append(t.cards, Card{ID: id, Type: typ, Name: name})
	return id
}

// Get dereferences id. It returns nil for the zero id and panics on an unknown id.
func (t *CardTable) Get(id CardID) *Card {
	if id == 0 {
		return nil
	}
	if int(id) < 0 || int(id) >= len(t.cards) {
		panic(fmt.Sprintf("unknown card %d", id))
	}
	return &t.cards[id]
}

func (t *CardTable) Type(id CardID) CardType {
	if c := t.Get(id); c != nil {
		return c.Type
	}
	return NoCard
}

func (t *CardTable) Len() int {
	return len(t.cards) - 1
}

// IDs returns all card ids in table order.
func (t *CardTable) IDs() []CardID {
	ids := make([]CardID, 0, t.Len())
	for i := 1; i < len(t.cards); i++ {
		ids = append(ids, CardID(i))
	}
	return ids
}

func (t *CardTable) Copy() *CardTable {
	cards := make([]Card, len(t.cards))
	copy(cards, t.cards)
	return &CardTable{cards: cards}
}
