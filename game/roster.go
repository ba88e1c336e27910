package game

type leaderDef struct {
	name  string
	value int
	kind  LeaderKind
}

var standardLeaders = map[Faction][]leaderDef{
	Green: {
		{name: "Thufir Hawat", value: 5},
		{name: "Lady Jessica", value: 5},
		{name: "Gurney Halleck", value: 4},
		{name: "Duncan Idaho", value: 2},
		{name: "Dr. Wellington Yueh", value: 1},
		{name: "Kwisatz Haderach", value: 2, kind: MessiahLeader},
	},
	Black: {
		{name: "Feyd-Rautha", value: 6},
		{name: "Beast Rabban", value: 4},
		{name: "Piter de Vries", value: 3},
		{name: "Captain Iakin Nefud", value: 2},
		{name: "Umman Kudu", value: 1},
	},
	Yellow: {
		{name: "Stilgar", value: 7},
		{name: "Chani", value: 6},
		{name: "Otheym", value: 5},
		{name: "Shadout Mapes", value: 3},
		{name: "Jamis", value: 2},
	},
	Red: {
		{name: "Hasimir Fenring", value: 6},
		{name: "Captain Aramsham", value: 5},
		{name: "Caid", value: 3},
		{name: "Burseg", value: 3},
		{name: "Bashar", value: 2},
	},
	Orange: {
		{name: "Staban Tuek", value: 5},
		{name: "Master Bewt", value: 3},
		{name: "Esmar Tuek", value: 3},
		{name: "Soo-Soo Sook", value: 2},
		{name: "Guild Rep", value: 1},
	},
	Blue: {
		{name: "Alia", value: 5},
		{name: "Margot Lady Fenring", value: 5},
		{name: "Mother Ramallo", value: 5},
		{name: "Princess Irulan", value: 5},
		{name: "Wanna Yueh", value: 5},
	},
	Grey: {
		{name: "Prince Rhombur Vernius", value: 4},
		{name: "Tessia Vernius", value: 4},
		{name: "Bronso Vernius", value: 3},
		{name: "Ambassador Pilru", value: 2},
		{name: "Kailea Vernius", value: 1},
	},
	Purple: {
		{name: "Hidar Fen Ajidica", value: 4},
		{name: "Master Zaaf", value: 3},
		{name: "Zoal", value: 3},
		{name: "Wykk", value: 2},
		{name: "Blin", value: 1},
	},
	Brown: {
		{name: "Auditor", value: 2, kind: AuditorLeader},
		{name: "Frankos Aru", value: 4},
		{name: "Executrix Ordos", value: 3},
		{name: "Rivvy Dinari", value: 3},
		{name: "Lady Jalma", value: 2},
	},
	White: {
		{name: "Talis Balt", value: 4},
		{name: "Haloa Rund", value: 3},
		{name: "Flinto Kinnis", value: 2},
		{name: "Lady Helena", value: 2},
		{name: "Ein Calimar", value: 1},
	},
}

// StandardLeaders returns the leaders a faction starts with.
func StandardLeaders(f Faction) []Leader {
	defs := standardLeaders[f]
	out := make([]Leader, 0, len(defs))
	for _, d := range defs {
		out = append(out, Leader{Name: d.name, Faction: f, Value: d.value, Kind: d.kind})
	}
	return out
}

type cardDef struct {
	typ   CardType
	names []string
}

var standardDeck = []cardDef{
	{Laser, []string{"Lasgun"}},
	{Projectile, []string{"Crysknife", "Maula Pistol", "Slip Tip", "Stunner"}},
	{Poison, []string{"Chaumas", "Chaumurky", "Ellaca Drug", "Gom Jabbar"}},
	{ProjectileAndPoison, []string{"Poison Blade"}},
	{PoisonTooth, []string{"Poison Tooth"}},
	{ArtilleryStrike, []string{"Artillery Strike"}},
	{Shield, []string{"Shield", "Shield", "Shield", "Shield"}},
	{Antidote, []string{"Snooper", "Snooper", "Snooper", "Snooper"}},
	{PortableAntidote, []string{"Portable Snooper"}},
	{ShieldAndAntidote, []string{"Shield Snooper"}},
	{Chemistry, []string{"Chemistry"}},
	{Mercenary, []string{"Cheap Hero", "Cheap Hero", "Cheap Heroine"}},
	{Karma, []string{"Karma", "Karma"}},
	{Juice, []string{"Juice of Sapho"}},
	{Residual, []string{"Residual Poison"}},
	{Useless, []string{"Baliset", "Jubba Cloak", "Kulon", "La, La, La", "Trip to Gamont"}},
}

// StandardDeck adds the standard treachery cards to t and returns their ids in table order.
func StandardDeck(t *CardTable) []CardID {
	var ids []CardID
	for _, d := range standardDeck {
		for _, name := range d.names {
			ids = append(ids, t.Add(d.typ, name))
		}
	}
	return ids
}
