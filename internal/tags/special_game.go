package tags

// SpecialGameID выбирает особый режим игры. Логика режимов - у селектора режимов.
type SpecialGameID uint8

const (
	SGameNull     SpecialGameID = iota // 0 - обычная игра
	SGameTutorial                      // 1
	SGameDefense                       // 2

	NumSpecialGames
)

var specialGameNames = [NumSpecialGames]string{
	"SGAME_NULL",
	"SGAME_TUTORIAL",
	"SGAME_DEFENSE",
}

func (g SpecialGameID) String() string { return tagName(specialGameNames[:], g, "SpecialGameID") }

func (g SpecialGameID) IsValid() bool { return g < NumSpecialGames }

func (g SpecialGameID) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(g, NumSpecialGames, "SpecialGameID")
}

func (g *SpecialGameID) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumSpecialGames, "SpecialGameID", g)
}

func ParseSpecialGameID(name string) (SpecialGameID, bool) {
	return parseTag[SpecialGameID](specialGameNames[:], name)
}

func AllSpecialGames() []SpecialGameID { return allTags(NumSpecialGames) }
