package tags

// VisibilityType классифицирует, как тайл виден наблюдателю
type VisibilityType uint8

const (
	VisHidden     VisibilityType = iota // не видно
	VisClear                            // видно ясно
	VisLit                              // освещено
	VisBoomer                           // зрение залито желчью
	VisDark                             // темно
	VisBoomerDark                       // желчь + темнота

	NumVisibilityTypes
)

var visibilityNames = [NumVisibilityTypes]string{
	"VIS_HIDDEN",
	"VIS_CLEAR",
	"VIS_LIT",
	"VIS_BOOMER",
	"VIS_DARK",
	"VIS_BOOMER_DARK",
}

func (v VisibilityType) String() string { return tagName(visibilityNames[:], v, "VisibilityType") }

func (v VisibilityType) IsValid() bool { return v < NumVisibilityTypes }

func (v VisibilityType) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(v, NumVisibilityTypes, "VisibilityType")
}

func (v *VisibilityType) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumVisibilityTypes, "VisibilityType", v)
}

func ParseVisibilityType(name string) (VisibilityType, bool) {
	return parseTag[VisibilityType](visibilityNames[:], name)
}

func AllVisibilityTypes() []VisibilityType { return allTags(NumVisibilityTypes) }
