package tags

// PhaseID - агрегатное состояние вещества
type PhaseID uint8

const (
	PNull PhaseID = iota
	Solid
	Liquid
	Gas
	Plasma

	NumPhases
)

var phaseNames = [NumPhases]string{"PNULL", "SOLID", "LIQUID", "GAS", "PLASMA"}

func (p PhaseID) String() string { return tagName(phaseNames[:], p, "PhaseID") }

func (p PhaseID) IsValid() bool { return p < NumPhases }

func (p PhaseID) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(p, NumPhases, "PhaseID")
}

func (p *PhaseID) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumPhases, "PhaseID", p)
}

func ParsePhaseID(name string) (PhaseID, bool) {
	return parseTag[PhaseID](phaseNames[:], name)
}

func AllPhases() []PhaseID { return allTags(NumPhases) }
