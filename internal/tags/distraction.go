package tags

// DistractionType - причина прервать текущее действие
type DistractionType uint8

const (
	DistractionNoise DistractionType = iota
	DistractionPain
	DistractionAttacked
	DistractionHostileSpotted
	DistractionTalkedTo
	DistractionAsthma
	DistractionMotionAlarm
	DistractionWeatherChange

	NumDistractionTypes
)

var distractionNames = [NumDistractionTypes]string{
	"noise",
	"pain",
	"attacked",
	"hostile_spotted",
	"talked_to",
	"asthma",
	"motion_alarm",
	"weather_change",
}

func (d DistractionType) String() string { return tagName(distractionNames[:], d, "DistractionType") }

func (d DistractionType) IsValid() bool { return d < NumDistractionTypes }

func (d DistractionType) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(d, NumDistractionTypes, "DistractionType")
}

func (d *DistractionType) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumDistractionTypes, "DistractionType", d)
}

func ParseDistractionType(name string) (DistractionType, bool) {
	return parseTag[DistractionType](distractionNames[:], name)
}

func AllDistractionTypes() []DistractionType { return allTags(NumDistractionTypes) }
