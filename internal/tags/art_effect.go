package tags

// ArtEffectPassive - пассивный эффект артефакта.
//
// AEPSplit делит набор: ординалы до него полезные, после него вредные.
// Классификация делается только сравнением с AEPSplit, отдельной таблицы нет.
// Новые полезные эффекты идут перед AEPSplit, вредные перед NumAEPs.
// AEPClairvoyancePlus стоит в конце ради старых сохранений и по ординалу вредный.
type ArtEffectPassive uint8

const (
	AEPNull ArtEffectPassive = iota // 0

	// Полезные
	AEPStrUp             // 1: сила +4
	AEPDexUp             // 2: ловкость +4
	AEPPerUp             // 3: восприятие +4
	AEPIntUp             // 4: интеллект +4
	AEPAllUp             // 5: все характеристики +2
	AEPSpeedUp           // 6: +20 скорости
	AEPPBlue             // 7: снижает радиацию
	AEPSnakes            // 8: призывает дружественных змей при ударе
	AEPInvisible         // 9: невидимость
	AEPClairvoyance      // 10: видеть сквозь стены
	AEPSuperClairvoyance // 11: видеть сквозь стены далеко
	AEPStealth           // 12: тихие шаги
	AEPExtinguish        // 13: может тушить огонь рядом
	AEPGlow              // 14: источник света на 4 тайла
	AEPPsyshield         // 15: защита от взгляда
	AEPResistElectricity // 16: защита от электричества
	AEPCarryMore         // 17: +200 к переносимому весу
	AEPSapLife           // 18: убийства могут лечить
	AEPFun               // 19: слабая пассивная мораль

	AEPSplit // 20: граница полезных и вредных

	// Вредные
	AEPHunger           // 21
	AEPThirst           // 22
	AEPSmoke            // 23: иногда выпускает дым
	AEPEvil             // 24: зависимость от силы
	AEPSchizo           // 25
	AEPRadioactive      // 26
	AEPMutagenic        // 27
	AEPAttention        // 28: привлекает внимание из иного мира
	AEPStrDown          // 29: сила -3
	AEPDexDown          // 30
	AEPPerDown          // 31
	AEPIntDown          // 32
	AEPAllDown          // 33: все характеристики -2
	AEPSpeedDown        // 34: -20 скорости
	AEPForceTeleport    // 35
	AEPMovementNoise    // 36
	AEPBadWeather       // 37
	AEPSick             // 38
	AEPClairvoyancePlus // 39: добавлен последним ради старых сохранений

	NumAEPs // 40
)

var artEffectNames = [NumAEPs]string{
	"AEP_NULL",
	"AEP_STR_UP",
	"AEP_DEX_UP",
	"AEP_PER_UP",
	"AEP_INT_UP",
	"AEP_ALL_UP",
	"AEP_SPEED_UP",
	"AEP_PBLUE",
	"AEP_SNAKES",
	"AEP_INVISIBLE",
	"AEP_CLAIRVOYANCE",
	"AEP_SUPER_CLAIRVOYANCE",
	"AEP_STEALTH",
	"AEP_EXTINGUISH",
	"AEP_GLOW",
	"AEP_PSYSHIELD",
	"AEP_RESIST_ELECTRICITY",
	"AEP_CARRY_MORE",
	"AEP_SAP_LIFE",
	"AEP_FUN",
	"AEP_SPLIT",
	"AEP_HUNGER",
	"AEP_THIRST",
	"AEP_SMOKE",
	"AEP_EVIL",
	"AEP_SCHIZO",
	"AEP_RADIOACTIVE",
	"AEP_MUTAGENIC",
	"AEP_ATTENTION",
	"AEP_STR_DOWN",
	"AEP_DEX_DOWN",
	"AEP_PER_DOWN",
	"AEP_INT_DOWN",
	"AEP_ALL_DOWN",
	"AEP_SPEED_DOWN",
	"AEP_FORCE_TELEPORT",
	"AEP_MOVEMENT_NOISE",
	"AEP_BAD_WEATHER",
	"AEP_SICK",
	"AEP_CLAIRVOYANCE_PLUS",
}

func (e ArtEffectPassive) String() string { return tagName(artEffectNames[:], e, "ArtEffectPassive") }

func (e ArtEffectPassive) IsValid() bool { return e < NumAEPs }

// IsBeneficial - эффект лежит строго между AEPNull и AEPSplit
func (e ArtEffectPassive) IsBeneficial() bool {
	return e > AEPNull && e < AEPSplit
}

// IsDetrimental - эффект лежит строго между AEPSplit и NumAEPs
func (e ArtEffectPassive) IsDetrimental() bool {
	return e > AEPSplit && e < NumAEPs
}

func (e ArtEffectPassive) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(e, NumAEPs, "ArtEffectPassive")
}

func (e *ArtEffectPassive) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumAEPs, "ArtEffectPassive", e)
}

func ParseArtEffectPassive(name string) (ArtEffectPassive, bool) {
	return parseTag[ArtEffectPassive](artEffectNames[:], name)
}

func AllArtEffects() []ArtEffectPassive { return allTags(NumAEPs) }
