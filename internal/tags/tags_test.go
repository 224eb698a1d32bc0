package tags

import (
	"encoding/json"
	"testing"

	"github.com/annel0/tileworld/internal/jsonio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ординалы входят в формат сохранений: эти значения менять нельзя
func TestOrdinalsArePinned(t *testing.T) {
	pinned := map[string][2]int{
		"RuleNone":            {int(RuleNone), 0},
		"RuleBlacklisted":     {int(RuleBlacklisted), 2},
		"NumRuleStates":       {int(NumRuleStates), 3},
		"VisHidden":           {int(VisHidden), 0},
		"VisBoomerDark":       {int(VisBoomerDark), 5},
		"SGameNull":           {int(SGameNull), 0},
		"SGameDefense":        {int(SGameDefense), 2},
		"NumSpecialGames":     {int(NumSpecialGames), 3},
		"AEPNull":             {int(AEPNull), 0},
		"AEPStrUp":            {int(AEPStrUp), 1},
		"AEPFun":              {int(AEPFun), 19},
		"AEPSplit":            {int(AEPSplit), 20},
		"AEPHunger":           {int(AEPHunger), 21},
		"AEPSick":             {int(AEPSick), 38},
		"AEPClairvoyancePlus": {int(AEPClairvoyancePlus), 39},
		"NumAEPs":             {int(NumAEPs), 40},
		"ArtPropNull":         {int(ArtPropNull), 0},
		"ArtPropFractal":      {int(ArtPropFractal), 17},
		"ArtPropMax":          {int(ArtPropMax), 18},
		"PNull":               {int(PNull), 0},
		"Plasma":              {int(Plasma), 4},
		"ObjectNone":          {int(ObjectNone), 0},
		"ObjectFurniture":     {int(ObjectFurniture), 10},
		"NumObjects":          {int(NumObjects), 11},
		"DistractionNoise":    {int(DistractionNoise), 0},
		"DistractionWeather":  {int(DistractionWeatherChange), 7},
	}
	for name, pair := range pinned {
		assert.Equal(t, pair[1], pair[0], "ординал %s изменился", name)
	}
}

func TestArtEffectPartition(t *testing.T) {
	beneficial := []ArtEffectPassive{
		AEPStrUp, AEPDexUp, AEPPerUp, AEPIntUp, AEPAllUp, AEPSpeedUp, AEPPBlue,
		AEPSnakes, AEPInvisible, AEPClairvoyance, AEPSuperClairvoyance, AEPStealth,
		AEPExtinguish, AEPGlow, AEPPsyshield, AEPResistElectricity, AEPCarryMore,
		AEPSapLife, AEPFun,
	}
	// AEPClairvoyancePlus стоит после AEPSplit ради старых сохранений
	detrimental := []ArtEffectPassive{
		AEPHunger, AEPThirst, AEPSmoke, AEPEvil, AEPSchizo, AEPRadioactive,
		AEPMutagenic, AEPAttention, AEPStrDown, AEPDexDown, AEPPerDown, AEPIntDown,
		AEPAllDown, AEPSpeedDown, AEPForceTeleport, AEPMovementNoise, AEPBadWeather,
		AEPSick, AEPClairvoyancePlus,
	}

	inList := func(list []ArtEffectPassive, e ArtEffectPassive) bool {
		for _, v := range list {
			if v == e {
				return true
			}
		}
		return false
	}

	for _, e := range AllArtEffects() {
		switch {
		case e == AEPNull || e == AEPSplit:
			assert.False(t, e.IsBeneficial(), "%s", e)
			assert.False(t, e.IsDetrimental(), "%s", e)
		case e < AEPSplit:
			assert.True(t, inList(beneficial, e), "%s до AEPSplit, но не в списке полезных", e)
			assert.True(t, e.IsBeneficial(), "%s", e)
			assert.False(t, e.IsDetrimental(), "%s", e)
		default:
			assert.True(t, inList(detrimental, e), "%s после AEPSplit, но не в списке вредных", e)
			assert.True(t, e.IsDetrimental(), "%s", e)
			assert.False(t, e.IsBeneficial(), "%s", e)
		}
	}

	assert.Len(t, beneficial, int(AEPSplit)-1)
	assert.Len(t, detrimental, int(NumAEPs)-int(AEPSplit)-1)
	assert.False(t, NumAEPs.IsDetrimental(), "сентинел не является тегом")
}

func TestNameTables(t *testing.T) {
	for _, set := range Catalogue() {
		t.Run(set.Name, func(t *testing.T) {
			require.Equal(t, set.Sentinel, len(set.Entries))
			seen := make(map[string]bool, len(set.Entries))
			for i, e := range set.Entries {
				assert.Equal(t, i, e.Ordinal)
				assert.NotEmpty(t, e.Name, "пустое имя у ординала %d", i)
				assert.False(t, seen[e.Name], "повтор имени %s", e.Name)
				seen[e.Name] = true
			}
		})
	}

	assert.Equal(t, "AEP_SPLIT", AEPSplit.String())
	assert.Equal(t, "hostile_spotted", DistractionHostileSpotted.String())
	assert.Equal(t, "ObjectType(11)", NumObjects.String())
}

func TestParse(t *testing.T) {
	for _, e := range AllArtEffects() {
		got, ok := ParseArtEffectPassive(e.String())
		require.True(t, ok)
		assert.Equal(t, e, got)
	}
	for _, o := range AllObjectTypes() {
		got, ok := ParseObjectType(o.String())
		require.True(t, ok)
		assert.Equal(t, o, got)
	}

	p, ok := ParsePhaseID("LIQUID")
	assert.True(t, ok)
	assert.Equal(t, Liquid, p)

	_, ok = ParseRuleState("RULE_MAYBE")
	assert.False(t, ok)
	_, ok = ParseVisibilityType("")
	assert.False(t, ok)
}

func TestJSONUsesOrdinals(t *testing.T) {
	type record struct {
		Rule     RuleState               `json:"rule"`
		Vis      VisibilityType          `json:"vis"`
		Game     SpecialGameID           `json:"game"`
		Effect   ArtEffectPassive        `json:"effect"`
		Prop     ArtifactNaturalProperty `json:"prop"`
		Phase    PhaseID                 `json:"phase"`
		Object   ObjectType              `json:"object"`
		Distract DistractionType         `json:"distract"`
	}
	in := record{
		Rule:     RuleBlacklisted,
		Vis:      VisDark,
		Game:     SGameTutorial,
		Effect:   AEPClairvoyancePlus,
		Prop:     ArtPropFractal,
		Phase:    Gas,
		Object:   ObjectVehicle,
		Distract: DistractionAsthma,
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rule":2,"vis":4,"game":1,"effect":39,"prop":17,"phase":3,"object":6,"distract":5}`, string(data))

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestJSONRejects(t *testing.T) {
	t.Run("Sentinel is not serialisable", func(t *testing.T) {
		_, err := json.Marshal(NumAEPs)
		assert.ErrorIs(t, err, ErrInvalidTag)
		_, err = json.Marshal(ArtPropMax)
		assert.ErrorIs(t, err, ErrInvalidTag)
	})

	t.Run("Out of range ordinal", func(t *testing.T) {
		var e ArtEffectPassive
		assert.ErrorIs(t, json.Unmarshal([]byte(`40`), &e), jsonio.ErrMalformedData)

		var o ObjectType
		assert.ErrorIs(t, json.Unmarshal([]byte(`-1`), &o), jsonio.ErrMalformedData)
	})

	t.Run("Names are not accepted", func(t *testing.T) {
		var p PhaseID
		assert.ErrorIs(t, json.Unmarshal([]byte(`"SOLID"`), &p), jsonio.ErrMalformedData)

		var d DistractionType
		assert.ErrorIs(t, json.Unmarshal([]byte(`"noise"`), &d), jsonio.ErrMalformedData)
	})

	t.Run("Null is not a tag", func(t *testing.T) {
		var rec struct {
			Phase PhaseID `json:"phase"`
		}
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"phase":null}`), &rec), jsonio.ErrMalformedData)

		var opt struct {
			Phase *PhaseID `json:"phase"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"phase":null}`), &opt))
		assert.Nil(t, opt.Phase)
	})
}

func TestIsValid(t *testing.T) {
	assert.True(t, RuleNone.IsValid())
	assert.False(t, NumRuleStates.IsValid())
	assert.True(t, VisBoomerDark.IsValid())
	assert.False(t, NumVisibilityTypes.IsValid())
	assert.False(t, NumSpecialGames.IsValid())
	assert.True(t, AEPSplit.IsValid(), "AEPSplit - действительный ординал-разделитель")
	assert.False(t, NumAEPs.IsValid())
	assert.False(t, ArtPropMax.IsValid())
	assert.False(t, NumPhases.IsValid())
	assert.False(t, NumObjects.IsValid())
	assert.False(t, NumDistractionTypes.IsValid())

	assert.Len(t, AllRuleStates(), 3)
	assert.Len(t, AllVisibilityTypes(), 6)
	assert.Len(t, AllSpecialGames(), 3)
	assert.Len(t, AllArtifactProperties(), 18)
	assert.Len(t, AllPhases(), 5)
	assert.Len(t, AllDistractionTypes(), 8)
}
