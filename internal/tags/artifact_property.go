package tags

// ArtifactNaturalProperty - природное свойство артефакта, видимое игроку
type ArtifactNaturalProperty uint8

const (
	ArtPropNull ArtifactNaturalProperty = iota
	ArtPropWriggling
	ArtPropGlowing
	ArtPropHumming
	ArtPropMoving
	ArtPropWhispering
	ArtPropBreathing
	ArtPropDead
	ArtPropItchy
	ArtPropGlittering
	ArtPropElectric
	ArtPropSlimy
	ArtPropEngraved
	ArtPropCrackling
	ArtPropWarm
	ArtPropRattling
	ArtPropScaled
	ArtPropFractal

	ArtPropMax // не тег, только граница
)

var artifactPropertyNames = [ArtPropMax]string{
	"ARTPROP_NULL",
	"ARTPROP_WRIGGLING",
	"ARTPROP_GLOWING",
	"ARTPROP_HUMMING",
	"ARTPROP_MOVING",
	"ARTPROP_WHISPERING",
	"ARTPROP_BREATHING",
	"ARTPROP_DEAD",
	"ARTPROP_ITCHY",
	"ARTPROP_GLITTERING",
	"ARTPROP_ELECTRIC",
	"ARTPROP_SLIMY",
	"ARTPROP_ENGRAVED",
	"ARTPROP_CRACKLING",
	"ARTPROP_WARM",
	"ARTPROP_RATTLING",
	"ARTPROP_SCALED",
	"ARTPROP_FRACTAL",
}

func (p ArtifactNaturalProperty) String() string {
	return tagName(artifactPropertyNames[:], p, "ArtifactNaturalProperty")
}

func (p ArtifactNaturalProperty) IsValid() bool { return p < ArtPropMax }

func (p ArtifactNaturalProperty) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(p, ArtPropMax, "ArtifactNaturalProperty")
}

func (p *ArtifactNaturalProperty) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, ArtPropMax, "ArtifactNaturalProperty", p)
}

func ParseArtifactNaturalProperty(name string) (ArtifactNaturalProperty, bool) {
	return parseTag[ArtifactNaturalProperty](artifactPropertyNames[:], name)
}

func AllArtifactProperties() []ArtifactNaturalProperty { return allTags(ArtPropMax) }
