package tags

// ObjectType - класс, через который объект мира взаимодействует с миром.
//
//	if grabbed == tags.ObjectVehicle { ... }
//	if target.ObjectType() == tags.ObjectNPC { ... }
type ObjectType uint8

const (
	ObjectNone      ObjectType = iota // ничего, недействительно
	ObjectItem                        // предмет
	ObjectActor                       // базовый актёр; конкретный тип - один из ниже
	ObjectPlayer                      // игрок
	ObjectNPC                         // NPC
	ObjectMonster                     // монстр
	ObjectVehicle                     // транспорт
	ObjectTrap                        // ловушка
	ObjectField                       // поле (огонь, дым, ...)
	ObjectTerrain                     // не настоящий объект
	ObjectFurniture                   // не настоящий объект

	NumObjects
)

var objectTypeNames = [NumObjects]string{
	"OBJECT_NONE",
	"OBJECT_ITEM",
	"OBJECT_ACTOR",
	"OBJECT_PLAYER",
	"OBJECT_NPC",
	"OBJECT_MONSTER",
	"OBJECT_VEHICLE",
	"OBJECT_TRAP",
	"OBJECT_FIELD",
	"OBJECT_TERRAIN",
	"OBJECT_FURNITURE",
}

func (o ObjectType) String() string { return tagName(objectTypeNames[:], o, "ObjectType") }

func (o ObjectType) IsValid() bool { return o < NumObjects }

func (o ObjectType) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(o, NumObjects, "ObjectType")
}

func (o *ObjectType) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumObjects, "ObjectType", o)
}

func ParseObjectType(name string) (ObjectType, bool) {
	return parseTag[ObjectType](objectTypeNames[:], name)
}

func AllObjectTypes() []ObjectType { return allTags(NumObjects) }
