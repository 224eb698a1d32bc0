package tags

// Entry - одна строка таблицы ординалов
type Entry struct {
	Ordinal int    `json:"ordinal"`
	Name    string `json:"name"`
}

// Set описывает набор тегов целиком: имена по ординалам и сентинел
type Set struct {
	Name     string  `json:"name"`
	Sentinel int     `json:"sentinel"`
	Entries  []Entry `json:"entries"`
}

func newSet(name string, names []string) Set {
	entries := make([]Entry, len(names))
	for i, n := range names {
		entries[i] = Entry{Ordinal: i, Name: n}
	}
	return Set{Name: name, Sentinel: len(names), Entries: entries}
}

// Catalogue возвращает таблицы всех наборов в фиксированном порядке.
// Используется внешними инструментами для чтения сохранений по ординалам.
func Catalogue() []Set {
	return []Set{
		newSet("rule_state", ruleStateNames[:]),
		newSet("visibility_type", visibilityNames[:]),
		newSet("special_game_id", specialGameNames[:]),
		newSet("art_effect_passive", artEffectNames[:]),
		newSet("artifact_natural_property", artifactPropertyNames[:]),
		newSet("phase_id", phaseNames[:]),
		newSet("object_type", objectTypeNames[:]),
		newSet("distraction_type", distractionNames[:]),
	}
}
