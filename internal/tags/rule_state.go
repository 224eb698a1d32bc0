package tags

// RuleState используется правилами автоподбора и safemode
type RuleState uint8

const (
	RuleNone        RuleState = iota // 0
	RuleWhitelisted                  // 1
	RuleBlacklisted                  // 2

	NumRuleStates // всегда последний: количество состояний
)

var ruleStateNames = [NumRuleStates]string{
	"RULE_NONE",
	"RULE_WHITELISTED",
	"RULE_BLACKLISTED",
}

func (s RuleState) String() string { return tagName(ruleStateNames[:], s, "RuleState") }

// IsValid сообщает, что значение является тегом набора, а не сентинелом
func (s RuleState) IsValid() bool { return s < NumRuleStates }

func (s RuleState) MarshalJSON() ([]byte, error) {
	return marshalOrdinal(s, NumRuleStates, "RuleState")
}

func (s *RuleState) UnmarshalJSON(data []byte) error {
	return unmarshalOrdinal(data, NumRuleStates, "RuleState", s)
}

// ParseRuleState ищет тег по имени из контента
func ParseRuleState(name string) (RuleState, bool) {
	return parseTag[RuleState](ruleStateNames[:], name)
}

// AllRuleStates возвращает все теги в порядке ординалов
func AllRuleStates() []RuleState { return allTags(NumRuleStates) }
