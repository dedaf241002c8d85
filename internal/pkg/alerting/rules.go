package alerting

// RulesConfig — правила фильтрации алертов.
// Include-списки имеют приоритет над Exclude-списками того же измерения.
type RulesConfig struct {
	// MinSeverity — "INFO", "WARNING" или "CRITICAL".
	MinSeverity string

	IncludeCodes      []string
	ExcludeCodes      []string
	IncludeComponents []string
	ExcludeComponents []string
}

// RulesEngine оценивает алерты по RulesConfig.
type RulesEngine struct {
	minSeverity       Severity
	includeCodes      map[string]struct{}
	excludeCodes      map[string]struct{}
	includeComponents map[string]struct{}
	excludeComponents map[string]struct{}
}

// NewRulesEngine создаёт RulesEngine.
func NewRulesEngine(config RulesConfig) *RulesEngine {
	return &RulesEngine{
		minSeverity:       ParseSeverity(config.MinSeverity),
		includeCodes:      toSet(config.IncludeCodes),
		excludeCodes:      toSet(config.ExcludeCodes),
		includeComponents: toSet(config.IncludeComponents),
		excludeComponents: toSet(config.ExcludeComponents),
	}
}

// Evaluate сообщает, нужно ли отправлять алерт.
func (e *RulesEngine) Evaluate(alert Alert) bool {
	if alert.Severity < e.minSeverity {
		return false
	}
	return allowed(alert.Code, e.includeCodes, e.excludeCodes) &&
		allowed(alert.Component, e.includeComponents, e.excludeComponents)
}

func allowed(value string, include, exclude map[string]struct{}) bool {
	if len(include) > 0 {
		_, ok := include[value]
		return ok
	}
	_, excluded := exclude[value]
	return !excluded
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	s := make(map[string]struct{}, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}
