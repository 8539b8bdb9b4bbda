package intent

// Intent is one classification of an utterance with its confidence score.
type Intent struct {
	Name  string  `json:"intent"`
	Score float64 `json:"score"`
}

// Entity is a structured value the service extracted from the utterance,
// e.g. type "builtin.url" with the raw URL as value.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"entity"`
}

type QueryResult struct {
	Query     string   `json:"query"`
	TopIntent Intent   `json:"topScoringIntent"`
	Entities  []Entity `json:"entities"`
}

// FirstEntity returns the first entity of the given type; detection order is
// the service's order, first match wins.
func (r QueryResult) FirstEntity(entityType string) (Entity, bool) {
	for _, e := range r.Entities {
		if e.Type == entityType {
			return e, true
		}
	}
	return Entity{}, false
}
