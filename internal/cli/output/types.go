package output

// StageNode is one stage in the stages listing.
type StageNode struct {
	Name      string   `json:"name"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
	Requires  []string `json:"requires"`
	Provides  []string `json:"provides"`
}

// StageLevel groups stages that run concurrently.
type StageLevel struct {
	Level  int         `json:"level"`
	Stages []StageNode `json:"stages"`
}

// StagesOutput is the JSON form of the stages listing.
type StagesOutput struct {
	Levels      []StageLevel `json:"levels"`
	TotalStages int          `json:"total_stages"`
	TotalEdges  int          `json:"total_edges"`
}
