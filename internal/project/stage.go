package project

// Stage is the last lifecycle step a crate completed successfully.
type Stage int

const (
	StageNone Stage = iota
	StageCreated
	StageDependencyAdded
	StageConfigured
	StageBuilt
	StageGenerated
	StageFinalBuilt
)

var stageNames = map[Stage]string{
	StageNone:            "NONE",
	StageCreated:         "CREATED",
	StageDependencyAdded: "DEPENDENCY_ADDED",
	StageConfigured:      "CONFIGURED",
	StageBuilt:           "BUILT",
	StageGenerated:       "GENERATED",
	StageFinalBuilt:      "FINAL_BUILT",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStage maps a recorded stage name back to a Stage. Unknown names map to StageNone.
func ParseStage(name string) Stage {
	for s, n := range stageNames {
		if n == name {
			return s
		}
	}
	return StageNone
}
