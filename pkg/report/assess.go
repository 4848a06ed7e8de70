package report

import "github.com/Sumatoshi-tech/halstead/pkg/halstead"

// Assessment thresholds.
const (
	volumeLow        = 100
	volumeMedium     = 1000
	volumeHigh       = 5000
	difficultyLow    = 5
	difficultyMedium = 15
	difficultyHigh   = 30
	effortLow        = 1000
	effortMedium     = 10000
	effortHigh       = 50000
	bugsLow          = 0.1
	bugsMedium       = 0.5
)

// Level grades a metric value.
type Level string

// Levels, best first.
const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Assessment grades the headline metrics of one scope.
type Assessment struct {
	Volume     Level  `json:"volume"      yaml:"volume"`
	Difficulty Level  `json:"difficulty"  yaml:"difficulty"`
	Effort     Level  `json:"effort"      yaml:"effort"`
	Bugs       Level  `json:"bugs"        yaml:"bugs"`
	Summary    string `json:"summary"     yaml:"summary"`
}

// Assess grades the derived values of an evaluated scope.
func Assess(values halstead.Values) Assessment {
	volume := values[halstead.Volume]
	difficulty := values[halstead.Difficulty]
	effort := values[halstead.Effort]

	return Assessment{
		Volume:     grade(volume, volumeLow, volumeMedium),
		Difficulty: grade(difficulty, difficultyLow, difficultyMedium),
		Effort:     grade(effort, effortLow, effortMedium),
		Bugs:       grade(values[halstead.Bugs], bugsLow, bugsMedium),
		Summary:    summary(volume, difficulty, effort),
	}
}

func grade(v, low, medium float64) Level {
	switch {
	case v <= low:
		return LevelLow
	case v <= medium:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func summary(volume, difficulty, effort float64) string {
	switch {
	case volume <= volumeLow && difficulty <= difficultyLow && effort <= effortLow:
		return "Excellent complexity - code is simple and maintainable"
	case volume <= volumeMedium && difficulty <= difficultyMedium && effort <= effortMedium:
		return "Good complexity - code is reasonably complex"
	case volume <= volumeHigh && difficulty <= difficultyHigh && effort <= effortHigh:
		return "Fair complexity - consider simplifying some functions"
	default:
		return "High complexity - code should be refactored for better maintainability"
	}
}
