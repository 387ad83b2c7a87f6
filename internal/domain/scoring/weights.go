package scoring

// Factor weights for the overall score. Skills dominate, then experience,
// sector, and location. The weights are never renormalized: a factor that
// fell back to its neutral default still contributes its weighted share.
const (
	skillsWeight     = 0.4
	experienceWeight = 0.3
	sectorWeight     = 0.2
	locationWeight   = 0.1
)

// Score constants shared by the factor scorers.
const (
	minScore     = 0
	maxScore     = 100
	neutralScore = 50 // "unknown", not "bad"
)

// Experience scoring: meeting the requirement is worth the base, every extra
// year adds bonus points up to the cap; falling short scales linearly against
// the base.
const (
	experienceBase         = 80.0
	experienceBonusPerYear = 2.0
	experienceBonusCap     = 20.0
)

// Sector and location scoring outcomes.
const (
	sectorMatchScore = 100
	sectorMissScore  = 30

	locationExactScore  = 100
	locationRegionScore = 70
	locationMissScore   = 30
)

// Explanation band thresholds. Skills get a fourth band; the other factors
// use three.
const (
	bandHigh     = 80
	bandGood     = 60
	bandModerate = 40
)
