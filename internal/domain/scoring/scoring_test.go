package scoring_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/BrainTwoPoint0/nexus-sub002/internal/domain/model"
	scoring "github.com/BrainTwoPoint0/nexus-sub002/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func floatPtr(v float64) *float64 { return &v }

func TestSkillsScore(t *testing.T) {
	Convey("Given the skills scorer", t, func() {
		Convey("When either list is absent", func() {
			So(scoring.SkillsScore(nil, []string{"python"}), ShouldEqual, 0)
			So(scoring.SkillsScore([]string{"python"}, nil), ShouldEqual, 0)
			So(scoring.SkillsScore(nil, nil), ShouldEqual, 0)
		})

		Convey("When the job requires no skills", func() {
			So(scoring.SkillsScore([]string{"python"}, []string{}), ShouldEqual, 50)
		})

		Convey("When half the required skills are covered", func() {
			score := scoring.SkillsScore(
				[]string{"Python", "SQL"},
				[]string{"python", "leadership"},
			)
			So(score, ShouldEqual, 50)
		})

		Convey("When matching is a bidirectional substring check", func() {
			// "python" is a substring of "Python 3"
			So(scoring.SkillsScore([]string{"Python 3"}, []string{"python"}), ShouldEqual, 100)
			// "go" is a substring of "golang" but "JS" is not part of "JavaScript"
			So(scoring.SkillsScore([]string{"golang"}, []string{"go", "JS"}), ShouldEqual, 50)
			// the known false positive is preserved
			So(scoring.SkillsScore([]string{"JavaScript"}, []string{"Java"}), ShouldEqual, 100)
		})

		Convey("When the candidate covers everything", func() {
			score := scoring.SkillsScore(
				[]string{"Go", "Kubernetes", "Postgres"},
				[]string{"go", "postgres"},
			)
			So(score, ShouldEqual, 100)
		})

		Convey("When the candidate list is empty but present", func() {
			So(scoring.SkillsScore([]string{}, []string{"go"}), ShouldEqual, 0)
		})
	})
}

func TestExperienceScore(t *testing.T) {
	Convey("Given the experience scorer", t, func() {
		Convey("When either value is absent", func() {
			So(scoring.ExperienceScore(nil, floatPtr(5)), ShouldEqual, 50)
			So(scoring.ExperienceScore(floatPtr(5), nil), ShouldEqual, 50)
		})

		Convey("When the candidate exceeds the requirement", func() {
			// 4 extra years at 2 points each on top of the base 80
			So(scoring.ExperienceScore(floatPtr(12), floatPtr(8)), ShouldEqual, 88)
		})

		Convey("When the bonus is capped", func() {
			So(scoring.ExperienceScore(floatPtr(30), floatPtr(5)), ShouldEqual, 100)
		})

		Convey("When the candidate exactly meets the requirement", func() {
			So(scoring.ExperienceScore(floatPtr(8), floatPtr(8)), ShouldEqual, 80)
		})

		Convey("When the candidate falls short", func() {
			// 4/10 of the base 80
			So(scoring.ExperienceScore(floatPtr(4), floatPtr(10)), ShouldEqual, 32)
		})

		Convey("When the requirement is zero", func() {
			// candidate is always >= 0, so the bonus branch applies
			So(scoring.ExperienceScore(floatPtr(0), floatPtr(0)), ShouldEqual, 80)
			So(scoring.ExperienceScore(floatPtr(15), floatPtr(0)), ShouldEqual, 100)
		})

		Convey("When values are negative they are clamped", func() {
			So(scoring.ExperienceScore(floatPtr(-3), floatPtr(0)), ShouldEqual, 80)
			So(scoring.ExperienceScore(floatPtr(-3), floatPtr(10)), ShouldEqual, 0)
		})
	})
}

func TestSectorScore(t *testing.T) {
	Convey("Given the sector scorer", t, func() {
		Convey("When either side is absent", func() {
			So(scoring.SectorScore(nil, "Finance"), ShouldEqual, 50)
			So(scoring.SectorScore([]string{}, "Finance"), ShouldEqual, 50)
			So(scoring.SectorScore([]string{"Finance"}, ""), ShouldEqual, 50)
		})

		Convey("When a preference matches the job sector", func() {
			So(scoring.SectorScore([]string{"Finance", "Energy"}, "finance"), ShouldEqual, 100)
		})

		Convey("When the match is a substring in either direction", func() {
			So(scoring.SectorScore([]string{"Tech"}, "Technology"), ShouldEqual, 100)
			So(scoring.SectorScore([]string{"Financial Services"}, "Financial"), ShouldEqual, 100)
		})

		Convey("When nothing matches", func() {
			So(scoring.SectorScore([]string{"Healthcare"}, "Mining"), ShouldEqual, 30)
		})
	})
}

func TestLocationScore(t *testing.T) {
	Convey("Given the location scorer", t, func() {
		Convey("When either side is absent", func() {
			So(scoring.LocationScore("", "London, UK"), ShouldEqual, 50)
			So(scoring.LocationScore("Paris, France", ""), ShouldEqual, 50)
		})

		Convey("When the job is remote it overrides everything", func() {
			So(scoring.LocationScore("Paris, France", "Remote - Anywhere"), ShouldEqual, 100)
			So(scoring.LocationScore("Tokyo, Japan", "REMOTE"), ShouldEqual, 100)
			So(scoring.LocationScore("Berlin, Germany", "Work from anywhere"), ShouldEqual, 100)
		})

		Convey("When one location contains the other", func() {
			So(scoring.LocationScore("London, UK", "UK"), ShouldEqual, 100)
			So(scoring.LocationScore("London", "Greater London, UK"), ShouldEqual, 100)
		})

		Convey("When only the region after the last comma matches", func() {
			So(scoring.LocationScore("Manchester, UK", "Leeds, UK"), ShouldEqual, 70)
		})

		Convey("When the regions differ", func() {
			So(scoring.LocationScore("Paris, France", "Berlin, Germany"), ShouldEqual, 30)
		})
	})
}

func TestOverallScore(t *testing.T) {
	Convey("Given the score aggregator", t, func() {
		Convey("When combining known sub-scores", func() {
			// round(0.4*80 + 0.3*80 + 0.2*100 + 0.1*70) = round(83) = 83
			So(scoring.OverallScore(80, 80, 100, 70), ShouldEqual, 83)
		})

		Convey("When all factors are perfect", func() {
			So(scoring.OverallScore(100, 100, 100, 100), ShouldEqual, 100)
		})

		Convey("When all factors are zero", func() {
			So(scoring.OverallScore(0, 0, 0, 0), ShouldEqual, 0)
		})

		Convey("When all factors are neutral", func() {
			So(scoring.OverallScore(50, 50, 50, 50), ShouldEqual, 50)
		})

		Convey("Then the result is always within range", func() {
			for _, sub := range [][4]int{{0, 0, 0, 0}, {100, 0, 30, 70}, {50, 88, 100, 30}, {100, 100, 100, 100}} {
				overall := scoring.OverallScore(sub[0], sub[1], sub[2], sub[3])
				So(overall, ShouldBeGreaterThanOrEqualTo, 0)
				So(overall, ShouldBeLessThanOrEqualTo, 100)
			}
		})
	})
}

func TestExplain(t *testing.T) {
	Convey("Given the explanation generator", t, func() {
		Convey("When all factors are strong", func() {
			text := scoring.Explain(90, 85, 100, 100)
			So(text, ShouldContainSubstring, "Excellent skills match")
			So(text, ShouldContainSubstring, "Experience exceeds requirements")
			So(text, ShouldContainSubstring, "Preferred sector")
			So(text, ShouldContainSubstring, "Location is a match")
		})

		Convey("When all factors are weak", func() {
			text := scoring.Explain(10, 32, 30, 30)
			So(text, ShouldContainSubstring, "Limited skills overlap")
			So(text, ShouldContainSubstring, "Less experience than required")
			So(text, ShouldContainSubstring, "Outside preferred sectors")
			So(text, ShouldContainSubstring, "Relocation likely required")
		})

		Convey("When skills sit in the middle bands", func() {
			So(scoring.Explain(65, 50, 50, 50), ShouldContainSubstring, "Strong skills match")
			So(scoring.Explain(45, 50, 50, 50), ShouldContainSubstring, "Moderate skills match")
		})
	})
}

func TestEngine_Score(t *testing.T) {
	Convey("Given a scoring engine with a fixed clock", t, func() {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		engine := scoring.NewEngine(scoring.WithClock(func() time.Time { return now }))

		candidate := model.CandidateProfile{
			ID:              "cand-1",
			Skills:          []string{"Python", "SQL"},
			YearsExperience: floatPtr(12),
			Sectors:         []string{"Finance"},
			Location:        "London, UK",
		}
		job := model.JobPosting{
			ID:             "job-1",
			RequiredSkills: []string{"python", "leadership"},
			RequiredYears:  floatPtr(8),
			Sector:         "finance",
			Location:       "UK",
		}

		Convey("When scoring a pair", func() {
			score, err := engine.Score(context.Background(), candidate, job)
			So(err, ShouldBeNil)

			Convey("Then sub-scores follow the factor rules", func() {
				So(score.SkillsScore, ShouldEqual, 50)
				So(score.ExperienceScore, ShouldEqual, 88)
				So(score.SectorScore, ShouldEqual, 100)
				So(score.LocationScore, ShouldEqual, 100)
			})

			Convey("And the overall score is the weighted sum", func() {
				want := scoring.OverallScore(
					score.SkillsScore, score.ExperienceScore,
					score.SectorScore, score.LocationScore,
				)
				So(score.OverallScore, ShouldEqual, want)
				So(score.OverallScore, ShouldEqual, 76)
			})

			Convey("And the pair key and timestamp are set", func() {
				So(score.CandidateID, ShouldEqual, "cand-1")
				So(score.JobID, ShouldEqual, "job-1")
				So(score.CalculatedAt.Equal(now), ShouldBeTrue)
			})

			Convey("And scoring again yields the identical result", func() {
				again, err := engine.Score(context.Background(), candidate, job)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, score)
			})
		})

		Convey("When the candidate carries a NaN experience value", func() {
			bad := candidate
			bad.YearsExperience = floatPtr(math.NaN())
			_, err := engine.Score(context.Background(), bad, job)

			Convey("Then it should signal invalid input", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, scoring.ErrInvalidInput)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := engine.Score(ctx, candidate, job)

			Convey("Then it should not score", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When profiles carry missing data", func() {
			empty := model.CandidateProfile{ID: "cand-2"}
			score, err := engine.Score(context.Background(), empty, model.JobPosting{ID: "job-2"})
			So(err, ShouldBeNil)

			Convey("Then neutral defaults apply everywhere except skills", func() {
				So(score.SkillsScore, ShouldEqual, 0)
				So(score.ExperienceScore, ShouldEqual, 50)
				So(score.SectorScore, ShouldEqual, 50)
				So(score.LocationScore, ShouldEqual, 50)
			})
		})
	})
}
