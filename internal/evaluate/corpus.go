package evaluate

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidLabel is returned for labels other than 0 and 1
var ErrInvalidLabel = errors.New("label must be 0 or 1")

// TestCase is one labeled posting
type TestCase struct {
	Text     string `toml:"text" json:"text"`
	Label    int    `toml:"label" json:"label"` // 1 legitimate, 0 not
	Category string `toml:"category" json:"category"`
}

// Validate checks the label
func (tc TestCase) Validate() error {
	if tc.Label != 0 && tc.Label != 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidLabel, tc.Label)
	}
	return nil
}

// DefaultCorpus returns the built-in evaluation set: five legitimate,
// three suspicious and five fraudulent postings.
func DefaultCorpus() []TestCase {
	return []TestCase{
		{
			Text:     "Senior Software Engineer at Microsoft. Requirements: 5+ years experience with C#, .NET, Azure. Competitive salary $120k-$150k plus comprehensive benefits including health insurance, stock options, and remote work flexibility.",
			Label:    1,
			Category: "legitimate",
		},
		{
			Text:     "Marketing Manager position. Bachelor's degree in Marketing or related field required. 3+ years experience in digital marketing. Full-time role with excellent benefits package including 401k matching and professional development opportunities.",
			Label:    1,
			Category: "legitimate",
		},
		{
			Text:     "Data Scientist role at Amazon. PhD preferred, Master's required. Experience with Python, R, machine learning. Competitive compensation with equity package and comprehensive benefits.",
			Label:    1,
			Category: "legitimate",
		},
		{
			Text:     "UX Designer wanted. Portfolio showcasing web and mobile design projects required. Experience with Figma, Adobe Creative Suite. Competitive salary plus equity in growing startup.",
			Label:    1,
			Category: "legitimate",
		},
		{
			Text:     "Project Manager position. PMP certification preferred. Experience with Agile methodologies and project management tools. Excellent benefits including health, dental, and paid time off.",
			Label:    1,
			Category: "legitimate",
		},
		{
			Text:     "Work from home opportunity! Earn $3000 weekly with no experience required. Flexible hours, easy money, start immediately. No interview needed, guaranteed income!",
			Label:    0,
			Category: "suspicious",
		},
		{
			Text:     "URGENT: Make money fast! Easy online job paying $5000 per week. No skills needed, work from home, start today. Limited spots available!",
			Label:    0,
			Category: "suspicious",
		},
		{
			Text:     "Quick cash opportunity! Earn $100 per hour from home. No experience required, easy money guaranteed. Start immediately with no interview.",
			Label:    0,
			Category: "suspicious",
		},
		{
			Text:     "SCAM ALERT: Become a millionaire overnight! Work 2 hours per day from home. No skills needed, get rich quick scheme. Investment required but guaranteed returns!",
			Label:    0,
			Category: "fraudulent",
		},
		{
			Text:     "MONEY MAKING SCAM: Easy money from home! Earn $10,000 weekly with no experience. Send money first for training materials. GUARANTEED RICHES!",
			Label:    0,
			Category: "fraudulent",
		},
		{
			Text:     "PONZI SCHEME: Invest $1000 and earn $5000 back in one week! No work required, guaranteed profits. Join our millionaire making program today!",
			Label:    0,
			Category: "fraudulent",
		},
		{
			Text:     "CRYPTO SCAM: Make millions trading cryptocurrency from home! No experience needed, we provide all signals. Send Bitcoin first for premium membership.",
			Label:    0,
			Category: "fraudulent",
		},
		{
			Text:     "JOB SCAM: Work from home data entry job paying $5000/week! No experience needed. Pay $99 for training kit first. GUARANTEED EMPLOYMENT!",
			Label:    0,
			Category: "fraudulent",
		},
	}
}

// corpusFile is the on-disk corpus layout
type corpusFile struct {
	Cases []TestCase `toml:"cases"`
}

// LoadCorpus reads test cases from a TOML file with [[cases]] tables
func LoadCorpus(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var f corpusFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse corpus: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("corpus %s has no cases", path)
	}
	return f.Cases, nil
}
