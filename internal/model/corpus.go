package model

// LabeledText is a training posting
type LabeledText struct {
	Text  string
	Label float64
}

var legitimateExamples = []string{
	"Software Engineer position at Google. Requirements: 3+ years experience with React, Node.js. Competitive salary and benefits.",
	"Marketing Manager needed. Bachelor's degree required. Experience in digital marketing preferred. Full-time position with health benefits.",
	"Data Analyst role. SQL, Python skills required. Competitive compensation package including 401k matching.",
	"Project Manager position. PMP certification preferred. Experience with Agile methodologies. Excellent benefits package.",
	"UX Designer wanted. Portfolio required. Experience with Figma and user research. Competitive salary plus stock options.",
}

var fraudulentExamples = []string{
	"Work from home and earn $5000 per week! No experience needed. Start immediately!",
	"URGENT: Make money fast! Easy job, guaranteed income. No interview required.",
	"Become a millionaire overnight! Work 2 hours per day. No skills needed.",
	"Quick cash opportunity! Earn $100 per hour from home. No experience required.",
	"SCAM ALERT: Easy money making scheme. Work from home, get rich quick!",
}

// TrainingCorpus returns the synthetic training set: five legitimate
// postings (label 1) followed by five fraudulent ones (label 0).
func TrainingCorpus() []LabeledText {
	out := make([]LabeledText, 0, len(legitimateExamples)+len(fraudulentExamples))
	for _, text := range legitimateExamples {
		out = append(out, LabeledText{Text: text, Label: 1})
	}
	for _, text := range fraudulentExamples {
		out = append(out, LabeledText{Text: text, Label: 0})
	}
	return out
}
