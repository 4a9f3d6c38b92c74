package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ReferenceQuestion is one entry of the canonical question list the service
// is configured with. Order is meaningful: answers are matched by position.
type ReferenceQuestion struct {
	Text string `json:"text" yaml:"text"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

const maxIssuesPerCategory = 3

var nonQuestionChars = regexp.MustCompile(`[^a-z0-9\s]+`)

// normalizeQuestion lower-cases the text and strips everything except
// alphanumerics and whitespace, so punctuation and case differences do not
// count as mismatches.
func normalizeQuestion(s string) string {
	return nonQuestionChars.ReplaceAllString(strings.ToLower(s), "")
}

// MatchReference compares submitted answers against the reference questions
// by position. It reports question-text mismatches and, when checkKinds is
// set, kind mismatches. Each returned list is capped via capIssues; the
// omission advisory leads the question list and counts against its cap.
func MatchReference(refs []ReferenceQuestion, answers []AnswerItem, checkKinds bool) (questionIssues, kindIssues []string) {
	n := len(refs)
	if len(answers) < n {
		n = len(answers)
	}
	anyOmitted := false
	var mismatches []string
	for i := 0; i < n; i++ {
		a := answers[i]
		if a.QuestionText == "" {
			anyOmitted = true
		} else if normalizeQuestion(a.QuestionText) != normalizeQuestion(refs[i].Text) {
			mismatches = append(mismatches,
				fmt.Sprintf("question %d does not match the reference question: got %q, want %q", i, a.QuestionText, refs[i].Text))
		}
		if checkKinds && a.Kind != "" && a.Kind != refs[i].Kind {
			kindIssues = append(kindIssues,
				fmt.Sprintf("question %d declares kind %q, reference expects %q", i, a.Kind, refs[i].Kind))
		}
	}
	if anyOmitted {
		questionIssues = append(questionIssues,
			"some answers omit question_text; their ordering against the reference questions cannot be verified")
	}
	questionIssues = capIssues(append(questionIssues, mismatches...))
	kindIssues = capIssues(kindIssues)
	return questionIssues, kindIssues
}

// capIssues truncates a list to the first maxIssuesPerCategory entries plus a
// summary entry counting the rest.
func capIssues(issues []string) []string {
	if len(issues) <= maxIssuesPerCategory {
		return issues
	}
	capped := make([]string, maxIssuesPerCategory, maxIssuesPerCategory+1)
	copy(capped, issues[:maxIssuesPerCategory])
	return append(capped, fmt.Sprintf("and %d more", len(issues)-maxIssuesPerCategory))
}
