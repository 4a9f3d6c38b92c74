package domain

import (
	"fmt"
	"regexp"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)+$`)

// Validator runs the business-rule checks over a parsed submission. The
// reference list and check flags come from configuration; Validator itself
// holds no mutable state.
type Validator struct {
	Questions      []ReferenceQuestion
	CheckQuestions bool
	CheckKinds     bool
}

// Validate returns the ordered issue list for a submission: email format,
// then question mismatches, then kind mismatches, then per-answer coercion
// issues, each category independently capped. Coerced values are written back
// into sub.Answers so downstream signing commits to normalized content.
// Issues are advisory; Validate never fails.
func (v Validator) Validate(sub *Submission) []string {
	var issues []string
	if !emailRe.MatchString(sub.TeamEmail) {
		issues = append(issues, fmt.Sprintf("INVALID EMAIL ADDRESS: %q", sub.TeamEmail))
	}
	if v.CheckQuestions {
		questionIssues, kindIssues := MatchReference(v.Questions, sub.Answers, v.CheckKinds)
		issues = append(issues, questionIssues...)
		issues = append(issues, kindIssues...)
	}

	var answerIssues []string
	for i := range sub.Answers {
		normalized, issue := Coerce(sub.Answers[i].Kind, sub.Answers[i].Value)
		sub.Answers[i].Value = normalized
		if issue != "" {
			answerIssues = append(answerIssues, fmt.Sprintf("answer %d: %s", i, issue))
		}
	}
	return append(issues, capIssues(answerIssues)...)
}
