package domain

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	v := Validator{}
	for _, email := range []string{"a@b.com", "first.last+tag@sub-domain.example.org"} {
		sub := Submission{TeamEmail: email, SubmissionName: "t1"}
		if issues := v.Validate(&sub); len(issues) != 0 {
			t.Fatalf("%q: unexpected issues %v", email, issues)
		}
	}
	for _, email := range []string{"bad-email", "a@b", "@x.com", "a b@c.de"} {
		sub := Submission{TeamEmail: email, SubmissionName: "t1"}
		issues := v.Validate(&sub)
		if len(issues) != 1 || !strings.Contains(issues[0], "INVALID EMAIL ADDRESS") {
			t.Fatalf("%q: expected an INVALID EMAIL ADDRESS issue, got %v", email, issues)
		}
	}
}

func TestValidateIssueOrder(t *testing.T) {
	v := Validator{
		Questions:      refQuestions("What is X?"),
		CheckQuestions: true,
	}
	sub := Submission{
		TeamEmail:      "not-an-email",
		SubmissionName: "t1",
		Answers: []AnswerItem{
			{QuestionText: "What is Y?", Kind: KindNumber, Value: Text("abc")},
		},
	}
	issues := v.Validate(&sub)
	if len(issues) != 3 {
		t.Fatalf("expected email, question and answer issues, got %v", issues)
	}
	if !strings.Contains(issues[0], "INVALID EMAIL ADDRESS") {
		t.Fatalf("email issue must come first, got %q", issues[0])
	}
	if !strings.Contains(issues[1], "does not match") {
		t.Fatalf("question issue must come second, got %q", issues[1])
	}
	if !strings.Contains(issues[2], "answer 0") {
		t.Fatalf("answer issue must come last, got %q", issues[2])
	}
}

func TestValidateWritesBackCoercedValues(t *testing.T) {
	v := Validator{}
	sub := Submission{
		TeamEmail:      "a@b.com",
		SubmissionName: "t1",
		Answers: []AnswerItem{
			{Kind: KindNumber, Value: Text("3,5")},
			{Kind: KindBoolean, Value: Text("Yes")},
			{Kind: KindName, Value: Text("n/a")},
		},
	}
	if issues := v.Validate(&sub); len(issues) != 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	if n, ok := sub.Answers[0].Value.AsNumber(); !ok || n != 3.5 {
		t.Fatalf("expected 3.5 written back, got %q", sub.Answers[0].Value.String())
	}
	if b, ok := sub.Answers[1].Value.AsBool(); !ok || !b {
		t.Fatalf("expected true written back, got %q", sub.Answers[1].Value.String())
	}
	if !sub.Answers[2].Value.IsNA() {
		t.Fatalf("expected N/A written back, got %q", sub.Answers[2].Value.String())
	}
}

func TestValidateCapsAnswerIssues(t *testing.T) {
	v := Validator{}
	sub := Submission{TeamEmail: "a@b.com", SubmissionName: "t1"}
	for i := 0; i < 8; i++ {
		sub.Answers = append(sub.Answers, AnswerItem{Kind: KindNumber, Value: Text(fmt.Sprintf("word%d", i))})
	}
	issues := v.Validate(&sub)
	if len(issues) != 4 {
		t.Fatalf("expected 3 issues plus summary, got %d: %v", len(issues), issues)
	}
	if issues[3] != "and 5 more" {
		t.Fatalf("unexpected summary entry %q", issues[3])
	}
}
