package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Kind string

const (
	KindNumber  Kind = "number"
	KindName    Kind = "name"
	KindBoolean Kind = "boolean"
	KindNames   Kind = "names"
)

// NotApplicable is the canonical rendering of an absent or opted-out answer.
const NotApplicable = "N/A"

type valueTag int

const (
	tagNA valueTag = iota
	tagNumber
	tagString
	tagBool
	tagNames
)

// AnswerValue is a closed variant over the value shapes an answer may carry:
// a number, free text, a boolean, a list of names, or N/A.
type AnswerValue struct {
	tag   valueTag
	num   float64
	str   string
	b     bool
	names []string
}

func NA() AnswerValue                  { return AnswerValue{tag: tagNA} }
func Number(f float64) AnswerValue     { return AnswerValue{tag: tagNumber, num: f} }
func Text(s string) AnswerValue        { return AnswerValue{tag: tagString, str: s} }
func Bool(b bool) AnswerValue          { return AnswerValue{tag: tagBool, b: b} }
func NameList(ns []string) AnswerValue { return AnswerValue{tag: tagNames, names: ns} }

func (v AnswerValue) IsNA() bool                { return v.tag == tagNA }
func (v AnswerValue) AsNumber() (float64, bool) { return v.num, v.tag == tagNumber }
func (v AnswerValue) AsText() (string, bool)    { return v.str, v.tag == tagString }
func (v AnswerValue) AsBool() (bool, bool)      { return v.b, v.tag == tagBool }
func (v AnswerValue) AsNames() ([]string, bool) { return v.names, v.tag == tagNames }

// TypeName reports the value shape for use in validation messages.
func (v AnswerValue) TypeName() string {
	switch v.tag {
	case tagNumber:
		return "number"
	case tagString:
		return "string"
	case tagBool:
		return "boolean"
	case tagNames:
		return "list"
	default:
		return "n/a"
	}
}

// String renders the value the way it appears in issue messages.
func (v AnswerValue) String() string {
	switch v.tag {
	case tagNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case tagString:
		return v.str
	case tagBool:
		return strconv.FormatBool(v.b)
	case tagNames:
		return strings.Join(v.names, ", ")
	default:
		return NotApplicable
	}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.tag {
	case tagNumber:
		return json.Marshal(v.num)
	case tagString:
		return json.Marshal(v.str)
	case tagBool:
		return json.Marshal(v.b)
	case tagNames:
		return json.Marshal(v.names)
	default:
		return json.Marshal(NotApplicable)
	}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = NA()
	case bool:
		*v = Bool(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return err
		}
		*v = Number(f)
	case string:
		*v = Text(x)
	case []any:
		names := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("answer list element must be a string, got %T", e)
			}
			names = append(names, s)
		}
		*v = NameList(names)
	default:
		return errors.New("unsupported answer value")
	}
	return nil
}

// DocumentRef points an answer at a page of a source document.
type DocumentRef struct {
	SourceID  string `json:"source_id"`
	PageIndex int    `json:"page_index"`
}

type AnswerItem struct {
	QuestionText string        `json:"question_text,omitempty"`
	Kind         Kind          `json:"kind,omitempty"`
	Value        AnswerValue   `json:"value"`
	References   []DocumentRef `json:"references,omitempty"`
}

type Submission struct {
	TeamEmail      string       `json:"team_email"`
	SubmissionName string       `json:"submission_name"`
	Answers        []AnswerItem `json:"answers"`
}

func isFinite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

// naSynonyms are the spellings accepted as "no answer".
var naSynonyms = map[string]struct{}{
	"n/a": {},
	"na":  {},
	"nan": {},
	"":    {},
}

// Coerce normalizes a raw answer value against its declared kind. It returns
// the normalized value and a non-empty issue message when the value cannot be
// reconciled with the kind. Coerce never mutates its input; the caller writes
// the normalized value back into the owning answer.
func Coerce(kind Kind, v AnswerValue) (AnswerValue, string) {
	if v.IsNA() {
		return NA(), ""
	}
	if s, ok := v.AsText(); ok {
		if _, na := naSynonyms[strings.ToLower(s)]; na {
			return NA(), ""
		}
	}

	switch kind {
	case KindNumber:
		if _, ok := v.AsNumber(); ok {
			return v, ""
		}
		if s, ok := v.AsText(); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				return Number(float64(n)), ""
			}
			// ParseFloat accepts spellings like "inf"; only finite values
			// are answers.
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && isFinite(f) {
				return Number(f), ""
			}
			if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64); err == nil && isFinite(f) {
				return Number(f), ""
			}
		}
		return v, fmt.Sprintf("expected a number, got %s %q", v.TypeName(), v.String())

	case KindName:
		if _, ok := v.AsText(); ok {
			return v, ""
		}
		return v, fmt.Sprintf("expected text, got %s %q", v.TypeName(), v.String())

	case KindBoolean:
		if _, ok := v.AsBool(); ok {
			return v, ""
		}
		if s, ok := v.AsText(); ok {
			switch strings.ToLower(s) {
			case "true", "yes":
				return Bool(true), ""
			case "false", "no":
				return Bool(false), ""
			}
		}
		return v, fmt.Sprintf("expected a boolean, got %s %q", v.TypeName(), v.String())
	}

	return v, ""
}
