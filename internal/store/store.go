// Package store persists signed submission records. The store is append-only:
// records are never updated or deleted, and every submission attempt is kept.
package store

import (
	"sort"
	"time"

	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
)

// Record is the durable, immutable proof of one submission attempt. Signature
// is the public identifier; TSPSignature holds the raw authority token so the
// record can be re-verified independently.
type Record struct {
	SubmissionName   string              `json:"submission_name"`
	TeamEmail        string              `json:"team_email"`
	Time             time.Time           `json:"time"`
	Signature        string              `json:"signature"`
	TSPSignature     string              `json:"tsp_signature"`
	SubmissionDigest string              `json:"submission_digest"`
	Answers          []domain.AnswerItem `json:"answers"`
}

// Summary is the public listing projection. It deliberately excludes the
// team's contact email and the answer content.
type Summary struct {
	Time           time.Time `json:"time"`
	SubmissionName string    `json:"submission_name"`
	Signature      string    `json:"signature"`
}

type Store interface {
	Put(rec Record) error
	List() ([]Summary, error)
}

func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool { return s[i].Time.After(s[j].Time) })
}
