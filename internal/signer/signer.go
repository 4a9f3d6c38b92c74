// Package signer binds a validated submission to a trusted third-party
// timestamp and shapes the durable record. It fails closed: no record comes
// out of Sign unless the authority's token verified against the digest.
package signer

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/trustbit/enterprise-rag-challenge-ui/internal/store"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/canonhash"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/tsa"
)

type Signer struct {
	TSA *tsa.Client
}

func New(client *tsa.Client) *Signer { return &Signer{TSA: client} }

// Sign computes the SHA-512 digest over the canonical encoding of the
// normalized submission, obtains a timestamp token for it, verifies the token
// before trusting it, and returns the record keyed by the token's short hash.
// The record's time is the authority-asserted generation time, not the local
// clock.
func (s *Signer) Sign(ctx context.Context, sub domain.Submission) (store.Record, tsa.VerifiedInfo, error) {
	digest, _, err := canonhash.SumObject(sub)
	if err != nil {
		return store.Record{}, tsa.VerifiedInfo{}, fmt.Errorf("canonicalize submission: %w", err)
	}
	token, err := s.TSA.Sign(ctx, digest)
	if err != nil {
		return store.Record{}, tsa.VerifiedInfo{}, fmt.Errorf("timestamp authority: %w", err)
	}
	info, err := tsa.Verify(token, digest)
	if err != nil {
		return store.Record{}, tsa.VerifiedInfo{}, fmt.Errorf("verify timestamp token: %w", err)
	}

	rec := store.Record{
		SubmissionName:   sub.SubmissionName,
		TeamEmail:        sub.TeamEmail,
		Time:             info.TSTInfo.GenTime,
		Signature:        canonhash.HexSHA256(token),
		TSPSignature:     base64.StdEncoding.EncodeToString(token),
		SubmissionDigest: hex.EncodeToString(digest),
		Answers:          sub.Answers,
	}
	return rec, info, nil
}
