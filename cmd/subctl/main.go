// subctl is the operator tool for the submission store: it re-verifies a
// stored record against its embedded timestamp token and lists the store
// contents without going through the HTTP service.
package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/trustbit/enterprise-rag-challenge-ui/internal/store"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/canonhash"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/domain"
	"github.com/trustbit/enterprise-rag-challenge-ui/pkg/tsa"
)

const usage = "usage: subctl verify --record <path> | subctl list --dir <path>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	switch os.Args[1] {
	case "verify":
		runVerify(os.Args[2:])
	case "list":
		runList(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	recordPath := fs.String("record", "", "path to a stored submission record")
	_ = fs.Parse(args)
	if *recordPath == "" {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	b, err := os.ReadFile(*recordPath)
	if err != nil {
		fail("read record: %v", err)
	}
	var rec store.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		fail("parse record: %v", err)
	}

	// Recompute the digest over the record's submission content; the
	// signature is only reproducible from byte-identical content.
	sub := domain.Submission{
		TeamEmail:      rec.TeamEmail,
		SubmissionName: rec.SubmissionName,
		Answers:        rec.Answers,
	}
	digest, _, err := canonhash.SumObject(sub)
	if err != nil {
		fail("canonicalize submission: %v", err)
	}
	if hex.EncodeToString(digest) != rec.SubmissionDigest {
		fail("submission digest mismatch: record content does not hash to %s", rec.SubmissionDigest)
	}

	token, err := base64.StdEncoding.DecodeString(rec.TSPSignature)
	if err != nil {
		fail("decode tsp_signature: %v", err)
	}
	if canonhash.HexSHA256(token) != rec.Signature {
		fail("signature id mismatch: token does not hash to %s", rec.Signature)
	}
	info, err := tsa.Verify(token, digest)
	if err != nil {
		fail("verify timestamp token: %v", err)
	}

	color.Green("PASS %s", rec.Signature)
	color.White("  submission: %s", rec.SubmissionName)
	color.White("  asserted time: %s", info.TSTInfo.GenTime)
	color.White("  tsa policy: %s", info.TSTInfo.Policy)
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dir := fs.String("dir", "submissions", "submission store directory")
	_ = fs.Parse(args)

	st := &store.FileStore{Dir: *dir}
	summaries, err := st.List()
	if err != nil {
		fail("%v", err)
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  %s\n", s.Time.Format("2006-01-02 15:04:05"), shortSig(s.Signature), s.SubmissionName)
	}
}

// shortSig abbreviates a signature id for tabular output. Stores written by
// other tools may hold ids of any length.
func shortSig(sig string) string {
	if len(sig) > 12 {
		return sig[:12]
	}
	return sig
}

func fail(format string, args ...any) {
	color.Red("FAIL "+format, args...)
	os.Exit(1)
}
