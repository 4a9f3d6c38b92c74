package tsa

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	ErrRequestRejected      = errors.New("timestamp request rejected")
	ErrNoToken              = errors.New("timestamp response carries no token")
	ErrNotSignedData        = errors.New("token is not a SignedData structure")
	ErrNotTSTInfo           = errors.New("token does not embed a TSTInfo")
	ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")
	ErrImprintMismatch      = errors.New("message imprint does not match digest")
	ErrNoSignerInfo         = errors.New("token carries no signer info")
	ErrNoSignedAttributes   = errors.New("token carries no signed attributes")
	ErrDigestAttrMismatch   = errors.New("signed message-digest attribute does not match content")
	ErrNoCertificate        = errors.New("token carries no signer certificate")
	ErrBadSignature         = errors.New("token signature does not verify")
)

// TSTInfoSummary is the verified view of the authority's TSTInfo, suitable
// for returning to callers alongside the record.
type TSTInfoSummary struct {
	Version       int       `json:"version"`
	Policy        string    `json:"policy"`
	SerialNumber  string    `json:"serial_number"`
	GenTime       time.Time `json:"gen_time"`
	HashedMessage string    `json:"hashed_message"`
}

// VerifiedInfo is what Verify hands back after a token checks out.
type VerifiedInfo struct {
	TSTInfo     TSTInfoSummary `json:"tst_info"`
	SignedAttrs []string       `json:"signed_attrs"`
}

// Verify checks a DER timestamp token against the digest it was requested
// for: the token must be a SignedData envelope around a TSTInfo whose message
// imprint equals the digest, the signer's signed message-digest attribute
// must match the embedded content, and the signature over the signed
// attributes must verify against a certificate embedded in the token. It
// returns the authority-asserted generation time inside the verified info.
// Chaining the embedded certificate to a trust root is the caller's concern,
// not this package's.
func Verify(token []byte, digest []byte) (VerifiedInfo, error) {
	var ci contentInfo
	if _, err := asn1.Unmarshal(token, &ci); err != nil {
		return VerifiedInfo{}, fmt.Errorf("parse token: %w", err)
	}
	if !ci.ContentType.Equal(oidSignedData) {
		return VerifiedInfo{}, ErrNotSignedData
	}
	// Content.Bytes holds the SignedData SEQUENCE itself; FullBytes keeps
	// the explicit [0] wrapper around it.
	var sd signedData
	if _, err := asn1.Unmarshal(ci.Content.Bytes, &sd); err != nil {
		return VerifiedInfo{}, fmt.Errorf("parse signed data: %w", err)
	}
	if !sd.EncapContentInfo.EContentType.Equal(oidTSTInfo) {
		return VerifiedInfo{}, ErrNotTSTInfo
	}
	eContent := sd.EncapContentInfo.EContent
	if len(eContent) == 0 {
		return VerifiedInfo{}, ErrNotTSTInfo
	}
	var info tstInfo
	if _, err := asn1.Unmarshal(eContent, &info); err != nil {
		return VerifiedInfo{}, fmt.Errorf("parse tst info: %w", err)
	}

	if !info.MessageImprint.HashAlgorithm.Algorithm.Equal(oidSHA512) {
		return VerifiedInfo{}, ErrUnsupportedAlgorithm
	}
	if len(info.MessageImprint.HashedMessage) != len(digest) ||
		subtle.ConstantTimeCompare(info.MessageImprint.HashedMessage, digest) != 1 {
		return VerifiedInfo{}, ErrImprintMismatch
	}

	if len(sd.SignerInfos) == 0 {
		return VerifiedInfo{}, ErrNoSignerInfo
	}
	si := sd.SignerInfos[0]
	attrOIDs, err := verifySignedAttrs(si, eContent)
	if err != nil {
		return VerifiedInfo{}, err
	}
	if err := verifySignature(sd, si); err != nil {
		return VerifiedInfo{}, err
	}

	return VerifiedInfo{
		TSTInfo: TSTInfoSummary{
			Version:       info.Version,
			Policy:        info.Policy.String(),
			SerialNumber:  info.SerialNumber.String(),
			GenTime:       info.GenTime.UTC(),
			HashedMessage: hex.EncodeToString(info.MessageImprint.HashedMessage),
		},
		SignedAttrs: attrOIDs,
	}, nil
}

// verifySignedAttrs checks that the signer committed to the embedded TSTInfo
// content through its message-digest attribute and returns the attribute OIDs
// in token order.
func verifySignedAttrs(si signerInfo, eContent []byte) ([]string, error) {
	if len(si.SignedAttrs.FullBytes) == 0 {
		return nil, ErrNoSignedAttributes
	}
	var attrs []attribute
	if _, err := asn1.UnmarshalWithParams(si.SignedAttrs.FullBytes, &attrs, "set,tag:0"); err != nil {
		return nil, fmt.Errorf("parse signed attributes: %w", err)
	}

	expected, err := contentDigest(si.DigestAlgorithm.Algorithm, eContent)
	if err != nil {
		return nil, err
	}
	oids := make([]string, 0, len(attrs))
	sawDigest := false
	for _, a := range attrs {
		oids = append(oids, a.Type.String())
		if !a.Type.Equal(oidMessageDigest) || len(a.Values) == 0 {
			continue
		}
		var got []byte
		if _, err := asn1.Unmarshal(a.Values[0].FullBytes, &got); err != nil {
			return nil, fmt.Errorf("parse message-digest attribute: %w", err)
		}
		if len(got) != len(expected) || subtle.ConstantTimeCompare(got, expected) != 1 {
			return nil, ErrDigestAttrMismatch
		}
		sawDigest = true
	}
	if !sawDigest {
		return nil, ErrNoSignedAttributes
	}
	return oids, nil
}

// verifySignature checks the signer's signature over the signed attributes
// against the certificates the token embeds. Any embedded certificate may be
// the signer's; the others are chain material.
func verifySignature(sd signedData, si signerInfo) error {
	if len(sd.Certificates.Bytes) == 0 {
		return ErrNoCertificate
	}
	certs, err := x509.ParseCertificates(sd.Certificates.Bytes)
	if err != nil {
		return fmt.Errorf("parse signer certificates: %w", err)
	}
	alg, err := signatureAlgorithm(si.SignatureAlgorithm.Algorithm, si.DigestAlgorithm.Algorithm)
	if err != nil {
		return err
	}

	// CMS signs the attributes re-tagged as a top-level SET OF, not under
	// the implicit [0] they travel inside the SignerInfo. Only the tag byte
	// differs.
	signed := make([]byte, len(si.SignedAttrs.FullBytes))
	copy(signed, si.SignedAttrs.FullBytes)
	signed[0] = 0x31

	var lastErr error
	for _, cert := range certs {
		lastErr = cert.CheckSignature(alg, signed, si.Signature)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %v", ErrBadSignature, lastErr)
}

// signatureAlgorithm maps the SignerInfo algorithm pair onto the x509
// verification algorithm. Authorities that name the bare key algorithm
// (rsaEncryption) leave the hash to the digest algorithm field.
func signatureAlgorithm(sigAlg, digestAlg asn1.ObjectIdentifier) (x509.SignatureAlgorithm, error) {
	switch {
	case sigAlg.Equal(oidECDSAWithSHA256):
		return x509.ECDSAWithSHA256, nil
	case sigAlg.Equal(oidECDSAWithSHA512):
		return x509.ECDSAWithSHA512, nil
	case sigAlg.Equal(oidSHA256RSA):
		return x509.SHA256WithRSA, nil
	case sigAlg.Equal(oidSHA512RSA):
		return x509.SHA512WithRSA, nil
	case sigAlg.Equal(oidRSAEncryption):
		switch {
		case digestAlg.Equal(oidSHA256):
			return x509.SHA256WithRSA, nil
		case digestAlg.Equal(oidSHA512):
			return x509.SHA512WithRSA, nil
		}
	}
	return x509.UnknownSignatureAlgorithm, ErrUnsupportedAlgorithm
}

func contentDigest(alg asn1.ObjectIdentifier, content []byte) ([]byte, error) {
	switch {
	case alg.Equal(oidSHA256):
		sum := sha256.Sum256(content)
		return sum[:], nil
	case alg.Equal(oidSHA512):
		sum := sha512.Sum512(content)
		return sum[:], nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
