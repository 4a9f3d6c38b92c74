package tsa

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"math/big"
	"time"
)

// RFC 3161 PKIStatus values that carry a token.
const (
	statusGranted         = 0
	statusGrantedWithMods = 1
)

// ParseResponse checks the PKIStatusInfo of a DER TimeStampResp and returns
// the raw DER timestamp token when the request was granted.
func ParseResponse(der []byte) ([]byte, error) {
	var resp timeStampResp
	if _, err := asn1.Unmarshal(der, &resp); err != nil {
		return nil, fmt.Errorf("parse timestamp response: %w", err)
	}
	if resp.Status.Status != statusGranted && resp.Status.Status != statusGrantedWithMods {
		return nil, fmt.Errorf("%w: status %d %v", ErrRequestRejected, resp.Status.Status, resp.Status.StatusString)
	}
	if len(resp.Token.FullBytes) == 0 {
		return nil, ErrNoToken
	}
	return resp.Token.FullBytes, nil
}

// LocalAuthority issues granted timestamp responses signed with its own
// self-signed certificate. It supports local development and in-process
// authority fakes; its certificate chains to no trust root, so it is not a
// substitute for a production authority.
type LocalAuthority struct {
	key     *ecdsa.PrivateKey
	cert    *x509.Certificate
	certDER []byte
}

func NewLocalAuthority() (*LocalAuthority, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate authority key: %w", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "local timestamp authority"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageTimeStamping},
	}
	certDER, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create authority certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(certDER)
	if err != nil {
		return nil, fmt.Errorf("parse authority certificate: %w", err)
	}
	return &LocalAuthority{key: key, cert: cert, certDER: certDER}, nil
}

// CreateResponse builds a granted TimeStampResp whose token binds digest to
// genTime. The token carries content-type and message-digest signed
// attributes, a signature over them, and the authority's certificate, so
// Verify accepts it on its own merits.
func (a *LocalAuthority) CreateResponse(digest []byte, genTime time.Time) ([]byte, error) {
	if len(digest) != DigestSize {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", DigestSize, len(digest))
	}
	info := tstInfo{
		Version: 1,
		Policy:  asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 13762, 1, 2, 1},
		MessageImprint: messageImprint{
			HashAlgorithm: algorithmIdentifier{
				Algorithm:  oidSHA512,
				Parameters: asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagNull},
			},
			HashedMessage: digest,
		},
		SerialNumber: big.NewInt(genTime.UnixNano()),
		GenTime:      genTime.UTC().Truncate(time.Second),
	}
	eContent, err := asn1.Marshal(info)
	if err != nil {
		return nil, err
	}

	eContentSum := sha256.Sum256(eContent)
	ctVal, err := asn1.Marshal(oidTSTInfo)
	if err != nil {
		return nil, err
	}
	mdVal, err := asn1.Marshal(eContentSum[:])
	if err != nil {
		return nil, err
	}
	attrs := []attribute{
		{Type: oidContentType, Values: []asn1.RawValue{{FullBytes: ctVal}}},
		{Type: oidMessageDigest, Values: []asn1.RawValue{{FullBytes: mdVal}}},
	}
	attrsDER, err := asn1.MarshalWithParams(attrs, "set,tag:0")
	if err != nil {
		return nil, err
	}

	// The signature covers the attributes under their top-level SET OF tag,
	// not the implicit [0] they travel inside the SignerInfo.
	signed := make([]byte, len(attrsDER))
	copy(signed, attrsDER)
	signed[0] = 0x31
	signedSum := sha256.Sum256(signed)
	sig, err := ecdsa.SignASN1(rand.Reader, a.key, signedSum[:])
	if err != nil {
		return nil, fmt.Errorf("sign attributes: %w", err)
	}

	sidDER, err := asn1.Marshal(issuerAndSerialNumber{
		Issuer:       asn1.RawValue{FullBytes: a.cert.RawIssuer},
		SerialNumber: a.cert.SerialNumber,
	})
	if err != nil {
		return nil, err
	}

	sd := signedData{
		Version:          3,
		DigestAlgorithms: []algorithmIdentifier{{Algorithm: oidSHA256}},
		EncapContentInfo: encapsulatedContentInfo{
			EContentType: oidTSTInfo,
			EContent:     eContent,
		},
		Certificates: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      a.certDER,
		},
		SignerInfos: []signerInfo{{
			Version:            1,
			SID:                asn1.RawValue{FullBytes: sidDER},
			DigestAlgorithm:    algorithmIdentifier{Algorithm: oidSHA256},
			SignedAttrs:        asn1.RawValue{FullBytes: attrsDER},
			SignatureAlgorithm: algorithmIdentifier{Algorithm: oidECDSAWithSHA256},
			Signature:          sig,
		}},
	}
	sdDER, err := asn1.Marshal(sd)
	if err != nil {
		return nil, err
	}
	// RawValue.FullBytes marshals verbatim, so the explicit [0] wrapper
	// around SignedData has to be spelled out via Class/Tag/Bytes.
	tokenDER, err := asn1.Marshal(contentInfo{
		ContentType: oidSignedData,
		Content: asn1.RawValue{
			Class:      asn1.ClassContextSpecific,
			Tag:        0,
			IsCompound: true,
			Bytes:      sdDER,
		},
	})
	if err != nil {
		return nil, err
	}

	return asn1.Marshal(timeStampResp{
		Status: pkiStatusInfo{Status: statusGranted},
		Token:  asn1.RawValue{FullBytes: tokenDER},
	})
}

type issuerAndSerialNumber struct {
	Issuer       asn1.RawValue
	SerialNumber *big.Int
}
