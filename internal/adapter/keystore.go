package adapter

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	m "github.com/droidmod/gatepatch/internal/model"
)

const (
	signingCertName = "gatepatch-cert.pem"
	signingKeyName  = "gatepatch-key.pk8"
	certValidity    = 10 * 365 * 24 * time.Hour
)

// EnsureSigningMaterial returns a certificate/key pair for the signer,
// generating a self-signed RSA pair under dir on first use and reusing
// it afterwards.
func EnsureSigningMaterial(dir m.Path) (cert, key m.Path, err error) {
	cert = m.Path(filepath.Join(string(dir), signingCertName))
	key = m.Path(filepath.Join(string(dir), signingKeyName))

	if fileExists(cert) && fileExists(key) {
		return cert, key, nil
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return "", "", fmt.Errorf("creating keystore dir: %w", err)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", "", fmt.Errorf("generating key: %w", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			Organization: []string{"gatepatch"},
			CommonName:   "gatepatch debug",
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(certValidity),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return "", "", fmt.Errorf("creating certificate: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(string(cert), certPEM, 0o644); err != nil {
		return "", "", fmt.Errorf("writing certificate: %w", err)
	}

	// apksigner expects the key in PKCS#8 DER form.
	pkcs8, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return "", "", fmt.Errorf("encoding key: %w", err)
	}

	if err := os.WriteFile(string(key), pkcs8, 0o600); err != nil {
		return "", "", fmt.Errorf("writing key: %w", err)
	}

	return cert, key, nil
}

func fileExists(path m.Path) bool {
	info, err := os.Stat(string(path))

	return err == nil && !info.IsDir()
}
