package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// ECDSAGenerateKeys writes a fresh P-256 key pair as PEM files, used once
// when provisioning a new environment.
func ECDSAGenerateKeys(privatePath, publicPath string) (err error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate private key: %w", err)
	}

	privateBytes, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("failed to convert the EC private key to SEC 1: %w", err)
	}

	if err := writePEM(privatePath, "EC PRIVATE KEY", privateBytes); err != nil {
		return err
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to convert the public key to PKIX: %w", err)
	}

	return writePEM(publicPath, "PUBLIC KEY", publicBytes)
}

func writePEM(path, blockType string, data []byte) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	defer func() {
		if cErr := file.Close(); cErr != nil {
			err = fmt.Errorf("%w, failed to close %s: %w", err, path, cErr)
		}
	}()

	if err = pem.Encode(file, &pem.Block{Type: blockType, Bytes: data}); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
