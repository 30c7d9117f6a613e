package utils

import (
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
)

func TestGenerateKeysPem(t *testing.T) {
	pub, priv, err := GenerateKeysPem(1024)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(pub, "-----BEGIN PUBLIC KEY-----") {
		t.Errorf("unexpected public key encoding:\n%s", pub)
	}

	key, err := ParsePrivateKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		t.Fatalf("expected an RSA key, got %T", key)
	}

	encoded, err := EncodePublicKey(&rsaKey.PublicKey)
	if err != nil {
		t.Fatal(err)
	}
	if encoded != pub {
		t.Error("public key does not match the private key")
	}
}

func TestParsePrivateKeyMalformed(t *testing.T) {
	for _, s := range []string{"", "not a key", "-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"} {
		if _, err := ParsePrivateKey(s); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("%q: expected ErrMalformedKey, got %v", s, err)
		}
	}
}
