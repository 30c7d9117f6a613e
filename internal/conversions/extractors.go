package conversions

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"net/url"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"github.com/Wididit/Wididit-server/internal/federation"
)

func ExtractPublicKeyFromActor(actor WithPublicKeyProperty) (string, error) {
	pubKeyProp := actor.GetW3IDSecurityV1PublicKey()
	if pubKeyProp == nil || pubKeyProp.Len() == 0 {
		return "", fmt.Errorf("%w: public key", federation.ErrMissingProperty)
	}

	key := pubKeyProp.Begin().Get()
	if key == nil {
		return "", fmt.Errorf("%w: public key is not embedded", federation.ErrUnprocessablePropValue)
	}

	keyPemProp := key.GetW3IDSecurityV1PublicKeyPem()
	if keyPemProp == nil {
		return "", fmt.Errorf("%w: publicKeyPem", federation.ErrMissingProperty)
	}
	return keyPemProp.Get(), nil
}

// KeyOwner returns the owner declared by the first public key of an actor, or nil when there is none.
func KeyOwner(actor WithPublicKeyProperty) *url.URL {
	pubKeyProp := actor.GetW3IDSecurityV1PublicKey()
	if pubKeyProp == nil || pubKeyProp.Len() == 0 {
		return nil
	}
	key := pubKeyProp.Begin().Get()
	if key == nil {
		return nil
	}
	owner := key.GetW3IDSecurityV1Owner()
	switch {
	case owner == nil:
		return nil
	case owner.IsXMLSchemaAnyURI():
		return owner.Get()
	case owner.IsIRI():
		return owner.GetIRI()
	}
	return nil
}

func ExtractPublicKeyFromPem(block pem.Block) (crypto.PublicKey, error) {
	var pubKey crypto.PublicKey
	var err error
	switch block.Type {
	case "PUBLIC KEY":
		pubKey, err = x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		pubKey, err = x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		err = fmt.Errorf("unsupported type: %s", block.Type)
	}

	if err != nil {
		return nil, err
	}
	return pubKey, nil
}

// ParsePublicKey decodes a PEM encoded public key as found in actors' publicKeyPem.
func ParsePublicKey(keyPem string) (crypto.PublicKey, error) {
	block, _ := pem.Decode([]byte(keyPem))
	if block == nil {
		return nil, fmt.Errorf("%w: publicKeyPem is not PEM encoded", federation.ErrUnprocessablePropValue)
	}
	return ExtractPublicKeyFromPem(*block)
}

// IdOf returns the IRI of a property value, whether it is given as an IRI or as an embedded object.
func IdOf(iri *url.URL, t vocab.Type) (*url.URL, error) {
	if iri != nil {
		return iri, nil
	}
	if t == nil {
		return nil, fmt.Errorf("%w: value is neither an IRI nor an object", federation.ErrUnprocessablePropValue)
	}

	id := t.GetJSONLDId()
	if id == nil || id.Get() == nil {
		return nil, fmt.Errorf("%w: id of embedded %s", federation.ErrMissingProperty, t.GetTypeName())
	}
	return id.Get(), nil
}
