package gateway

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"code.superseriousbusiness.org/httpsig"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/rs/zerolog/log"
)

const maxActivitySize = 1 << 20

// Verify checks the HTTP signature of r against the key of the actor named in its keyId, fetching the actor
// when it is not known yet. It returns the signer and the request body, whose digest is checked as well.
func (g *FedGatewayImpl) Verify(ctx context.Context, r *http.Request) (domain.Person, []byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxActivitySize))
	if err != nil {
		return domain.Person{}, nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	verifier, err := httpsig.NewVerifier(r)
	if err != nil {
		return domain.Person{}, nil, fmt.Errorf("%w: %s", federation.ErrUnauthenticated, err)
	}

	keyId, err := url.Parse(verifier.KeyId())
	if err != nil {
		return domain.Person{}, nil, fmt.Errorf("%w: unable to parse keyId %q", federation.ErrUnauthenticated, verifier.KeyId())
	}

	owner := federation.ActorOfKey(keyId)
	signer, err := g.actorByIRI(ctx, owner)
	if err != nil {
		return domain.Person{}, nil, err
	}
	if !sameIRI(signer.ApId, owner) {
		return domain.Person{}, nil, fmt.Errorf("%w: key %s does not belong to %s", federation.ErrUnauthenticated, keyId, signer.ApId)
	}

	key, err := conversions.ParsePublicKey(signer.PublicKey)
	if err != nil {
		return domain.Person{}, nil, err
	}

	if err = verifier.Verify(key, httpsig.RSA_SHA256); err != nil {
		log.Warn().Err(err).Str("keyId", keyId.String()).Msg("signature verification failed")
		return domain.Person{}, nil, fmt.Errorf("%w: %s", federation.ErrUnauthenticated, err)
	}

	if err = verifyDigest(r.Header.Get("Digest"), body); err != nil {
		return domain.Person{}, nil, err
	}
	return signer, body, nil
}

// verifyDigest accepts a missing Digest header only for empty bodies.
func verifyDigest(header string, body []byte) error {
	if header == "" {
		if len(body) == 0 {
			return nil
		}
		return fmt.Errorf("%w: missing digest", federation.ErrUnauthenticated)
	}

	sum := sha256.Sum256(body)
	want := base64.StdEncoding.EncodeToString(sum[:])
	for _, d := range strings.Split(header, ",") {
		algo, value, found := strings.Cut(strings.TrimSpace(d), "=")
		if found && strings.EqualFold(algo, "SHA-256") && value == want {
			return nil
		}
	}
	return fmt.Errorf("%w: digest mismatch", federation.ErrUnauthenticated)
}
