package client

import (
	"bytes"
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"code.superseriousbusiness.org/activity/streams/vocab"
	"code.superseriousbusiness.org/httpsig"
	"github.com/Wididit/Wididit-server/internal/conversions"
	"github.com/Wididit/Wididit-server/internal/db"
	"github.com/Wididit/Wididit-server/internal/domain"
	"github.com/Wididit/Wididit-server/internal/federation"
	"github.com/rs/zerolog/log"
)

var prefs = []httpsig.Algorithm{httpsig.RSA_SHA256}
var getHeaders = []string{httpsig.RequestTarget, "date"}
var postHeaders = []string{httpsig.RequestTarget, "date", "digest"}

const maxResponseSize = 1 << 20

// HttpClient talks to other servers. Fetches are signed with the instance key; deliveries are signed with
// the key of the person they are made for.
type HttpClient struct {
	db              db.DB
	client          *http.Client
	key             crypto.PrivateKey
	pubKeyId        *url.URL
	getSigner       httpsig.Signer
	getSignerMutex  sync.Mutex
	postSigner      httpsig.Signer
	postSignerMutex sync.Mutex
	// Scheme used to reach other servers by hostname, as for webfinger.
	Scheme    string
	UserAgent string
}

func New(db db.DB, client *http.Client, key crypto.PrivateKey, prefs []httpsig.Algorithm, keyId *url.URL) (*HttpClient, error) {
	getSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, getHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	postSigner, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, postHeaders, httpsig.Signature, 3600)
	if err != nil {
		return nil, err
	}

	return &HttpClient{
		db:         db,
		client:     client,
		key:        key,
		pubKeyId:   keyId,
		getSigner:  getSigner,
		postSigner: postSigner,
		Scheme:     "https",
		UserAgent:  "wididit",
	}, nil
}

// Get dereferences iri and parses the result as an ActivityStreams object.
func (c *HttpClient) Get(ctx context.Context, iri *url.URL) (vocab.Type, error) {
	res, err := c.Dereference(ctx, iri)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	obj, err := conversions.Deserialize(ctx, body)
	if err != nil {
		log.Error().Err(err).Str("iri", iri.String()).Msg("response body unmarshaling error")
	}
	return obj, err
}

func (c *HttpClient) Dereference(ctx context.Context, iri *url.URL) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", federation.ContentType)
	req.Header.Set("User-Agent", c.UserAgent)

	c.getSignerMutex.Lock()
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))
	err = c.getSigner.SignRequest(c.key, c.pubKeyId.String(), req, nil)
	c.getSignerMutex.Unlock()
	if err != nil {
		log.Error().Err(err).Msg("error while signing request")
		return nil, err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode >= http.StatusBadRequest {
		defer res.Body.Close()
		content, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		log.Error().Str("status", res.Status).Str("iri", iri.String()).Bytes("response", content).Msg("fetch error")
		return nil, fmt.Errorf("fetching %s: %s", iri, res.Status)
	}
	return res, nil
}

// Deliver posts an activity to an inbox on behalf of this server.
func (c *HttpClient) Deliver(ctx context.Context, body []byte, inbox *url.URL) error {
	c.postSignerMutex.Lock()
	defer c.postSignerMutex.Unlock()
	return c.post(ctx, c.postSigner, c.key, c.pubKeyId, body, inbox)
}

// DeliverAs posts an activity to an inbox, signed with the key of a local person.
func (c *HttpClient) DeliverAs(ctx context.Context, body []byte, inbox *url.URL, from domain.Person) error {
	key, err := c.db.GetPrivateKey(ctx, from.ID)
	if err != nil {
		log.Error().Err(err).Str("person", from.UserID().String()).Msg("private key not found")
		return err
	}

	signer, _, err := httpsig.NewSigner(prefs, httpsig.DigestSha256, postHeaders, httpsig.Signature, 3600)
	if err != nil {
		log.Error().Err(err).Msg("failed to construct signer")
		return err
	}

	return c.post(ctx, signer, key, federation.KeyID(from.ApId), body, inbox)
}

func (c *HttpClient) post(ctx context.Context, signer httpsig.Signer, key crypto.PrivateKey, keyId *url.URL, body []byte, inbox *url.URL) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inbox.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", federation.ContentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Date", time.Now().UTC().Format(http.TimeFormat))

	if err = signer.SignRequest(key, keyId.String(), req, body); err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		log.Error().Int("code", res.StatusCode).Str("inbox", inbox.String()).Bytes("response body", body).Msg("delivery error")
		return fmt.Errorf("delivering to %s: %s", inbox, res.Status)
	}
	return nil
}

// WebFinger asks the server of a userid for the IRI of its actor.
func (c *HttpClient) WebFinger(ctx context.Context, userid domain.UserID) (*url.URL, error) {
	u := &url.URL{
		Scheme:   c.Scheme,
		Host:     userid.Hostname,
		Path:     "/.well-known/webfinger",
		RawQuery: url.Values{"resource": {"acct:" + userid.String()}}.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/jrd+json")
	req.Header.Set("User-Agent", c.UserAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("webfinger %s: %w", userid, db.ErrNotFound)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("webfinger %s: %s", userid, res.Status)
	}

	var jrd federation.WebfingerResponse
	if err = json.NewDecoder(io.LimitReader(res.Body, maxResponseSize)).Decode(&jrd); err != nil {
		return nil, fmt.Errorf("webfinger %s: %w", userid, err)
	}
	return jrd.Self()
}
