package blobstore

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"sumpro/internal/models"
)

// Remote stores résumé files in an HTTP object storage service. Uploads are
// signed multipart POSTs; the service replies with a public URL and an
// object id used for later deletion.
type Remote struct {
	endpoint  string
	apiKey    string
	apiSecret string
	folder    string
	client    *http.Client
	now       func() time.Time
}

var _ ResumeStore = (*Remote)(nil)

// NewRemote builds a store talking to endpoint, e.g.
// https://storage.example.com/v1/acme. folder, when set, prefixes every
// object id.
func NewRemote(endpoint, apiKey, apiSecret, folder string) (*Remote, error) {
	if endpoint == "" {
		return nil, errors.New("blobstore: empty remote endpoint")
	}
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("blobstore: remote storage credentials not set")
	}
	return &Remote{
		endpoint:  strings.TrimRight(endpoint, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    folder,
		client:    &http.Client{Timeout: 30 * time.Second},
		now:       time.Now,
	}, nil
}

type remoteUploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Store uploads the file as a raw object so the service never tries to
// transform document bytes.
func (s *Remote) Store(ctx context.Context, r io.Reader, upload ResumeUpload) (StoredResume, error) {
	name := storageKey(upload)
	publicID := name
	if s.folder != "" {
		publicID = path.Join(s.folder, name)
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range params {
		if err := mw.WriteField(k, v); err != nil {
			return StoredResume{}, fmt.Errorf("build upload request: %w", err)
		}
	}
	if err := mw.WriteField("api_key", s.apiKey); err != nil {
		return StoredResume{}, fmt.Errorf("build upload request: %w", err)
	}
	if err := mw.WriteField("signature", s.sign(params)); err != nil {
		return StoredResume{}, fmt.Errorf("build upload request: %w", err)
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return StoredResume{}, fmt.Errorf("build upload request: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return StoredResume{}, fmt.Errorf("read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return StoredResume{}, fmt.Errorf("build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/raw/upload", &body)
	if err != nil {
		return StoredResume{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var parsed remoteUploadResponse
	if err := s.do(req, &parsed); err != nil {
		return StoredResume{}, err
	}
	location := parsed.SecureURL
	if location == "" {
		location = parsed.URL
	}
	if location == "" || parsed.PublicID == "" {
		return StoredResume{}, errors.New("blobstore: remote upload response missing url or public id")
	}
	return StoredResume{
		Location: location,
		Handle:   parsed.PublicID,
		Kind:     models.ResourceKindForFilename(upload.Filename),
	}, nil
}

// Delete destroys the stored object. The resource kind recorded at upload
// time selects the service endpoint, because the service files raw
// documents and other uploads under different resource types.
func (s *Remote) Delete(ctx context.Context, handle string, kind models.ResourceKind) error {
	if handle == "" {
		return errors.New("blobstore: empty handle")
	}
	params := map[string]string{
		"public_id": handle,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}
	form := make([]string, 0, len(params)+2)
	for k, v := range params {
		form = append(form, k+"="+v)
	}
	form = append(form, "api_key="+s.apiKey, "signature="+s.sign(params))
	body := strings.NewReader(strings.Join(form, "&"))

	url := fmt.Sprintf("%s/%s/destroy", s.endpoint, remoteResourceType(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var parsed struct {
		Result string `json:"result"`
	}
	if err := s.do(req, &parsed); err != nil {
		return err
	}
	// "not found" means the object is already gone, which is fine.
	if parsed.Result != "" && parsed.Result != "ok" && parsed.Result != "not found" {
		return fmt.Errorf("blobstore: destroy returned %q", parsed.Result)
	}
	return nil
}

func (s *Remote) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote storage request: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read remote storage response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure remoteUploadResponse
		if json.Unmarshal(data, &failure) == nil && failure.Error.Message != "" {
			return fmt.Errorf("remote storage: %s (status %d)", failure.Error.Message, resp.StatusCode)
		}
		return fmt.Errorf("remote storage: unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode remote storage response: %w", err)
	}
	return nil
}

// sign produces the request signature: params sorted by key, joined as a
// query string, with the API secret appended, hashed with SHA-1.
func (s *Remote) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

func remoteResourceType(kind models.ResourceKind) string {
	if kind == models.ResourceKindDocument {
		return "raw"
	}
	return "image"
}
