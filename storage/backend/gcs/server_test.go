package gcs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const testBucket = "attachments"

// objectUpload is a single object insert received by gcsServer.
type objectUpload struct {
	Name                string
	Body                string
	PredefinedACL       string
	EncryptionAlgorithm string
}

// gcsServer serves the token endpoint and the subset of the JSON API used by Backend.
type gcsServer struct {
	*httptest.Server

	mu      sync.Mutex
	tokens  int
	uploads []objectUpload

	// uploadStatus, when set, is returned for object inserts instead of success.
	uploadStatus int
}

func newGCSServer(t *testing.T) *gcsServer {
	t.Helper()

	s := &gcsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// Endpoint is the JSON API base path to pass as Config.Endpoint.
func (s *gcsServer) Endpoint() string {
	return s.URL + "/storage/v1/"
}

// Credentials returns a service account document whose token_uri points at the server.
func (s *gcsServer) Credentials(t *testing.T) []byte {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("unexpectedly failed generating key: %v", err)
	}

	creds, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "odoo",
		"private_key_id": "1",
		"private_key":    string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})),
		"client_email":   "sa@odoo.iam.gserviceaccount.com",
		"client_id":      "1",
		"token_uri":      s.URL + "/token",
	})
	if err != nil {
		t.Fatalf("unexpectedly failed encoding credentials: %v", err)
	}

	return creds
}

// FailUploads makes object inserts answer with status.
func (s *gcsServer) FailUploads(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploadStatus = status
}

func (s *gcsServer) Uploads() []objectUpload {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]objectUpload(nil), s.uploads...)
}

func (s *gcsServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/token":
		s.mu.Lock()
		s.tokens++
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/b/"+testBucket):
		writeJSON(w, http.StatusOK, map[string]interface{}{"kind": "storage#bucket", "name": testBucket})
	case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/b/"):
		writeError(w, http.StatusNotFound, "Not Found")
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/b/"+testBucket+"/o"):
		s.insert(w, r)
	default:
		writeError(w, http.StatusNotImplemented, "unexpected request "+r.Method+" "+r.URL.Path)
	}
}

func (s *gcsServer) insert(w http.ResponseWriter, r *http.Request) {
	u := objectUpload{
		Name:                r.URL.Query().Get("name"),
		PredefinedACL:       r.URL.Query().Get("predefinedAcl"),
		EncryptionAlgorithm: r.Header.Get("X-Goog-Encryption-Algorithm"),
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(r.Body, params["boundary"])

		meta, err := mr.NextPart()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var attrs struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(meta).Decode(&attrs); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if attrs.Name != "" {
			u.Name = attrs.Name
		}

		media, err := mr.NextPart()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		body, err := ioutil.ReadAll(media)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		u.Body = string(body)
	} else {
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		u.Body = string(body)
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, u)
	status := s.uploadStatus
	s.mu.Unlock()

	if status != 0 {
		writeError(w, status, http.StatusText(status))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"kind":   "storage#object",
		"bucket": testBucket,
		"name":   u.Name,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{"code": status, "message": msg},
	})
}
