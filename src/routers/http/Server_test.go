package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kerberos-io/media/src/components"
	"github.com/kerberos-io/media/src/config"
	"github.com/kerberos-io/media/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientSecret  = "client-secret"
	gatewaySecret = "gateway-secret"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n")
	mp4Header = []byte("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isommp41")
)

type server struct {
	t      *testing.T
	router *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	configuration := &models.Configuration{Name: "media", Port: "8080"}
	configuration.Config.Tokens = &models.Tokens{ClientSecret: clientSecret, GatewaySecret: gatewaySecret}
	configuration.Config.Buildings = []models.Building{
		{Id: "b1", Cameras: []string{"c1", "c2"}},
	}
	config.ApplyDefaults(t.TempDir(), configuration)

	services, err := components.Bootstrap(context.Background(), configuration)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	return &server{t: t, router: NewRouter(configuration, services)}
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func clientToken(t *testing.T) string {
	return sign(t, clientSecret, jwt.MapClaims{"sub": "app"})
}

func gatewayToken(t *testing.T) string {
	return sign(t, gatewaySecret, jwt.MapClaims{"buildingId": "b1", "cameraId": "c1"})
}

func withHeader(header []byte, size int) []byte {
	content := make([]byte, size)
	copy(content, header)
	return content
}

func (s *server) do(request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)
	return recorder
}

func (s *server) get(target string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// upload posts a multipart form, a nil token leaves the field out.
func (s *server) upload(target string, filename string, content []byte, token *string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	part.Write(content)
	if token != nil {
		writer.WriteField("token", *token)
	}
	writer.Close()

	request := httptest.NewRequest(http.MethodPost, target, body)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return s.do(request)
}

func errorOf(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var response models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response), recorder.Body.String())
	return response.Error
}

func artifactOf(t *testing.T, recorder *httptest.ResponseRecorder) models.ArtifactResponse {
	t.Helper()
	var response models.ArtifactResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response), recorder.Body.String())
	return response
}

func readPath(kind string, rest string, token string) string {
	target := "/" + kind + "/buildings/b1/cameras/c1" + rest
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + "token=" + url.QueryEscape(token)
}

func TestUploadThenRetrieveRecording(t *testing.T) {
	s := newServer(t)
	token := gatewayToken(t)
	content := withHeader(mp4Header, 2048)

	recorder := s.upload("/recordings", "2024-01-01--10-00-00.mp4", content, &token)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var uploaded models.UploadResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &uploaded))
	assert.Equal(t, "recordings/b1/c1/2024-01-01--10-00-00.mp4", uploaded.Key)
	assert.Equal(t, int64(len(content)), uploaded.Size)

	recorder = s.get(readPath("recordings", "/files/2024-01-01--10-00-00", clientToken(t)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	artifact := artifactOf(t, recorder)
	require.NotEmpty(t, artifact.URL)
	assert.Equal(t, "2024-01-01--10-00-00.mp4", artifact.Filename)
	assert.Equal(t, "2024-01-01--10-00-00", artifact.Timestamp)

	// The url of the filesystem store is served by the same router.
	location, err := url.Parse(artifact.URL)
	require.NoError(t, err)
	recorder = s.get(location.Path)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, content, recorder.Body.Bytes())
}

func TestReadWithAuthorizationHeader(t *testing.T) {
	s := newServer(t)
	token := gatewayToken(t)
	s.upload("/snapshots", "2024-01-01--10-00-00.png", withHeader(pngHeader, 1024), &token)

	request := httptest.NewRequest(http.MethodGet, "/snapshots/buildings/b1/cameras/c1", nil)
	request.Header.Set("Authorization", "Bearer "+clientToken(t))
	recorder := s.do(request)
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestGetRecordingErrors(t *testing.T) {
	s := newServer(t)
	client := clientToken(t)
	future := time.Now().AddDate(1, 0, 0).UTC().Format("2006-01-02--15-04-05")

	cases := []struct {
		name    string
		target  string
		status  int
		message string
	}{
		{"missing token", "/recordings/buildings/b1/cameras/c1/files/2024-01-01--10-00-00", http.StatusUnauthorized, "Permission denied, missing token"},
		{"gateway token", readPath("recordings", "/files/2024-01-01--10-00-00", gatewayToken(t)), http.StatusUnauthorized, "Permission denied"},
		{"null token", readPath("recordings", "/files/2024-01-01--10-00-00", "null"), http.StatusUnauthorized, "Permission denied"},
		{"malformed filename", readPath("recordings", "/files/2024-01-01%2010:00:00", client), http.StatusBadRequest, "'filename' argument must be in yyyy-MM-dd--HH-mm-ss format"},
		{"future filename", readPath("recordings", "/files/"+future, client), http.StatusBadRequest, "'filename' datetime must be in the past"},
		{"unknown file", readPath("recordings", "/files/2020-01-01--10-00-00", client), http.StatusNotFound, "File not found"},
		{"unknown building", "/recordings/buildings/wrong-id/cameras/c1/files/2020-01-01--10-00-00?token=" + client, http.StatusNotFound, "File not found"},
		{"unknown camera", "/recordings/buildings/b1/cameras/c9/files/2020-01-01--10-00-00?token=" + client, http.StatusNotFound, "File not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := s.get(tc.target)
			require.Equal(t, tc.status, recorder.Code, recorder.Body.String())
			assert.Equal(t, tc.message, errorOf(t, recorder))
		})
	}
}

func TestCorruptedTokenNeverPasses(t *testing.T) {
	s := newServer(t)
	token := clientToken(t)
	for i := 1; i < len(token); i++ {
		recorder := s.get(readPath("recordings", "/files/2020-01-01--10-00-00", token[:len(token)-i]))
		require.Equal(t, http.StatusUnauthorized, recorder.Code, "dropped %d characters", i)
	}
}

func TestEventDate(t *testing.T) {
	s := newServer(t)
	token := gatewayToken(t)
	for _, filename := range []string{"2024-01-01--10-00-00.mp4", "2024-01-01--10-05-00.mp4"} {
		recorder := s.upload("/recordings", filename, withHeader(mp4Header, 2048), &token)
		require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	}
	client := clientToken(t)

	recorder := s.get(readPath("recordings", "/event-date?query=2024-01-01--10-03-00", client))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, "2024-01-01--10-00-00", artifactOf(t, recorder).Timestamp)

	recorder = s.get(readPath("recordings", "/event-date?query=2024-01-01--10-05-00", client))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "2024-01-01--10-05-00", artifactOf(t, recorder).Timestamp)

	recorder = s.get(readPath("recordings", "/event-date?query=2024-01-01--09-59-59", client))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	future := time.Now().AddDate(1, 0, 0).UTC().Format("2006-01-02--15-04-05")
	recorder = s.get(readPath("recordings", "/event-date?query="+future, client))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "'query' datetime must be in the past", errorOf(t, recorder))

	recorder = s.get(readPath("recordings", "/event-date?query=2024-01-01T10:03:00", client))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "'query' argument must be in yyyy-MM-dd--HH-mm-ss format", errorOf(t, recorder))

	recorder = s.get(readPath("recordings", "/event-date", client))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "'query' argument is required", errorOf(t, recorder))

	recorder = s.get(readPath("recordings", "/event-date?query=2024-01-01--10-03-00", token))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = s.get("/recordings/buildings/b2/cameras/c1/event-date?query=2024-01-01--10-03-00&token=" + client)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUploadErrors(t *testing.T) {
	s := newServer(t)
	content := withHeader(mp4Header, 2048)
	filename := "2024-01-01--10-00-00.mp4"
	client := clientToken(t)
	noClaims := sign(t, gatewaySecret, jwt.MapClaims{"buildingId": "b1"})
	unknown := sign(t, gatewaySecret, jwt.MapClaims{"buildingId": "b1", "cameraId": "c9"})
	corrupted := gatewayToken(t)
	corrupted = corrupted[:len(corrupted)-3]
	gateway := gatewayToken(t)

	cases := []struct {
		name     string
		filename string
		token    *string
		status   int
		message  string
	}{
		{"missing token", filename, nil, http.StatusUnauthorized, "Missing token"},
		{"client token", filename, &client, http.StatusUnauthorized, "Invalid token"},
		{"corrupted token", filename, &corrupted, http.StatusUnauthorized, "Invalid token"},
		{"missing claims", filename, &noClaims, http.StatusUnauthorized, "Missing cameraId or buildingId"},
		{"unknown camera", filename, &unknown, http.StatusUnauthorized, "Missing cameraId or buildingId"},
		{"colon separators", "2024-01-01--10:00:00.mp4", &gateway, http.StatusBadRequest, "Filename needs to match 'yyyy-MM-dd--HH-mm-ss.mp4' format"},
		{"wrong extension", "2024-01-01--10-00-00.avi", &gateway, http.StatusBadRequest, "Filename needs to match 'yyyy-MM-dd--HH-mm-ss.mp4' format"},
		{"not a date", "recording.mp4", &gateway, http.StatusBadRequest, "Filename needs to match 'yyyy-MM-dd--HH-mm-ss.mp4' format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := s.upload("/recordings", tc.filename, content, tc.token)
			require.Equal(t, tc.status, recorder.Code, recorder.Body.String())
			assert.Equal(t, tc.message, errorOf(t, recorder))
		})
	}
}

func TestUploadWithoutMultipart(t *testing.T) {
	s := newServer(t)
	request := httptest.NewRequest(http.MethodPost, "/recordings", strings.NewReader("{}"))
	request.Header.Set("Content-Type", "application/json")
	recorder := s.do(request)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "Filename needs to match 'yyyy-MM-dd--HH-mm-ss.mp4' format", errorOf(t, recorder))
}

func TestSnapshots(t *testing.T) {
	s := newServer(t)
	token := gatewayToken(t)
	client := clientToken(t)

	recorder := s.get(readPath("snapshots", "", client))
	require.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "File not found", errorOf(t, recorder))

	recorder = s.upload("/snapshots", "2024-01-01--10-00-00.png", withHeader(pngHeader, 500<<10), &token)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	recorder = s.upload("/snapshots", "2024-01-01--10-05-00.png", withHeader(pngHeader, 1024), &token)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = s.upload("/snapshots", "2024-01-01--10-10-00.png", withHeader(pngHeader, 1<<20), &token)
	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	assert.Empty(t, recorder.Body.String())

	// Snapshot names are rejected with the same message as recordings.
	for _, filename := range []string{"2024-01-01--10-10-00.gif", "2024-01-01--10:10:00.png", "snapshot.png"} {
		recorder = s.upload("/snapshots", filename, withHeader(pngHeader, 1024), &token)
		require.Equal(t, http.StatusBadRequest, recorder.Code, filename)
		assert.Equal(t, "Filename needs to match 'yyyy-MM-dd--HH-mm-ss.mp4' format", errorOf(t, recorder), filename)
	}

	recorder = s.get(readPath("snapshots", "", client))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, "2024-01-01--10-05-00.png", artifactOf(t, recorder).Filename)

	recorder = s.get("/snapshots/buildings/wrong-id/cameras/c1?token=" + client)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = s.get(readPath("snapshots", "", token))
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Permission denied", errorOf(t, recorder))
}

func TestOperationalEndpoints(t *testing.T) {
	s := newServer(t)

	recorder := s.get("/api/health")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"ready":true}`, recorder.Body.String())

	s.get(readPath("snapshots", "", clientToken(t)))
	recorder = s.get("/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "media_")
}
