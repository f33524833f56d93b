package retrieval

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/kerberos-io/media/src/auth"
	"github.com/kerberos-io/media/src/catalog"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/registry"
	"github.com/kerberos-io/media/src/storage"
	"github.com/kerberos-io/media/src/timestamp"
)

const (
	clientSecret  = "client-secret"
	gatewaySecret = "gateway-secret"
)

var (
	now    = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	camera = models.CameraRef{BuildingId: "b1", CameraId: "c1"}
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newService(t *testing.T, stored ...time.Time) *Service {
	t.Helper()
	authority, err := auth.NewAuthority(clientSecret, gatewaySecret)
	if err != nil {
		t.Fatalf("authority: %v", err)
	}
	directory := t.TempDir()
	store, err := storage.NewFilesystemStore(filepath.Join(directory, "media"), "http://localhost")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	index, err := catalog.NewBadgerCatalog(filepath.Join(directory, "catalog"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	codec := timestamp.New(time.UTC)
	codec.Now = func() time.Time { return now }

	for _, at := range stored {
		for _, kind := range []models.MediaType{models.Recording, models.Snapshot} {
			filename := codec.Format(at) + ".mp4"
			if kind == models.Snapshot {
				filename = codec.Format(at) + ".png"
			}
			err := index.Record(context.Background(), models.Artifact{
				Key:        storage.Key(kind, camera, filename),
				Kind:       kind,
				BuildingId: camera.BuildingId,
				CameraId:   camera.CameraId,
				Timestamp:  at,
			})
			if err != nil {
				t.Fatalf("record: %v", err)
			}
		}
	}

	return &Service{
		Authority: authority,
		Resolver: registry.NewResolver(registry.NewStaticRegistry([]models.Building{
			{Id: "b1", Cameras: []string{"c1"}},
		})),
		Codec:   codec,
		Catalog: index,
		Store:   store,
	}
}

func TestGetByTimestamp(t *testing.T) {
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := newService(t, at)
	token := sign(t, clientSecret, jwt.MapClaims{})

	ref, err := s.GetByTimestamp(context.Background(), token, models.Recording, "b1", "c1", "2024-01-01--10-00-00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.URL != "http://localhost/file/recordings/b1/c1/2024-01-01--10-00-00.mp4" {
		t.Fatalf("unexpected url %s", ref.URL)
	}

	_, err = s.GetByTimestamp(context.Background(), token, models.Recording, "b1", "c1", "2024-01-01--10-00-01")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByTimestampArguments(t *testing.T) {
	s := newService(t)
	token := sign(t, clientSecret, jwt.MapClaims{})

	cases := []struct {
		filename string
		want     error
	}{
		{"incorrectDate", timestamp.ErrFormat},
		{"2024:01-01--10-00-00", timestamp.ErrFormat},
		{"2025-01-01--10-00-00", timestamp.ErrNotInPast},
		{"", ErrMissingArgument},
	}
	for _, tc := range cases {
		_, err := s.GetByTimestamp(context.Background(), token, models.Recording, "b1", "c1", tc.filename)
		var argument *ArgumentError
		if !errors.As(err, &argument) || argument.Name != "filename" {
			t.Fatalf("%q: expected a filename ArgumentError, got %v", tc.filename, err)
		}
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.filename, tc.want, err)
		}
	}
}

func TestReadChecksOrder(t *testing.T) {
	s := newService(t)
	client := sign(t, clientSecret, jwt.MapClaims{})
	gateway := sign(t, gatewaySecret, jwt.MapClaims{"buildingId": "b1", "cameraId": "c1"})

	cases := []struct {
		name     string
		token    string
		building string
		want     error
	}{
		{"missing token", "", "wrong-id", auth.ErrMissingToken},
		{"invalid token", "abc", "wrong-id", auth.ErrInvalidToken},
		{"gateway token", gateway, "wrong-id", auth.ErrPermissionDenied},
		{"unknown building", client, "wrong-id", registry.ErrNotFound},
	}
	for _, tc := range cases {
		_, err := s.GetByTimestamp(context.Background(), tc.token, models.Recording, tc.building, "c1", "2099-01-01--10-00-00")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestGetNearestAtOrBefore(t *testing.T) {
	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newService(t, first, second)
	token := sign(t, clientSecret, jwt.MapClaims{})

	cases := []struct {
		query string
		want  time.Time
	}{
		{"2024-01-01--10-00-00", first},
		{"2024-01-01--11-59-59", first},
		{"2024-01-01--12-00-00", second},
		{"2024-05-01--00-00-00", second},
	}
	for _, tc := range cases {
		ref, err := s.GetNearestAtOrBefore(context.Background(), token, models.Recording, "b1", "c1", tc.query)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.query, err)
		}
		if !ref.Artifact.Timestamp.Equal(tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.query, tc.want, ref.Artifact.Timestamp)
		}
	}

	_, err := s.GetNearestAtOrBefore(context.Background(), token, models.Recording, "b1", "c1", "2023-12-31--23-59-59")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err = s.GetNearestAtOrBefore(context.Background(), token, models.Recording, "b1", "c1", "")
	var argument *ArgumentError
	if !errors.As(err, &argument) || argument.Name != "query" || !errors.Is(err, ErrMissingArgument) {
		t.Fatalf("expected a missing query argument, got %v", err)
	}
}

func TestGetLatest(t *testing.T) {
	s := newService(t)
	token := sign(t, clientSecret, jwt.MapClaims{})
	if _, err := s.GetLatest(context.Background(), token, models.Snapshot, "b1", "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without snapshots, got %v", err)
	}

	at := time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC)
	s = newService(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), at)
	ref, err := s.GetLatest(context.Background(), token, models.Snapshot, "b1", "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Artifact.Timestamp.Equal(at) {
		t.Fatalf("expected %v, got %v", at, ref.Artifact.Timestamp)
	}
}
