package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/kerberos-io/media/src/models"
)

var camera = models.CameraRef{BuildingId: "b1", CameraId: "c1"}

func artifactAt(kind models.MediaType, cam models.CameraRef, at time.Time, size int64) models.Artifact {
	return models.Artifact{
		Key:        string(kind) + "/" + cam.BuildingId + "/" + cam.CameraId + "/" + at.Format("2006-01-02--15-04-05") + ".mp4",
		Kind:       kind,
		BuildingId: cam.BuildingId,
		CameraId:   cam.CameraId,
		Timestamp:  at,
		Extension:  ".mp4",
		Size:       size,
	}
}

func openBadger(t *testing.T) Catalog {
	t.Helper()
	c, err := NewBadgerCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func openRedis(t *testing.T) Catalog {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)
	c, err := NewRedisCatalog("redis://" + srv.Addr())
	if err != nil {
		t.Fatalf("create redis catalog: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func eachCatalog(t *testing.T, test func(t *testing.T, c Catalog)) {
	t.Run("badger", func(t *testing.T) { test(t, openBadger(t)) })
	t.Run("redis", func(t *testing.T) { test(t, openRedis(t)) })
}

func TestLookupExact(t *testing.T) {
	eachCatalog(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		if err := c.Record(ctx, artifactAt(models.Recording, camera, at, 10)); err != nil {
			t.Fatalf("record: %v", err)
		}

		got, err := c.Lookup(ctx, models.Recording, camera, at)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if !got.Timestamp.Equal(at) || got.Size != 10 {
			t.Fatalf("unexpected artifact %+v", got)
		}

		if _, err := c.Lookup(ctx, models.Recording, camera, at.Add(time.Second)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if _, err := c.Lookup(ctx, models.Snapshot, camera, at); !errors.Is(err, ErrNotFound) {
			t.Fatalf("kinds must not mix, got %v", err)
		}
	})
}

func TestRecordOverwrites(t *testing.T) {
	eachCatalog(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		c.Record(ctx, artifactAt(models.Recording, camera, at, 10))
		if err := c.Record(ctx, artifactAt(models.Recording, camera, at, 20)); err != nil {
			t.Fatalf("record: %v", err)
		}
		got, err := c.Lookup(ctx, models.Recording, camera, at)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if got.Size != 20 {
			t.Fatalf("expected last writer to win, got size %d", got.Size)
		}
	})
}

func TestNearestAtOrBefore(t *testing.T) {
	eachCatalog(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		second := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		other := models.CameraRef{BuildingId: "b1", CameraId: "c2"}

		c.Record(ctx, artifactAt(models.Recording, camera, first, 1))
		c.Record(ctx, artifactAt(models.Recording, camera, second, 2))
		c.Record(ctx, artifactAt(models.Recording, other, second.Add(-time.Minute), 3))

		cases := []struct {
			at   time.Time
			want time.Time
		}{
			{first, first},
			{second, second},
			{first.Add(time.Hour), first},
			{second.Add(time.Hour), second},
			{second.Add(-time.Second), first},
		}
		for _, tc := range cases {
			got, err := c.Nearest(ctx, models.Recording, camera, tc.at)
			if err != nil {
				t.Fatalf("%v: nearest: %v", tc.at, err)
			}
			if !got.Timestamp.Equal(tc.want) {
				t.Fatalf("%v: expected %v, got %v", tc.at, tc.want, got.Timestamp)
			}
		}

		if _, err := c.Nearest(ctx, models.Recording, camera, first.Add(-time.Second)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound before the first artifact, got %v", err)
		}
		if _, err := c.Nearest(ctx, models.Snapshot, camera, second); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound for an empty kind, got %v", err)
		}
	})
}
