// Package admission decides whether an uploaded recording or snapshot is
// accepted, and stores it when it is.
//
// The multipart body is streamed: the file part is spooled to disk and
// rejected with ErrPayloadTooLarge as soon as it crosses the ceiling for
// its media type, before the token is even looked at.
package admission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"strings"
	"time"

	"github.com/kerberos-io/media/src/auth"
	"github.com/kerberos-io/media/src/catalog"
	"github.com/kerberos-io/media/src/log"
	"github.com/kerberos-io/media/src/models"
	"github.com/kerberos-io/media/src/registry"
	"github.com/kerberos-io/media/src/storage"
	"github.com/kerberos-io/media/src/timestamp"
)

var (
	ErrPayloadTooLarge = errors.New("admission: payload too large")
	ErrFilename        = errors.New("admission: filename does not match the expected format")
	ErrContentMismatch = errors.New("admission: content does not match the extension")
	ErrMalformedForm   = errors.New("admission: malformed multipart form")
)

const maxTokenSize = 8 << 10

// Limits are the upload ceilings in bytes, a file of that size or larger
// is rejected. Zero means unbounded.
type Limits struct {
	MaxSnapshotSize  int64
	MaxRecordingSize int64
}

func (l Limits) For(kind models.MediaType) int64 {
	if kind == models.Snapshot {
		return l.MaxSnapshotSize
	}
	return l.MaxRecordingSize
}

// Notifier is told about every stored artifact.
type Notifier interface {
	Notify(artifact models.Artifact)
}

type Controller struct {
	Authority *auth.Authority
	Resolver  *registry.Resolver
	Codec     *timestamp.Codec
	Store     storage.Store
	Catalog   catalog.Catalog
	Limits    Limits
	SpoolDir  string
	Notifier  Notifier
}

// upload is what was read from the multipart body.
type upload struct {
	filename string
	token    string
	spool    *os.File
	size     int64
}

func (u *upload) cleanup() {
	if u.spool != nil {
		u.spool.Close()
		os.Remove(u.spool.Name())
	}
}

// Admit reads a multipart upload and, when every check passes, writes the
// artifact to the blob store and then to the catalog.
func (c *Controller) Admit(ctx context.Context, kind models.MediaType, reader *multipart.Reader) (models.Artifact, error) {
	u, err := c.read(kind, reader)
	defer u.cleanup()
	if err != nil {
		return models.Artifact{}, err
	}

	camera, err := c.authorize(ctx, u.token)
	if err != nil {
		return models.Artifact{}, err
	}

	if u.spool == nil {
		return models.Artifact{}, ErrFilename
	}
	at, ext, err := c.parseFilename(kind, u.filename)
	if err != nil {
		return models.Artifact{}, err
	}
	if err := sniff(u.spool, ext); err != nil {
		return models.Artifact{}, err
	}

	filename := c.Codec.Format(at) + ext
	artifact := models.Artifact{
		Key:         storage.Key(kind, camera, filename),
		Kind:        kind,
		BuildingId:  camera.BuildingId,
		CameraId:    camera.CameraId,
		Timestamp:   at,
		Extension:   ext,
		ContentType: contentTypes[ext],
		Size:        u.size,
	}
	if kind == models.Recording {
		artifact.DurationMs = probeDuration(u.spool)
	}

	if _, err := u.spool.Seek(0, io.SeekStart); err != nil {
		return models.Artifact{}, err
	}
	if err := c.Store.Put(ctx, artifact.Key, u.spool, u.size, artifact.ContentType); err != nil {
		return models.Artifact{}, fmt.Errorf("admission: store %s: %w", artifact.Key, err)
	}
	artifact.StoredAt = time.Now().UTC()
	if err := c.Catalog.Record(ctx, artifact); err != nil {
		// The blob stays in the store without an index entry, a retry of
		// the upload overwrites it.
		log.Log.Error("admission.main.Admit(): stored " + artifact.Key + " but could not index it: " + err.Error())
		return models.Artifact{}, fmt.Errorf("admission: catalog %s: %w", artifact.Key, err)
	}

	log.Log.Info("admission.main.Admit(): stored " + artifact.Key)
	if c.Notifier != nil {
		c.Notifier.Notify(artifact)
	}
	return artifact, nil
}

// read walks the parts in the order they were sent. Only the first file
// part is kept, other fields are skipped.
func (c *Controller) read(kind models.MediaType, reader *multipart.Reader) (*upload, error) {
	u := &upload{}
	limit := c.Limits.For(kind)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			return u, nil
		}
		if err != nil {
			return u, ErrMalformedForm
		}

		switch part.FormName() {
		case "file":
			if u.spool == nil {
				if err := c.spool(u, part, limit); err != nil {
					part.Close()
					return u, err
				}
				u.filename = part.FileName()
			}
		case "token":
			value, err := io.ReadAll(io.LimitReader(part, maxTokenSize))
			if err != nil {
				part.Close()
				return u, ErrMalformedForm
			}
			u.token = string(value)
		}
		part.Close()
	}
}

func (c *Controller) spool(u *upload, part io.Reader, limit int64) error {
	file, err := os.CreateTemp(c.SpoolDir, "upload-*")
	if err != nil {
		return err
	}
	u.spool = file

	var n int64
	if limit > 0 {
		// A file at or above the ceiling is rejected.
		n, err = io.CopyN(file, part, limit)
		if err == io.EOF {
			err = nil
		}
		if n >= limit {
			return ErrPayloadTooLarge
		}
	} else {
		n, err = io.Copy(file, part)
	}
	if err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return ErrPayloadTooLarge
		}
		return ErrMalformedForm
	}
	u.size = n
	return nil
}

// authorize turns the token field into the camera the gateway speaks for.
// A client token on this surface is reported as auth.ErrPermissionDenied,
// the router renders it as an invalid token.
func (c *Controller) authorize(ctx context.Context, token string) (models.CameraRef, error) {
	verified, err := c.Authority.Verify(token)
	if err != nil {
		return models.CameraRef{}, err
	}
	if err := auth.Authorize(verified, auth.WriteAccess); err != nil {
		return models.CameraRef{}, err
	}
	identity, err := auth.Identity(verified)
	if err != nil {
		return models.CameraRef{}, err
	}
	camera, err := c.Resolver.Resolve(ctx, identity.BuildingId, identity.CameraId)
	if errors.Is(err, registry.ErrNotFound) {
		return models.CameraRef{}, auth.ErrMissingIdentityClaims
	}
	return camera, err
}

func (c *Controller) parseFilename(kind models.MediaType, filename string) (time.Time, string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtension(kind, ext) {
		return time.Time{}, "", ErrFilename
	}
	at, err := c.Codec.ParsePast(strings.TrimSuffix(filename, path.Ext(filename)))
	if errors.Is(err, timestamp.ErrFormat) {
		return time.Time{}, "", ErrFilename
	}
	if err != nil {
		return time.Time{}, "", err
	}
	return at, ext, nil
}
