package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/kerberos-io/media/src/models"
)

// BadgerCatalog keeps the index in an embedded Badger database. Keys look
// like recordings/<buildingId>/<cameraId>/20240101100000.
type BadgerCatalog struct {
	db *badger.DB
}

func NewBadgerCatalog(directory string) (*BadgerCatalog, error) {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return nil, fmt.Errorf("catalog: failed to create directory: %w", err)
	}
	opts := badger.DefaultOptions(directory)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open database: %w", err)
	}
	return &BadgerCatalog{db: db}, nil
}

func badgerPrefix(kind models.MediaType, camera models.CameraRef) []byte {
	return []byte(string(kind) + "/" + camera.BuildingId + "/" + camera.CameraId + "/")
}

func badgerKey(kind models.MediaType, camera models.CameraRef, at time.Time) []byte {
	return append(badgerPrefix(kind, camera), stamp(at)...)
}

func (b *BadgerCatalog) Record(ctx context.Context, artifact models.Artifact) error {
	camera := models.CameraRef{BuildingId: artifact.BuildingId, CameraId: artifact.CameraId}
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("catalog: failed to marshal artifact: %w", err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(artifact.Kind, camera, artifact.Timestamp), data)
	})
}

func (b *BadgerCatalog) Lookup(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error) {
	var artifact models.Artifact
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(kind, camera, at))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &artifact)
		})
	})
	return artifact, err
}

// Nearest seeks backwards from the key of at; in reverse mode Badger lands
// on the greatest key lower or equal to the seek key.
func (b *BadgerCatalog) Nearest(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error) {
	var artifact models.Artifact
	prefix := badgerPrefix(kind, camera)
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(badgerKey(kind, camera, at))
		if !it.ValidForPrefix(prefix) {
			return ErrNotFound
		}
		return it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &artifact)
		})
	})
	return artifact, err
}

func (b *BadgerCatalog) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
