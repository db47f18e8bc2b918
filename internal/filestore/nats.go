package filestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/reader/internal/model"
	"github.com/nats-io/nats.go"
)

var _ Store = (*NatsStore)(nil)

// NatsStore keeps assets in a JetStream object store bucket.
type NatsStore struct {
	bucket string
	store  nats.ObjectStore
}

// NewNatsStore binds to the bucket, creating it when it does not exist yet.
func NewNatsStore(js nats.JetStreamContext, bucket string) (*NatsStore, error) {
	store, err := js.ObjectStore(bucket)
	if err != nil {
		store, err = js.CreateObjectStore(&nats.ObjectStoreConfig{
			Bucket:      bucket,
			Description: fmt.Sprintf("Audio assets of the %s bucket.", bucket),
			Storage:     nats.FileStorage,
			Replicas:    1,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: object store bucket %s: %w", model.ErrStorage, bucket, err)
		}
	}

	return &NatsStore{bucket: bucket, store: store}, nil
}

func (n *NatsStore) Write(_ context.Context, id string, data []byte) error {
	_, err := n.store.PutBytes(id, data)
	if err != nil {
		return fmt.Errorf("%w: put asset %s to %s: %w", model.ErrStorage, id, n.bucket, err)
	}

	return nil
}

func (n *NatsStore) Read(_ context.Context, id string) ([]byte, error) {
	data, err := n.store.GetBytes(id)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: asset %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get asset %s from %s: %w", model.ErrStorage, id, n.bucket, err)
	}

	return data, nil
}

func (n *NatsStore) Exists(_ context.Context, id string) (bool, error) {
	info, err := n.store.GetInfo(id)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat asset %s in %s: %w", model.ErrStorage, id, n.bucket, err)
	}

	return !info.Deleted, nil
}

func (n *NatsStore) Delete(_ context.Context, id string) error {
	err := n.store.Delete(id)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return fmt.Errorf("%w: asset %s", model.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("%w: delete asset %s from %s: %w", model.ErrStorage, id, n.bucket, err)
	}

	return nil
}

func (n *NatsStore) List(_ context.Context) ([]string, error) {
	infos, err := n.store.List()
	if errors.Is(err, nats.ErrNoObjectsFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list assets in %s: %w", model.ErrStorage, n.bucket, err)
	}

	ids := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.Deleted {
			continue
		}
		ids = append(ids, info.Name)
	}

	return ids, nil
}
