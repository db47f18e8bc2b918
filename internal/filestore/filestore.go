// Package filestore keeps synthesized audio assets addressed by a generated id.
package filestore

import "context"

// Store is byte storage for audio assets. Delete, Read and Exists report a
// missing asset with model.ErrNotFound (Exists reports it as false).
type Store interface {
	Write(ctx context.Context, id string, data []byte) error
	Read(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	// List returns the ids of every stored asset.
	List(ctx context.Context) ([]string, error)
}
