package registry

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("room not registered")

// Registry records which instance hosts each live room.
type Registry interface {
	Register(ctx context.Context, roomID string) error
	Deregister(ctx context.Context, roomID string) error
	Lookup(ctx context.Context, roomID string) (string, error)
	StartHeartbeat(ctx context.Context) error
	StopHeartbeat()
	Close() error
}

// NopRegistry is used when the registry is disabled.
type NopRegistry struct{}

func (NopRegistry) Register(context.Context, string) error   { return nil }
func (NopRegistry) Deregister(context.Context, string) error { return nil }

func (NopRegistry) Lookup(context.Context, string) (string, error) {
	return "", ErrNotFound
}

func (NopRegistry) StartHeartbeat(context.Context) error { return nil }
func (NopRegistry) StopHeartbeat()                       {}
func (NopRegistry) Close() error                         { return nil }
