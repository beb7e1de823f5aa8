// Package storage provides the key-value "local storage" the rest of the
// service persists into. Values are opaque JSON blobs that callers read and
// write wholesale.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys used by the repositories.
const (
	KeyCurrentUser = "horizon_user"
	KeyUsers       = "horizon_users"
	KeyLogs        = "horizon_logs"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverPostgres Driver = "postgres"
	DriverMongo    Driver = "mongo"
)

func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverMemory, DriverFile, DriverPostgres, DriverMongo:
		return d, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q", s)
	}
}
