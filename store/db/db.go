// Package db selects the store driver for the configured backend.
package db

import (
	"github.com/pkg/errors"

	"github.com/tastegraph/tastegraph/internal/profile"
	"github.com/tastegraph/tastegraph/store"
	"github.com/tastegraph/tastegraph/store/db/postgres"
	"github.com/tastegraph/tastegraph/store/db/sqlite"
)

// NewDBDriver creates the db driver named by the profile. SQLite serves
// development and demo; PostgreSQL is the production backend.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'postgres' and 'sqlite' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
