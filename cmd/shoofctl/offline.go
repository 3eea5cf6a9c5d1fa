package main

import (
	"context"

	"shoof/internal/modkit/repokit"
	perr "shoof/internal/platform/errors"
)

// offlineDB backs services used without a database; every call fails Unavailable
type offlineDB struct{}

var errOffline = perr.Unavailablef("no database for this command")

func (offlineDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) {
	return nil, errOffline
}

func (offlineDB) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, errOffline
}

func (offlineDB) QueryRow(context.Context, string, ...any) repokit.Row { return errRow{} }

func (offlineDB) Tx(context.Context, func(repokit.Queryer) error) error { return errOffline }

type errRow struct{}

func (errRow) Scan(...any) error { return errOffline }
