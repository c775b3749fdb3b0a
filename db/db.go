// Package db persists quality reports produced by batch separation runs.
package db

import (
	"errors"
	"fmt"

	"github.com/jsphweid/voicedex/constants"
	"github.com/jsphweid/voicedex/model"
)

var ErrUnknownBackend = errors.New("unknown report store backend")

type ReportStore interface {
	Save(reports []model.QualityReport) error
	List() ([]model.QualityReport, error)
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendDynamo = "dynamo"
)

// Open picks a backend by name, configured from the environment.
func Open(kind string) (ReportStore, error) {
	switch kind {
	case "", BackendSQLite:
		return NewSQLiteStore(constants.GetReportDBPath())
	case BackendDynamo:
		return NewDynamoStore(constants.GetDynamoEndpoint())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, kind)
}
