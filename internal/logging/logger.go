// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a development logger for the development environment and a
// JSON production logger otherwise.
func New(environment string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return l, nil
}
