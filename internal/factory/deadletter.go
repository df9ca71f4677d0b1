package factory

import (
	"fmt"

	"github.com/openshift-assisted/ccx-deadletter/internal/config"
	"github.com/openshift-assisted/ccx-deadletter/pkg/deadletter"
)

// CreateStage creates the converter of the configured format.
func CreateStage(conf config.DeadLetter) (deadletter.Stage, error) {
	format, err := deadletter.ParseFormat(conf.Format)
	if err != nil {
		return deadletter.Stage{}, fmt.Errorf("failed to parse dead letter format: %w", err)
	}

	converter, err := deadletter.NewConverter(format)
	if err != nil {
		return deadletter.Stage{}, fmt.Errorf("failed to create %s converter: %w", format, err)
	}

	return deadletter.NewStage(converter, conf.Description), nil
}
