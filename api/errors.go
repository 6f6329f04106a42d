// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

const (
	// ErrJobRunning is returned when a job's output is requested before
	// its execution has finished.
	ErrJobRunning = errors.ConstError("job is still running")

	// ErrNotApplicable is returned when a job attribute does not exist in
	// the job's current state, such as compiler errors of a job that
	// compiled.
	ErrNotApplicable = errors.ConstError("not applicable")

	// ErrRangeNotSatisfiable is returned when an output range starts at
	// or beyond the end of the output.
	ErrRangeNotSatisfiable = errors.ConstError("output range not satisfiable")
)

// AmbiguousDatasetError is returned when a dataset name matches more
// than one dataset. It satisfies errors.IsNotFound, as no single
// dataset was found.
type AmbiguousDatasetError struct {
	Name    string
	Matches []Dataset
}

// Error implements error.
func (e *AmbiguousDatasetError) Error() string {
	names := make([]string, len(e.Matches))
	for i, d := range e.Matches {
		names[i] = fmt.Sprintf("%q", d.Name)
	}
	return fmt.Sprintf("dataset %q is ambiguous: matches %s", e.Name, strings.Join(names, ", "))
}

// Is lets errors.Is(err, errors.NotFound) report true.
func (e *AmbiguousDatasetError) Is(target error) bool {
	return target == errors.NotFound
}

// IsAmbiguousDataset reports whether err was caused by an ambiguous
// dataset name.
func IsAmbiguousDataset(err error) bool {
	var ambiguous *AmbiguousDatasetError
	return errors.As(err, &ambiguous)
}
