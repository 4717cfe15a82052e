package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatingSpec is implemented by every record kept in a FileStore.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope around a stored record.
type Asset[T ValidatingSpec] struct {
	Version uint   `json:"version"`
	ID      string `json:"id"`
	Spec    T      `json:"spec"`
}

// Validate checks the envelope and the wrapped record.
func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.ID == "" {
		el.Add(fmt.Errorf("id must be set"))
	} else if !idPattern.MatchString(a.ID) {
		el.Add(fmt.Errorf("id %q may only contain letters, digits, '-' and '_'", a.ID))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}
