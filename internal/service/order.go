package service

import (
	"fmt"
	"slices"

	"github.com/emrgen/reader/internal/model"
)

// Move returns a new sequence with the element at from moved to index to,
// shifting the elements in between. The input is left untouched.
func Move(ids []string, from, to int) ([]string, error) {
	if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
		return nil, fmt.Errorf("%w: move %d to %d out of range for %d items", model.ErrValidation, from, to, len(ids))
	}

	out := slices.Clone(ids)
	if from == to {
		return out, nil
	}

	id := out[from]
	out = slices.Delete(out, from, from+1)
	out = slices.Insert(out, to, id)

	return out, nil
}
