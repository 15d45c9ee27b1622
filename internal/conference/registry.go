package conference

import (
	"errors"
	"fmt"
)

// ErrConferenceNotFound is returned when a venue id matches neither a
// user-defined nor a built-in conference.
var ErrConferenceNotFound = errors.New("conference not found")

// Merged returns the effective venue set: built-ins first, then the
// user-defined entries in their stored order. No de-duplication is
// performed, duplicate ids are resolved at lookup time instead.
func Merged(custom []Conference) []Conference {
	out := make([]Conference, 0, len(builtIn)+len(custom))
	out = append(out, builtIn...)
	out = append(out, custom...)

	return out
}

// Lookup resolves a venue id against the merged set. User-defined entries
// shadow built-ins with the same id, and the most recently added
// user-defined entry wins among duplicates. An unknown id yields
// ErrConferenceNotFound so prompt construction fails predictably instead of
// producing a prompt with an empty focus area.
func Lookup(custom []Conference, id string) (Conference, error) {
	for i := len(custom) - 1; i >= 0; i-- {
		if custom[i].ID == id {
			return custom[i], nil
		}
	}

	for _, conf := range builtIn {
		if conf.ID == id {
			return conf, nil
		}
	}

	return Conference{}, fmt.Errorf("%w: %s", ErrConferenceNotFound, id)
}
