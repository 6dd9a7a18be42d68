package config

import (
	"errors"
	"fmt"
)

// Env pairs a variable name with the value read for it.
type Env struct {
	Name  string
	Value string
}

// Require reports every variable that came back empty, not just the first.
func Require(vars ...Env) error {
	var errs []error
	for _, v := range vars {
		if v.Value == "" {
			errs = append(errs, fmt.Errorf("missing required env %s", v.Name))
		}
	}
	return errors.Join(errs...)
}
