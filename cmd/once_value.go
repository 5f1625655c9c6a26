package cmd

import (
	"fmt"
)

// onceValue is a string flag value that may be set at most once and rejects
// empty arguments
type onceValue struct {
	name  string
	value string
	set   bool
}

func newOnceValue(name string) *onceValue {
	return &onceValue{name: name}
}

// String implements `pflag.Value`
func (v *onceValue) String() string {
	return v.value
}

// Set implements `pflag.Value`
func (v *onceValue) Set(value string) error {
	if v.set {
		return fmt.Errorf("%s option can be used once only", v.name)
	}

	if value == "" {
		return fmt.Errorf("%s argument can not be empty", v.name)
	}

	v.value = value
	v.set = true

	return nil
}

// Type implements `pflag.Value`
func (v *onceValue) Type() string {
	return "string"
}

// IsSet returns true once a value was assigned
func (v *onceValue) IsSet() bool {
	return v.set
}
