package main

import "strconv"

// boolFlag is a tri-state bool for PUT-style partial updates: unset flags
// stay nil so the server leaves the field unchanged.
type boolFlag struct {
	value *bool
}

func (b *boolFlag) String() string {
	if b.value == nil {
		return ""
	}
	return strconv.FormatBool(*b.value)
}

func (b *boolFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.value = &v
	return nil
}

func (b *boolFlag) Type() string { return "bool" }
