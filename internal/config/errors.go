package config

import "fmt"

type UnknownPresetError struct {
	Name string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("preset %q not found in configuration", e.Name)
}

type UnknownProfileError struct {
	Preset  string
	Profile string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("preset %q references unknown profile %q", e.Preset, e.Profile)
}
