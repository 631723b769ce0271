package config

import (
	"fmt"
	"os"
)

// EnvParamFile names the environment variable holding the parameter file path.
const EnvParamFile = "HAKO_CONTROLLER_PARAM_FILE"

// ParamSource yields a fully loaded parameter set.
type ParamSource interface {
	Params() (Params, error)
}

// EnvSource loads the file named by an environment variable.
type EnvSource struct {
	// Var defaults to EnvParamFile.
	Var string
}

func (s EnvSource) Params() (Params, error) {
	name := s.Var
	if name == "" {
		name = EnvParamFile
	}
	path, ok := os.LookupEnv(name)
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrParamFileNotFound, name)
	}
	return LoadParams(path)
}

// FileSource loads a fixed path.
type FileSource string

func (s FileSource) Params() (Params, error) {
	return LoadParams(string(s))
}

// StaticSource serves an in-memory set.
type StaticSource Params

func (s StaticSource) Params() (Params, error) {
	if s == nil {
		return nil, ErrParamFileNotFound
	}
	return Params(s).Clone(), nil
}
