package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadParams reads a parameter file. Files ending in .yaml or .yml hold a
// flat name: value mapping; anything else is the line format
//
//	# comment
//	MASS        0.1
//	GRAVITY     9.81
func LoadParams(path string) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrParamFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(f)
	default:
		return ParseParams(f)
	}
}

// ParseParams parses the line format.
func ParseParams(r io.Reader) (Params, error) {
	p := make(Params)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedParam, line, text)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s: %v", ErrMalformedParam, line, fields[0], err)
		}
		p[fields[0]] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeYAML(r io.Reader) (Params, error) {
	p := make(Params)
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedParam, err)
	}
	return p, nil
}

// SaveParams writes p in the line format, sorted by name.
func SaveParams(path string, p Params) error {
	var b strings.Builder
	for _, n := range p.Names() {
		fmt.Fprintf(&b, "%-28s %s\n", n, strconv.FormatFloat(p[n], 'g', -1, 64))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
