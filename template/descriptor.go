package template

import (
	"fmt"
	"net/url"
	"strconv"
)

// LegacyTemplateKey is the key the template image ends up under when a whole
// "https://pxls.space/#template=..." link is parsed as a query string.
const LegacyTemplateKey = "https://pxls.space/#template"

// Descriptor holds the parameters of a template link.
type Descriptor struct {
	// Template is the URL of the template image.
	Template string
	// Width is the width of the template in canvas pixels.
	Width int
	// X and Y are the canvas coordinates of the top-left corner.
	X, Y int
}

type schema struct {
	name        string
	templateKey string
}

// Template links are accepted in two forms, with the image either under a
// plain "template" key or under LegacyTemplateKey. The other keys are common
// to both.
var schemas = []schema{
	{"direct", "template"},
	{"legacy", LegacyTemplateKey},
}

// first returns the first non-blank value of key. Blank values are treated
// as if the key were absent.
func first(v url.Values, key string) (string, error) {
	for _, s := range v[key] {
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrMissingField, key)
}

func firstInt(v url.Values, key string) (int, error) {
	s, err := first(v, key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrParse, key, err)
	}
	return i, nil
}

func (s schema) parse(v url.Values) (Descriptor, error) {
	var (
		d   Descriptor
		err error
	)
	if d.Template, err = first(v, s.templateKey); err != nil {
		return Descriptor{}, err
	}
	if d.Width, err = firstInt(v, "tw"); err != nil {
		return Descriptor{}, err
	}
	if d.X, err = firstInt(v, "ox"); err != nil {
		return Descriptor{}, err
	}
	if d.Y, err = firstInt(v, "oy"); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// ParseDescriptor parses a template link. The link is treated as a query
// string in its entirety, so both "template=...&tw=..." and
// "https://pxls.space/#template=...&tw=..." are understood. Malformed pairs
// the link does not need, such as a title containing a bare ';', are
// skipped.
func ParseDescriptor(link string) (Descriptor, error) {
	v, qerr := url.ParseQuery(link)

	for _, s := range schemas {
		if _, err := first(v, s.templateKey); err != nil {
			continue
		}
		d, err := s.parse(v)
		if err != nil && qerr != nil {
			return Descriptor{}, fmt.Errorf("%w: %v", ErrParse, qerr)
		}
		return d, err
	}

	if qerr != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrParse, qerr)
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrMissingField, schemas[0].templateKey)
}
