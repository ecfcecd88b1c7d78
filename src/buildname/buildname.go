// Package buildname turns raw CI build display names into short labels for the display.
//
// Raw names look like "Health Check of PX-trunk-PS5-EU-Debug @24876 (Node 1)": free text,
// the project identifier, " @", the changelist digits, then anything. The identifier is
// kept without its redundant "PX-" prefix and tagged with the kind of build.
package buildname

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unparsed is the changelist of a name that did not match the expected format.
const Unparsed = -1

const (
	healthPrefix = "Health: "
	deployPrefix = "Deploy: "
)

// FriendlyBuild is the display form of a build name.
type FriendlyBuild struct {
	Label      string
	Changelist int
}

// Valid reports whether the build carries a usable changelist.
// Zero and negative values never identify a real build.
func (b FriendlyBuild) Valid() bool {
	return b.Changelist > 0
}

// Interpreter parses build names for one project prefix.
type Interpreter struct {
	prefix  string
	pattern *regexp.Regexp
}

// New builds an Interpreter for the given project prefix. The prefix is uppercased;
// an empty prefix or one containing whitespace or '@' is rejected.
func New(projectPrefix string) (*Interpreter, error) {
	prefix := strings.ToUpper(strings.TrimSpace(projectPrefix))
	if prefix == "" {
		return nil, fmt.Errorf("project prefix is empty")
	}
	if strings.ContainsAny(prefix, " \t\r\n@") {
		return nil, fmt.Errorf("project prefix %q must not contain whitespace or '@'", projectPrefix)
	}

	return &Interpreter{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(` + regexp.QuoteMeta(prefix) + `\S*) @(\d+)`),
	}, nil
}

// MustNew is New for static prefixes; it panics on an invalid prefix.
func MustNew(projectPrefix string) *Interpreter {
	interp, err := New(projectPrefix)
	if err != nil {
		panic(err)
	}
	return interp
}

// Prefix returns the normalised project prefix.
func (i *Interpreter) Prefix() string {
	return i.prefix
}

// Interpret parses a raw display name. Names that do not match come back
// verbatim as the label with an Unparsed changelist.
func (i *Interpreter) Interpret(raw string) FriendlyBuild {
	matches := i.pattern.FindStringSubmatch(raw)
	if matches == nil {
		return FriendlyBuild{Label: raw, Changelist: Unparsed}
	}

	changelist, err := strconv.Atoi(matches[2])
	if err != nil {
		// digit run too long for an int
		return FriendlyBuild{Label: raw, Changelist: Unparsed}
	}

	label := strings.TrimPrefix(matches[1], i.prefix+"-")
	switch {
	case strings.Contains(raw, "Health"):
		label = healthPrefix + label
	case strings.Contains(raw, "Deploy"):
		label = deployPrefix + label
	}

	return FriendlyBuild{Label: label, Changelist: changelist}
}
