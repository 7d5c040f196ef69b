// Package versionid splits Ensembl-style versioned identifiers such as
// ENST00000456328.2 into their stable ID and their integer version.
package versionid

import (
	"fmt"
	"strconv"
	"strings"
)

// Versioned is a stable identifier together with its version.
type Versioned struct {
	ID      string
	Version int
}

func (v Versioned) String() string {
	return v.ID + "." + strconv.Itoa(v.Version)
}

// Reason describes why an identifier could not be split.
type Reason int

const (
	NoPeriod Reason = iota + 1
	EmptyID
	BadVersion
)

func (r Reason) String() string {
	switch r {
	case NoPeriod:
		return "has no version suffix"
	case EmptyID:
		return "has an empty stable ID"
	case BadVersion:
		return "has a version that is not an integer"
	}

	return "is malformed"
}

// Error is returned for identifiers that are not of the form <id>.<integer>.
type Error struct {
	Identifier string
	Reason     Reason
}

func (e *Error) Error() string {
	return fmt.Sprintf("identifier %q %s", e.Identifier, e.Reason)
}

// Split separates identifier at its first period. Everything after that
// period must be a base-10 integer, so "A.1.2" is rejected rather than
// silently truncated.
func Split(identifier string) (Versioned, error) {
	id, version, found := strings.Cut(identifier, ".")
	if !found {
		return Versioned{}, &Error{Identifier: identifier, Reason: NoPeriod}
	}
	if id == "" {
		return Versioned{}, &Error{Identifier: identifier, Reason: EmptyID}
	}

	v, err := strconv.Atoi(version)
	if err != nil {
		return Versioned{}, &Error{Identifier: identifier, Reason: BadVersion}
	}

	return Versioned{ID: id, Version: v}, nil
}
