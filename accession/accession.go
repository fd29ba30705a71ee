// Copyright © 2025 The phyring authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package accession provides canonicalization
// of genome accession identifiers,
// so that identifiers from different sources
// (tree tip labels, matrix rows)
// can be compared directly.
package accession

import (
	"regexp"
	"strings"
)

// VersionRE matches a versioned assembly accession
// such as "GCF_000123456.1" or "GCA_000123456.2".
// The first group is the accession without its version suffix.
var versionRE = regexp.MustCompile(`^(GC[AF]_\d+)\.\d+$`)

// Normalize returns the canonical form of a genome accession.
// Runs of white spaces are replaced by a single underscore,
// a single surrounding quote (either ' or ") is removed,
// and the result is upper cased.
// If dropVersion is true,
// a trailing assembly version suffix
// (e.g. ".1" in "GCF_000123456.1")
// is removed,
// so that different versions of the same assembly
// are treated as the same genome.
//
// Normalize is total:
// any input produces some key,
// and malformed identifiers are only detected later,
// when keys fail to match.
func Normalize(raw string, dropVersion bool) string {
	s := strings.Join(strings.Fields(raw), "_")
	s = trimQuote(s)
	s = strings.ToUpper(s)
	if dropVersion {
		if m := versionRE.FindStringSubmatch(s); m != nil {
			s = m[1]
		}
	}
	return s
}

// TrimQuote removes a single leading
// and a single trailing quote character.
func trimQuote(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}
