// Package common holds small value types shared between the wire protocol
// and the database/sql driver layer.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// HDBVersion is a parsed "major.minor.patch.build"-style HANA server
// version string, comparable field by field.
type HDBVersion struct {
	Major, Minor, Patch, Build int
}

// ParseHDBVersion parses a version string such as "2.00.042.00.1575639942".
// Unparseable or missing trailing components are left at zero rather than
// rejected, since the server's version string format has grown additional
// components across releases.
func ParseHDBVersion(s string) HDBVersion {
	var v HDBVersion
	parts := strings.Split(s, ".")
	fields := []*int{&v.Major, &v.Minor, &v.Patch, &v.Build}
	for i, f := range fields {
		if i >= len(parts) {
			break
		}
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			break
		}
		*f = n
	}
	return v
}

func (v HDBVersion) String() string {
	return fmt.Sprintf("%d.%02d.%03d.%02d", v.Major, v.Minor, v.Patch, v.Build)
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than o.
func (v HDBVersion) Compare(o HDBVersion) int {
	for _, pair := range [][2]int{{v.Major, o.Major}, {v.Minor, o.Minor}, {v.Patch, o.Patch}, {v.Build, o.Build}} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}
