package jsonwire

import (
	"errors"
	"strconv"
	"strings"
)

// Version holds a major.minor[.build[.revision]] value.
type Version struct {
	Major, Minor  int
	Build, Rev    int
	HasBuild      bool
	HasRevision   bool
}

var errInvalidVersion = errors.New("jsonwire: invalid version")

// ParseVersion parses the string form of a Version.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, errInvalidVersion
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, errInvalidVersion
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1]}
	if len(nums) >= 3 {
		v.Build = nums[2]
		v.HasBuild = true
	}
	if len(nums) == 4 {
		v.Rev = nums[3]
		v.HasRevision = true
	}
	return v, nil
}

// String renders the version back to its major.minor[.build[.revision]] form.
func (v Version) String() string {
	s := strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
	if v.HasBuild {
		s += "." + strconv.Itoa(v.Build)
	}
	if v.HasRevision {
		s += "." + strconv.Itoa(v.Rev)
	}
	return s
}
