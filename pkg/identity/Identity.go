// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

// Package identity translates numeric owner IDs to names and back via
// the host's identity services.  Backends store raw numeric IDs only;
// this package exists for rendering them.
package identity

import (
	"fmt"
	"os/user"
	"strconv"
)

// UserName returns the name for the numeric user ID, or the decimal
// form of the ID when the host cannot resolve it.
func UserName(uid uint32) string {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(uid), 10)
	}
	return u.Username
}

// GroupName returns the name for the numeric group ID, or the decimal
// form of the ID when the host cannot resolve it.
func GroupName(gid uint32) string {
	g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10))
	if err != nil {
		return strconv.FormatUint(uint64(gid), 10)
	}
	return g.Name
}

// LookupUser returns the numeric IDs for a user name.
func LookupUser(name string) (uint32, uint32, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, 0, fmt.Errorf("error looking up user %q: %w", name, err)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing uid for user %q: %w", name, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing gid for user %q: %w", name, err)
	}
	return uint32(uid), uint32(gid), nil
}

// Current returns the numeric IDs of the current process owner.
func Current() (uint32, uint32, error) {
	u, err := user.Current()
	if err != nil {
		return 0, 0, fmt.Errorf("error looking up current user: %w", err)
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing current uid: %w", err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing current gid: %w", err)
	}
	return uint32(uid), uint32(gid), nil
}
