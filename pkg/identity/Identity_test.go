// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package identity

import (
	"os/user"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserNameFallback(t *testing.T) {
	// No host should have a user with the maximum uid.
	assert.Equal(t, "4294967295", UserName(4294967295))
}

func TestGroupNameFallback(t *testing.T) {
	assert.Equal(t, "4294967295", GroupName(4294967295))
}

func TestCurrent(t *testing.T) {
	uid, gid, err := Current()
	require.NoError(t, err)

	u, err := user.Current()
	require.NoError(t, err)
	assert.Equal(t, u.Uid, strconv.FormatUint(uint64(uid), 10))
	assert.Equal(t, u.Gid, strconv.FormatUint(uint64(gid), 10))
}

func TestLookupUser(t *testing.T) {
	u, err := user.Current()
	require.NoError(t, err)

	uid, _, err := LookupUser(u.Username)
	require.NoError(t, err)
	assert.Equal(t, u.Uid, strconv.FormatUint(uint64(uid), 10))

	_, _, err = LookupUser("no-such-user-floe")
	assert.Error(t, err)
}
