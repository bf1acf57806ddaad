// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExt(t *testing.T) {
	assert.Equal(t, "txt", Ext("/x/y.txt"))
	assert.Equal(t, "gz", Ext("archive.tar.gz"))
	assert.Equal(t, "", Ext("/x/y"))
}

func TestTrimExt(t *testing.T) {
	assert.Equal(t, "/x/y", TrimExt("/x/y.txt"))
	assert.Equal(t, "archive.tar", TrimExt("archive.tar.gz"))
	assert.Equal(t, "/x/y", TrimExt("/x/y"))
}

func TestTrimProtocol(t *testing.T) {
	assert.Equal(t, "/x/y", TrimProtocol("file:///x/y"))
	assert.Equal(t, "bucket/key", TrimProtocol("s3://bucket/key"))
	assert.Equal(t, "/x/y", TrimProtocol("/x/y"))
}

func TestExpandWith(t *testing.T) {
	home := "/home/u"

	expanded, err := ExpandWith("~/x", home)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/x", expanded)

	expanded, err = ExpandWith("~", home)
	require.NoError(t, err)
	assert.Equal(t, home, expanded)

	expanded, err = ExpandWith("/x/y", home)
	require.NoError(t, err)
	assert.Equal(t, "/x/y", expanded)

	_, err = ExpandWith("", home)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ExpandWith("~/x/~", home)
	assert.ErrorIs(t, err, ErrMultipleHomeTilde)

	_, err = ExpandWith("~user/x", home)
	assert.ErrorIs(t, err, ErrInvalidHomeExpansion)
}

func TestJoinClean(t *testing.T) {
	assert.Equal(t, "/x/y", Join("/x", "y"))
	assert.Equal(t, "/x/z", Clean("/x/./y/../z"))
	assert.Equal(t, ".", Clean(""))
}
