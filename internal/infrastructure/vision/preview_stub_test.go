//go:build !gocv
// +build !gocv

package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoCVPreviewer_StubReportsMissingTag(t *testing.T) {
	_, err := NewGoCVPreviewer().Render([]byte("x"), nil)
	require.ErrorIs(t, err, ErrNoGoCV)
}
