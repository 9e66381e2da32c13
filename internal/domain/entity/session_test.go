package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSession_DefaultState(t *testing.T) {
	s := NewSession("tg:1")
	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, "tg:1", s.Key)
	require.Nil(t, s.Route)
}

func TestSession_SetState(t *testing.T) {
	s := NewSession("web:a")
	s.SetState(StateUploading)
	require.Equal(t, StateUploading, s.State)
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession("web:a")
	route := VisualSearchRoute("P1")
	s.Route = &route

	cp := s.Clone()
	cp.SetState(StateUploading)
	cp.Route.Query = "visual-P2"

	require.Equal(t, StateMainMenu, s.State)
	require.Equal(t, "visual-P1", s.Route.Query)
}
