package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type writerSettings struct {
	prefixWidth int
	label       string
	huffman     bool
}

var errBadWidth = errors.New("prefix width out of range")

func withPrefixWidth(n int) Option[*writerSettings] {
	return New(func(s *writerSettings) error {
		if n < 1 || n > 8 {
			return errBadWidth
		}
		s.prefixWidth = n

		return nil
	})
}

func withLabel(label string) Option[*writerSettings] {
	return NoError(func(s *writerSettings) {
		s.label = label
	})
}

func withHuffman(enabled bool) Option[*writerSettings] {
	return NoError(func(s *writerSettings) {
		s.huffman = enabled
	})
}

func TestNew(t *testing.T) {
	s := &writerSettings{}

	require.NoError(t, withPrefixWidth(5).apply(s))
	require.Equal(t, 5, s.prefixWidth)

	err := withPrefixWidth(9).apply(s)
	require.ErrorIs(t, err, errBadWidth)
	require.Equal(t, 5, s.prefixWidth, "a rejected option must not change the target")
}

func TestNoError(t *testing.T) {
	s := &writerSettings{}

	require.NoError(t, withLabel("encoder").apply(s))
	require.NoError(t, withHuffman(true).apply(s))
	require.Equal(t, "encoder", s.label)
	require.True(t, s.huffman)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		s := &writerSettings{}
		err := Apply(s, withLabel("first"), withPrefixWidth(7), withLabel("second"))
		require.NoError(t, err)
		require.Equal(t, "second", s.label)
		require.Equal(t, 7, s.prefixWidth)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		s := &writerSettings{}
		err := Apply(s, withPrefixWidth(3), withPrefixWidth(0), withLabel("skipped"))
		require.ErrorIs(t, err, errBadWidth)
		require.Equal(t, 3, s.prefixWidth)
		require.Empty(t, s.label)
	})

	t.Run("no options", func(t *testing.T) {
		s := &writerSettings{}
		require.NoError(t, Apply(s))
		require.Equal(t, writerSettings{}, *s)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		s := &writerSettings{}
		require.NoError(t, Apply(s, nil, withHuffman(true)))
		require.True(t, s.huffman)
	})
}

func TestGenericTargets(t *testing.T) {
	var width int
	opt := NoError(func(n *int) { *n = 6 })

	require.NoError(t, Apply[*int](&width, opt))
	require.Equal(t, 6, width)
}
