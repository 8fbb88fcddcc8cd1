package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDefaultDesign(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	s := out.String()
	require.Contains(t, s, "type 1 symmetric, 31 taps")
	require.Contains(t, s, "delta ")
	// Header plus one row per tap.
	require.Equal(t, 31+1, strings.Count(s[strings.Index(s, "h[n]"):], "\n"))
}

func TestRunSampleRateAndResponse(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-taps", "25", "-bands", "0,4000,6000,24000", "-fs", "48000", "-response", "5"}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	require.Contains(t, out.String(), "|H| [dB]")
	require.Contains(t, out.String(), "24000.0000")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"bad flag", []string{"-nope"}, 2, "flag provided but not defined"},
		{"bad list", []string{"-bands", "0,x"}, 2, "-bands"},
		{"bad class", []string{"-class", "odd"}, 2, "unknown class"},
		{"design error", []string{"-bands", "0,0.3,0.2,0.5"}, 1, "nondecreasing"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			require.Equal(t, tc.code, run(tc.args, &out, &errOut))
			require.Contains(t, errOut.String(), tc.msg)
		})
	}
}

func TestParseList(t *testing.T) {
	v, err := parseList(" 0, 0.25 ,0.5,")
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.25, 0.5}, v)
}
