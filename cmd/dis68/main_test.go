package main

import (
	"strings"
	"testing"

	"github.com/Urethramancer/musa68k/internal/test"
)

// moveq #1,d0; addq.l #1,d0; bra.s -4
var loop = []byte{0x70, 0x01, 0x52, 0x80, 0x60, 0xFC}

func TestList(t *testing.T) {
	tests := []struct {
		base  uint32
		start uint32
		count int
		want  string
	}{
		{0x000000, 0, 0, "000000  moveq    #1,d0\n000002  addq.l   #1,d0\n000004  bra.s    $000002\n"},
		{0x000400, 2, 1, "000402  addq.l   #1,d0\n"},
		{0x01FFFE, 0, 2, "01FFFE  moveq    #1,d0\n020000  addq.l   #1,d0\n"},
	}

	for _, tc := range tests {
		var out strings.Builder
		err := list(&out, loop, tc.base, tc.start, tc.count)
		test.ExpectEquality(t, err, nil)
		test.ExpectEquality(t, out.String(), tc.want)
	}
}

func TestListErrors(t *testing.T) {
	var out strings.Builder
	test.ExpectFailure(t, list(&out, loop, 0, 1, 0))
	test.ExpectFailure(t, list(&out, loop, 0, 6, 0))
	test.ExpectFailure(t, list(&out, loop, 0xFFFFFE, 0, 0))
	test.ExpectFailure(t, list(&out, nil, 0, 0, 0))
}
