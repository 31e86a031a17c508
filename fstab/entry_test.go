package fstab

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	e := Entry{Source: "/host/data", Destination: "/jail/data", FSType: "nullfs", Options: "rw", Dump: 0, Pass: 2}
	assert.Equal(t, "/host/data\t/jail/data\tnullfs\trw\t0\t2", Encode(e))

	e.Options = ""
	assert.Equal(t, "/host/data\t/jail/data\tnullfs\t\t0\t2", Encode(e), "empty options keep their column")
}

func TestDecode_RoundTrip(t *testing.T) {
	entries := []Entry{
		{Source: "/host/data", Destination: "/jail/data", FSType: "nullfs", Options: "rw", Dump: 0, Pass: 0},
		{Source: "/usr/ports", Destination: "/iocage/jails/web/root/usr/ports", FSType: "nullfs", Options: "ro,noatime", Dump: 1, Pass: 2},
		{Source: "tmpfs", Destination: "/jail/tmp", FSType: "tmpfs", Options: "", Dump: 0, Pass: 0},
		{Source: "/My Files", Destination: "/jail/my files", FSType: "nullfs", Options: "ro"},
	}

	for _, e := range entries {
		line := Encode(e)
		got := Decode(line)
		require.NotNil(t, got, "Decode(%q)", line)
		assert.Equal(t, e, *got)

		withComment := line + " " + Comment("iocage", time.Now())
		got = Decode(withComment)
		require.NotNil(t, got, "Decode(%q)", withComment)
		assert.Equal(t, e, *got)
	}
}

func TestDecode_PassThroughLines(t *testing.T) {
	for _, line := range []string{
		"",
		"   ",
		"\n",
		"# Added by iocage on 2024-01-02 03:04:05",
		"lonely",
		"lonely # with a comment",
	} {
		assert.Nil(t, Decode(line), "Decode(%q)", line)
	}
}

func TestDecode_WhitespaceSeparated(t *testing.T) {
	got := Decode("/a  /b nullfs rw 0 0")
	require.NotNil(t, got)
	assert.Equal(t, Entry{Source: "/a", Destination: "/b", FSType: "nullfs", Options: "rw"}, *got)

	// Two tokens are enough to recover the destination
	got = Decode("/a /b")
	require.NotNil(t, got)
	assert.Equal(t, "/b", got.Destination)
	assert.Empty(t, got.FSType)

	got = Decode("/a /b nullfs rw x y")
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Dump)
	assert.Equal(t, 0, got.Pass)
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/a\t/b\tnullfs\trw\t0\t0 # Added by iocage on 2024-01-02 03:04:05\n", "/a\t/b\tnullfs\trw\t0\t0"},
		{"  /a\t/b\tnullfs\trw\t0\t0\t\n", "/a\t/b\tnullfs\trw\t0\t0"},
		{"# just a comment", ""},
		{"/a /b # one # two", "/a /b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripComment(tt.in), "StripComment(%q)", tt.in)
	}
}

func TestComment(t *testing.T) {
	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "# Added by iocage on 2024-03-05 06:08:09", Comment("iocage", ts))
}

func TestEntryValidate(t *testing.T) {
	valid := Entry{Source: "/a", Destination: "/b", FSType: "nullfs"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		entry Entry
		field string
	}{
		{"no source", Entry{Destination: "/b", FSType: "nullfs"}, "source"},
		{"no destination", Entry{Source: "/a", FSType: "nullfs"}, "destination"},
		{"no fstype", Entry{Source: "/a", Destination: "/b"}, "fstype"},
		{"tab in source", Entry{Source: "/a\tb", Destination: "/b", FSType: "nullfs"}, "source"},
		{"hash in destination", Entry{Source: "/a", Destination: "/b#c", FSType: "nullfs"}, "destination"},
		{"space in options", Entry{Source: "/a", Destination: "/b", FSType: "nullfs", Options: "rw, ro"}, "options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error = %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, ErrInvalidEntry)
		})
	}
}
