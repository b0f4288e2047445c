package resourcepath

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/path/", "/path"},
		{"/path", "/path"},
		{"/path/to/resource", "/path/to/resource"},
		{"/path//", "/path"},
		{"//", "/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, p := range []string{"/", "/a", "/a/", "/a/b/c/", "/x/y"} {
		once := Normalize(p)
		assert.Equal(t, once, Normalize(once), "path %q", p)
	}
}

func TestValidate(t *testing.T) {
	long := strings.Repeat("n", DefaultMaxNameLength)

	tests := []struct {
		name       string
		path       string
		wantReason string
	}{
		{name: "root", path: "/"},
		{name: "single segment", path: "/resource"},
		{name: "nested", path: "/folder/resource"},
		{name: "max depth", path: "/a/b/c/d/e"},
		{name: "max name length", path: "/" + long},
		{name: "empty", path: "", wantReason: "Path cannot be empty"},
		{name: "no leading slash", path: "no-leading-slash", wantReason: "Path must start with '/'"},
		{name: "too deep", path: "/a/b/c/d/e/f", wantReason: "Maximum folder depth is 5"},
		{name: "name too long", path: "/" + long + "x", wantReason: "Resource name cannot exceed 100 characters"},
		{name: "dot dot", path: "/a/../b", wantReason: "Invalid characters in path"},
		{name: "dot dot inside segment", path: "/a/x..y", wantReason: "Invalid characters in path"},
		{name: "null byte", path: "/a/b\x00c", wantReason: "Invalid characters in path"},
		{name: "less than", path: "/a<b", wantReason: "Path contains reserved characters"},
		{name: "greater than", path: "/a>b", wantReason: "Path contains reserved characters"},
		{name: "colon", path: "/a:b", wantReason: "Path contains reserved characters"},
		{name: "quote", path: `/a"b`, wantReason: "Path contains reserved characters"},
		{name: "pipe", path: "/a|b", wantReason: "Path contains reserved characters"},
		{name: "question mark", path: "/a?b", wantReason: "Path contains reserved characters"},
		{name: "asterisk", path: "/a*b", wantReason: "Path contains reserved characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.path)
			if tt.wantReason == "" {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantReason, verr.Reason)
			assert.Equal(t, FieldPath, verr.Field)
		})
	}
}

func TestValidate_FailsFastInOrder(t *testing.T) {
	// Too deep and reserved characters: depth is checked first.
	err := Validate("/a/b/c/d/e/f*")
	require.Error(t, err)
	assert.Equal(t, "Maximum folder depth is 5", err.Error())

	// Long name and reserved characters: length is checked first.
	err = Validate("/" + strings.Repeat("?", DefaultMaxNameLength+1))
	require.Error(t, err)
	assert.Equal(t, "Resource name cannot exceed 100 characters", err.Error())
}

func TestValidator_CustomLimits(t *testing.T) {
	v := Validator{MaxDepth: 2, MaxNameLength: 3}

	assert.NoError(t, v.Validate("/abc/def"))
	assert.EqualError(t, v.Validate("/a/b/c"), "Maximum folder depth is 2")
	assert.EqualError(t, v.Validate("/abcd"), "Resource name cannot exceed 3 characters")
}

func TestValidateContentSize(t *testing.T) {
	assert.NoError(t, ValidateContentSize("small content", DefaultMaxContentSize))
	assert.NoError(t, ValidateContentSize(strings.Repeat("x", DefaultMaxContentSize), DefaultMaxContentSize))

	err := ValidateContentSize(strings.Repeat("x", DefaultMaxContentSize+1), DefaultMaxContentSize)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Content size cannot exceed 5242880 bytes", verr.Reason)
	assert.Equal(t, FieldContent, verr.Field)
}

func TestValidateContentSize_CountsBytes(t *testing.T) {
	// "é" is two bytes in UTF-8.
	content := strings.Repeat("é", 3)

	assert.NoError(t, ValidateContentSize(content, 6))
	assert.Error(t, ValidateContentSize(content, 5))
}

func TestFolderOf(t *testing.T) {
	assert.Equal(t, "/folder/subfolder", FolderOf("/folder/subfolder/resource"))
	assert.Equal(t, "/", FolderOf("/resource"))
	assert.Equal(t, "/", FolderOf("/"))
	assert.Equal(t, "/", FolderOf("resource"))
}

func TestSegments(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Segments("/a/b/c"))
	assert.Equal(t, []string{"a", "b"}, Segments("/a//b/"))
	assert.Empty(t, Segments("/"))
}

func TestChildOf(t *testing.T) {
	tests := []struct {
		folder string
		path   string
		want   string
		wantOK bool
	}{
		{"/a/b", "/a/b/x", "/a/b/x", true},
		{"/a/b", "/a/b/y/z", "/a/b/y", true},
		{"/a/b", "/a/b", "", false},
		{"/a/b", "/a/bc/x", "", false},
		{"/a/b", "/other", "", false},
		{"/", "/x", "/x", true},
		{"/", "/a/b/c", "/a", true},
		{"", "/a/b", "/a", true},
		{"/a", "/a//b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.folder+"|"+tt.path, func(t *testing.T) {
			got, ok := ChildOf(tt.folder, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
