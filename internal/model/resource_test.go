package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	r := NewResource("/test/resource", "test content")

	assert.Equal(t, "/test/resource", r.Path)
	require.NotNil(t, r.Content)
	assert.Equal(t, "test content", *r.Content)
	assert.Equal(t, int64(12), r.Size)
	assert.Equal(t, DefaultOwnerID, r.OwnerID)
	assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	assert.Equal(t, time.UTC, r.CreatedAt.Location())
}

func TestNewResource_SizeIsByteLength(t *testing.T) {
	r := NewResource("/utf8", "héllo")
	assert.Equal(t, int64(6), r.Size)
}

func TestResource_Folder(t *testing.T) {
	assert.Equal(t, "/folder/subfolder", NewResource("/folder/subfolder/resource", "c").Folder())
	assert.Equal(t, "/", NewResource("/resource", "c").Folder())
}

func TestResource_Text(t *testing.T) {
	assert.Equal(t, "", (&Resource{Path: "/empty"}).Text())
	assert.Equal(t, "x", NewResource("/x", "x").Text())
}

func TestNow_MillisecondPrecision(t *testing.T) {
	now := Now()
	assert.Zero(t, now.Nanosecond()%int(time.Millisecond))
}
