package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2   string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"v1.0.0", "1.0.0", 0},
		{"1.0.1", "1.0.0", 1},
		{"1.0.0", "1.0.1", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},
		{"1.0.0-rc1", "1.0.0", 0},
		{"dev", "1.0.0", -1},
		{"1.0.0", "dev", 1},
		{"dev", "dev", 0},
		{"", "", 0},
		{"abc1234", "1.0.0", -1},
		{"deadbeef-dirty", "0.0.1", -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CompareVersions(tt.v1, tt.v2), "%s vs %s", tt.v1, tt.v2)
	}
}

func TestIsNewerVersion(t *testing.T) {
	assert.True(t, IsNewerVersion("1.0.0", "1.0.1"))
	assert.True(t, IsNewerVersion("dev", "0.1.0"))
	assert.False(t, IsNewerVersion("1.0.1", "1.0.0"))
	assert.False(t, IsNewerVersion("1.0.0", "1.0.0"))
}

func TestIsDevBuild(t *testing.T) {
	assert.True(t, IsDevBuild("dev"))
	assert.True(t, IsDevBuild(""))
	assert.True(t, IsDevBuild("abc1234"))
	assert.True(t, IsDevBuild("deadbeefcafe-dirty"))
	assert.False(t, IsDevBuild("1.0.0"))
	assert.False(t, IsDevBuild("v2.3.4"))
	// Pure numeric strings are versions, not hashes.
	assert.False(t, IsDevBuild("2024010100"))
}

func TestGetLatestRelease(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/mrz1836/xpubkit/releases/latest", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name": "v1.2.3", "name": "v1.2.3", "prerelease": false}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	release, err := client.GetLatestRelease(context.Background(), "mrz1836", "xpubkit")
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", release.TagName)
	assert.False(t, release.Prerelease)
}

func TestGetLatestRelease_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.GetLatestRelease(context.Background(), "mrz1836", "xpubkit")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGitHubAPIFailed)
}

func TestGetLatestRelease_InvalidInput(t *testing.T) {
	client := NewClient()

	_, err := client.GetLatestRelease(context.Background(), "", "repo")
	assert.ErrorIs(t, err, ErrInvalidOwner)

	_, err = client.GetLatestRelease(context.Background(), "owner", "")
	assert.ErrorIs(t, err, ErrInvalidRepo)

	_, err = client.GetLatestRelease(context.Background(), "owner/evil", "repo")
	assert.ErrorIs(t, err, ErrInvalidOwnerRepo)
}
