package normalize

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare name", "myblog", "https://myblog.substack.com/feed"},
		{"surrounding whitespace", "  myblog \n", "https://myblog.substack.com/feed"},
		{"host without scheme", "myblog.substack.com", "https://myblog.substack.com/feed"},
		{"host with trailing slash", "myblog.substack.com/", "https://myblog.substack.com/feed"},
		{"full url", "https://myblog.substack.com", "https://myblog.substack.com/feed"},
		{"http kept", "http://myblog.substack.com/", "http://myblog.substack.com/feed"},
		{"already has suffix", "https://myblog.substack.com/feed", "https://myblog.substack.com/feed"},
		{"suffix with trailing slash", "https://myblog.substack.com/feed/", "https://myblog.substack.com/feed"},
		{"query and fragment dropped", "https://myblog.substack.com/?utm=x#top", "https://myblog.substack.com/feed"},
		{"port kept", "https://myblog.substack.com:8443", "https://myblog.substack.com:8443/feed"},
		{"uppercase scheme", "HTTPS://myblog.substack.com", "https://myblog.substack.com/feed"},
		{"mixed case domain token", "MyBlog.Substack.com", "https://MyBlog.Substack.com/feed"},
		{"bare name with slash", "myblog/", "https://myblog.substack.com/feed"},
		{"nested path", "substack.com/@writer", "https://substack.com/@writer/feed"},
		{"bare name with path", "myblog/archive", "https://myblog.substack.com/archive/feed"},
		{"bare name with query", "myblog?ref=x", "https://myblog.substack.com/feed"},
		{"bare name with fragment", "myblog#top", "https://myblog.substack.com/feed"},
		{"scheme without token", "https://myblog/archive", "https://myblog.substack.com/archive/feed"},
		{"address literal stays under platform", "169.254.169.254/latest", "https://169.254.169.254.substack.com/latest/feed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	for _, in := range []string{"", " ", "\t\n  "} {
		assert.Empty(t, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Unparseable(t *testing.T) {
	assert.Empty(t, Normalize("my blog"))
	assert.Empty(t, Normalize("https://"+PlatformDomain+"%zz"))
	assert.Empty(t, Normalize("/archive"))
	assert.Empty(t, Normalize("?ref=x"))
	assert.Empty(t, Normalize("http://127.0.0.1:8080/admin"))
}

func TestNormalize_RejectsForeignHosts(t *testing.T) {
	for _, in := range []string{
		"https://evil.example/substack.com",
		"https://substack.com@evil.example/feed",
		"https://substack.com.evil.example/feed",
		"evil.example/?next=substack.com",
	} {
		assert.Empty(t, Normalize(in), "input %q", in)
	}
}

func TestNormalize_Properties(t *testing.T) {
	inputs := []string{
		"a", "writer", "news-letter", "x1", "foo.bar", "blog/",
		"https://blog.substack.com/feed", "blog.substack.com/feed/",
		"https://blog.substack.com/archive",
		"myblog/archive", "myblog?ref=x", "myblog#top", "myblog/a/b?c=d#e",
		"169.254.169.254/latest", "http://writer/", "Writer.Name",
	}
	for _, in := range inputs {
		out := Normalize(in)
		require.NotEmpty(t, out, "input %q", in)

		parsed, err := url.Parse(out)
		require.NoError(t, err)
		assert.Contains(t, []string{"http", "https"}, parsed.Scheme)
		assert.True(t, strings.HasSuffix(parsed.Path, FeedSuffix), "path %q", parsed.Path)
		assert.False(t, strings.HasSuffix(parsed.Path, FeedSuffix+FeedSuffix), "double suffix in %q", out)
		if !strings.Contains(strings.ToLower(in), PlatformDomain) {
			assert.True(t, strings.HasSuffix(parsed.Hostname(), PlatformDomain), "host %q", parsed.Host)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first := Normalize("myblog")
	assert.Equal(t, first, Normalize(first))
}
