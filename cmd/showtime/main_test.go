package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{
		"version": false,
		"popular": false,
		"movie":   false,
		"browse":  false,
		"bot":     false,
		"mcp":     false,
		"config":  false,
	}

	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		assert.True(t, found, "subcommand %q not registered", name)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	root := newRootCmd()
	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag, "--config flag not registered")
	assert.Equal(t, "configs/showtime.yaml", flag.DefValue)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newVersionCmd()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	assert.Equal(t, "ShowTime v"+version+"\n", out.String())
}

func TestMovieCommand_RequiresOneArg(t *testing.T) {
	cmd := newMovieCmd()
	assert.Error(t, cmd.Args(cmd, []string{}), "movie command should require an id")
	assert.Error(t, cmd.Args(cmd, []string{"550", "551"}), "movie command should reject extra args")
	assert.NoError(t, cmd.Args(cmd, []string{"550"}), "movie command should accept one id")
}

func TestParseMovieID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"550", 550, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMovieID(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "parseMovieID(%q)", tt.in)
			continue
		}
		assert.NoError(t, err, "parseMovieID(%q)", tt.in)
		assert.Equal(t, tt.want, got, "parseMovieID(%q)", tt.in)
	}
}

func TestPopularCommand_Flags(t *testing.T) {
	cmd := newPopularCmd()
	for name, def := range map[string]string{"page": "1", "language": "", "posters": "false"} {
		flag := cmd.Flags().Lookup(name)
		if !assert.NotNil(t, flag, "--%s flag not registered", name) {
			continue
		}
		assert.Equal(t, def, flag.DefValue, "--%s default", name)
	}
}

func TestPopularCommand_RejectsPageZero(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"popular", "--page", "0"})
	root.SetOut(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page")
}

func TestConfigCommand_HasValidateSubcommand(t *testing.T) {
	cmd := newConfigCmd()
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "validate" {
			found = true
			break
		}
	}
	assert.True(t, found, "config command missing 'validate' subcommand")
}

// writeConfig writes a config pointing at baseURL and returns its path.
func writeConfig(t *testing.T, baseURL string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "showtime.yaml")
	content := fmt.Sprintf("tmdb:\n  api_key: test-key\n  base_url: %s\n  image_base_url: %s/t/p/w500/\n%s", baseURL, baseURL, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	err := root.Execute()
	return out.String(), err
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "https://api.themoviedb.org", "metrics:\n  listen: 127.0.0.1:9090\n")

	out, err := execute(t, "--config", path, "config", "validate")
	require.NoError(t, err)
	for _, want := range []string{"Configuration is valid", "tmdb: https://api.themoviedb.org (en-US)", "metrics: 127.0.0.1:9090"} {
		assert.Contains(t, out, want)
	}
}

func TestConfigValidate_MissingFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestMovieCommand_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/3/movie/550" || r.URL.Query().Get("api_key") != "test-key" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"id": 550, "title": "Fight Club", "overview": "Mischief.", "runtime": 139,
			"genres": [{"id": 18, "name": "drama"}], "vote_average": 8.4, "poster_path": "/p.jpg"}`))
	}))
	defer srv.Close()

	out, err := execute(t, "--config", writeConfig(t, srv.URL, ""), "movie", "550")
	require.NoError(t, err)
	for _, want := range []string{"Fight Club", "2h 19m | Drama", "Rating: 8.4/10", "Mischief.", "Poster:   " + srv.URL + "/t/p/w500/p.jpg"} {
		assert.Contains(t, out, want)
	}
}

func TestPopularCommand_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/popular":
			if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("language") != "de-DE" {
				http.Error(w, "bad query", http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"page": 2, "total_pages": 3, "results": [
				{"id": 238, "title": "Der Pate", "poster_path": "/238.png"},
				{"id": 550, "title": "Fight Club", "poster_path": "/broken.png"}]}`))
		case "/t/p/w500/238.png":
			w.Write(pngBytes(t, 4, 6))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	out, err := execute(t, "--config", writeConfig(t, srv.URL, ""),
		"popular", "--page", "2", "--language", "de-DE", "--posters")
	require.NoError(t, err)
	for _, want := range []string{"Popular · page 2 of 3", "1. Der Pate", "[4x6 png]", "2. Fight Club", "--page 3"} {
		assert.Contains(t, out, want)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Fight Club") {
			assert.NotContains(t, line, "png]", "undecodable poster should be left out")
		}
	}
}
