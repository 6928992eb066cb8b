package version

import (
	"errors"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/where"
	"github.com/metafates/gache"
)

// ErrUnknownMpvVersion is returned when mpv runs but does not report a release number,
// which is the case for most builds from git.
var ErrUnknownMpvVersion = errors.New("unknown mpv version")

// mpvCacher remembers the detected version per executable path.
var mpvCacher = gache.New[map[string]string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "mpv-version.json"),
	Lifetime:   time.Hour * 24,
	FileSystem: &filesystem.GacheFs{},
})

var mpvVersionPattern = regexp.MustCompile(`^mpv v?(\d+\.\d+\.\d+)`)

// run executes the mpv binary. Tests replace it.
var run = func(path string) ([]byte, error) {
	return exec.Command(path, "--version").Output()
}

// Mpv returns the version of the mpv executable at path.
func Mpv(path string) (string, error) {
	cached, expired, err := mpvCacher.Get()
	if err == nil && !expired && cached != nil {
		if v, ok := cached[path]; ok {
			return v, nil
		}
	}
	if cached == nil || expired {
		cached = make(map[string]string)
	}

	out, err := run(path)
	if err != nil {
		return "", err
	}

	v, err := ParseMpv(string(out))
	if err != nil {
		return "", err
	}

	cached[path] = v
	_ = mpvCacher.Set(cached)
	return v, nil
}

// ParseMpv extracts the release number from the output of mpv --version.
func ParseMpv(output string) (string, error) {
	match := mpvVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", ErrUnknownMpvVersion
	}
	return match[1], nil
}

// Supported reports whether v is at least min.
func Supported(v, min string) bool {
	comp, err := Compare(v, min)
	return err == nil && comp >= 0
}
