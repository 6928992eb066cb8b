package resolve

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/clipview/clipview/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRedirectResolver(t *testing.T) {
	Convey("Given the default redirect resolver", t, func() {
		Convey("It embeds the video id into the redirect endpoint", func() {
			u, err := Resolve("https://example.com/watch?v=ABC123", RemoteRedirect)
			So(err, ShouldBeNil)
			So(u, ShouldEqual, DefaultRedirectEndpoint+"?v=ABC123")
		})

		Convey("It ignores unrelated query parameters", func() {
			u, err := Resolve("https://www.youtube.com/watch?list=PL1&v=xyz&t=42", RemoteRedirect)
			So(err, ShouldBeNil)
			So(u, ShouldContainSubstring, "v=xyz")
			So(u, ShouldNotContainSubstring, "list=")
		})

		Convey("It rejects a descriptor that is not a URL", func() {
			_, err := Resolve("not-a-url", RemoteRedirect)
			So(errors.Is(err, ErrInvalidSourceURL), ShouldBeTrue)

			var invalid *InvalidSourceError
			So(errors.As(err, &invalid), ShouldBeTrue)
			So(invalid.Descriptor, ShouldEqual, "not-a-url")
			So(invalid.Variant, ShouldEqual, RemoteRedirect)
		})

		Convey("It rejects a URL without the id parameter", func() {
			_, err := Resolve("https://example.com/watch?list=PL1", RemoteRedirect)
			So(errors.Is(err, ErrInvalidSourceURL), ShouldBeTrue)
		})

		Convey("It is deterministic", func() {
			a, errA := Resolve("https://example.com/watch?v=same", RemoteRedirect)
			b, errB := Resolve("https://example.com/watch?v=same", RemoteRedirect)
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a, ShouldEqual, b)
		})
	})

	Convey("Given a custom endpoint", t, func() {
		r := lo.Must(NewRedirectResolver("https://proxy.example.org/r?fmt=mp4", "id"))

		Convey("Existing endpoint parameters are kept", func() {
			u, err := r.Resolve("https://host.example/page?id=42")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://proxy.example.org/r?fmt=mp4&id=42")
		})

		Convey("A relative endpoint is refused", func() {
			_, err := NewRedirectResolver("/redirect", "v")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFileResolver(t *testing.T) {
	Convey("The local-file variant ignores the descriptor", t, func() {
		a, err := Resolve("https://example.com/watch?v=ABC123", LocalFile)
		So(err, ShouldBeNil)
		b, err := Resolve("garbage", LocalFile)
		So(err, ShouldBeNil)
		So(a, ShouldEqual, DefaultLocalFile)
		So(b, ShouldEqual, a)
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the registry", t, func() {
		Convey("Built-in variants are known", func() {
			So(Known(RemoteRedirect), ShouldBeTrue)
			So(Known(LocalFile), ShouldBeTrue)
			So(Variants(), ShouldContain, LocalFile)
		})

		Convey("Unknown variants fail", func() {
			_, err := Resolve("x", Variant("carrier-pigeon"))
			So(errors.Is(err, ErrUnknownVariant), ShouldBeTrue)
		})

		Convey("Built-in variants cannot be shadowed", func() {
			err := Register(LocalFile, Func(func(string) (string, error) { return "", nil }))
			So(err, ShouldNotBeNil)
		})
	})
}

const mirrorScript = `
local prefix = "https://mirror.example/"

function Resolve(descriptor)
	local id = string.match(descriptor, "^clip:(%w+)$")
	if id == nil then
		return nil, "expected clip:<id>"
	end
	return prefix .. id .. ".mp4"
end
`

func TestScriptResolver(t *testing.T) {
	Convey("Given a Lua resolver script", t, func() {
		script, err := CompileScript("mirror", "mirror.lua", mirrorScript)
		So(err, ShouldBeNil)

		Convey("It resolves matching descriptors", func() {
			u, err := script.Resolve("clip:abc")
			So(err, ShouldBeNil)
			So(u, ShouldEqual, "https://mirror.example/abc.mp4")
		})

		Convey("The script's message becomes the failure reason", func() {
			_, err := script.Resolve("https://example.com")
			So(errors.Is(err, ErrInvalidSourceURL), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "expected clip:<id>")
		})

		Convey("Global state does not leak between calls", func() {
			counter, err := CompileScript("counter", "counter.lua", `
				n = 0
				function Resolve(d)
					n = n + 1
					return d .. "#" .. n
				end`)
			So(err, ShouldBeNil)
			a, _ := counter.Resolve("x")
			b, _ := counter.Resolve("x")
			So(a, ShouldEqual, "x#1")
			So(b, ShouldEqual, a)
		})

		Convey("File access is not available", func() {
			sneaky, err := CompileScript("sneaky", "sneaky.lua", `
				function Resolve(d)
					return dofile("/etc/passwd")
				end`)
			So(err, ShouldBeNil)
			_, err = sneaky.Resolve("x")
			So(errors.Is(err, ErrInvalidSourceURL), ShouldBeTrue)
		})
	})

	Convey("A script without Resolve is rejected", t, func() {
		_, err := CompileScript("empty", "empty.lua", `local x = 1`)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a directory of scripts", t, func() {
		dir := "/resolvers"
		fs := filesystem.API()
		So(fs.MkdirAll(dir, 0o755), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(dir, "mirror.lua"), []byte(mirrorScript), 0o644), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(dir, "broken.lua"), []byte(`function (`), 0o644), ShouldBeNil)
		So(fs.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644), ShouldBeNil)

		loaded, err := LoadScripts(dir)
		So(err, ShouldBeNil)
		So(loaded, ShouldResemble, []Variant{"mirror"})
		So(Known("mirror"), ShouldBeTrue)

		u, err := Resolve("clip:z9", "mirror")
		So(err, ShouldBeNil)
		So(u, ShouldEqual, "https://mirror.example/z9.mp4")
	})
}
