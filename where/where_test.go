package where

import (
	"path/filepath"
	"testing"

	"github.com/clipview/clipview/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs() and Resolvers() live under Config()", func() {
			So(filepath.Dir(Logs()), ShouldEqual, Config())
			So(filepath.Dir(Resolvers()), ShouldEqual, Config())
			So(lo.Must(filesystem.API().IsDir(Resolvers())), ShouldBeTrue)
		})

		Convey("Links() is a file in Config()", func() {
			So(filepath.Dir(Links()), ShouldEqual, Config())
			So(filepath.Base(Links()), ShouldEqual, "links.json")
		})

		Convey("Config path can be overridden", func() {
			t.Setenv(EnvConfigPath, "/custom/clipview")
			So(Config(), ShouldEqual, "/custom/clipview")
		})
	})
}
