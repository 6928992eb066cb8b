package history

import (
	"testing"

	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/loop"
	"github.com/clipview/clipview/option"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		naruto := option.Default()
		naruto.SourceURL = "https://www.youtube.com/watch?v=naruto"
		naruto.Loop = loop.Looping(3, 8)

		bleach := option.Default()
		bleach.SourceURL = "https://www.youtube.com/watch?v=bleach"

		Convey("When remembering links", func() {
			So(Remember("https://clipview.app/?a", naruto, 1), ShouldBeNil)
			So(Remember("https://clipview.app/?b", bleach, 1), ShouldBeNil)
			So(Remember(" https://clipview.app/?b ", bleach, 5), ShouldBeNil)

			Convey("Then they are stored once per link", func() {
				saved, err := Get()
				So(err, ShouldBeNil)
				So(saved, ShouldHaveLength, 2)
				So(saved["https://clipview.app/?b"].Rank, ShouldEqual, 6)
				So(saved["https://clipview.app/?a"].Loop, ShouldEqual, "looping 3-8")
			})

			Convey("Then search ranks by use", func() {
				entries, err := Search("")
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].Source, ShouldEqual, bleach.SourceURL)
			})

			Convey("Then search matches fuzzily and ignores case", func() {
				entries, err := Search("NRT")
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
				So(entries[0].Link, ShouldEqual, "https://clipview.app/?a")
			})

			Convey("Then a removed link is gone", func() {
				So(Remove("https://clipview.app/?a"), ShouldBeNil)
				entries, err := Search("naruto")
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})
	})
}
