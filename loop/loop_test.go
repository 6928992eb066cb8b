package loop

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTransitions(t *testing.T) {
	Convey("Given an idle range", t, func() {
		r := Idle()
		So(r.Active, ShouldBeFalse)
		So(r.Start.IsPresent(), ShouldBeFalse)
		So(r.End.IsPresent(), ShouldBeFalse)

		Convey("Begin activates with the given bounds", func() {
			r = r.Begin(10, 20)
			start, end, ok := r.Bounds()
			So(ok, ShouldBeTrue)
			So(start, ShouldEqual, 10)
			So(end, ShouldEqual, 20)

			Convey("Update replaces the bounds while active", func() {
				r = r.Update(3, 4)
				So(r, ShouldResemble, Looping(3, 4))
			})

			Convey("Stop returns to idle with cleared bounds", func() {
				r = r.Stop()
				So(r, ShouldResemble, Idle())
			})
		})

		Convey("Update does not activate looping", func() {
			So(r.Update(1, 2), ShouldResemble, Idle())
		})

		Convey("Begin then Stop is idle regardless of intervening edits", func() {
			r = r.Begin(1, 2).Update(5, 6).Update(7, 8).Stop()
			So(r, ShouldResemble, Idle())
		})

		Convey("The zero value is idle", func() {
			So(Range{}, ShouldResemble, Idle())
		})
	})
}

func TestEnforce(t *testing.T) {
	Convey("Given Looping(10, 20)", t, func() {
		r := Looping(10, 20)

		Convey("A position before the end does nothing", func() {
			_, ok := r.Enforce(19.99)
			So(ok, ShouldBeFalse)
		})

		Convey("A position at the end seeks to the start", func() {
			seekTo, ok := r.Enforce(20)
			So(ok, ShouldBeTrue)
			So(seekTo, ShouldEqual, 10)
		})

		Convey("A position past the end seeks exactly to the start", func() {
			seekTo, ok := r.Enforce(20.5)
			So(ok, ShouldBeTrue)
			So(seekTo, ShouldEqual, 10)

			seekTo, ok = r.Enforce(500)
			So(ok, ShouldBeTrue)
			So(seekTo, ShouldEqual, 10)
		})

		Convey("Positions before the start are left alone", func() {
			_, ok := r.Enforce(2)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("An inverted range seeks back on every tick", t, func() {
		r := Looping(30, 5)
		seekTo, ok := r.Enforce(30)
		So(ok, ShouldBeTrue)
		So(seekTo, ShouldEqual, 30)
	})

	Convey("An idle range never seeks", t, func() {
		_, ok := Idle().Enforce(1e9)
		So(ok, ShouldBeFalse)
	})
}

func TestString(t *testing.T) {
	Convey("String", t, func() {
		So(Idle().String(), ShouldEqual, "idle")
		So(Looping(1.5, 20).String(), ShouldEqual, "looping 1.5-20")
	})
}
