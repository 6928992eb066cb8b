package icon

import (
	"testing"

	"github.com/clipview/clipview/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Every registered icon", t, func() {
		for i := range icons {
			for _, variant := range AvailableVariants() {
				viper.Set(key.IconsVariant, variant)
				So(Get(i), ShouldNotBeEmpty)
			}
		}

		Convey("renders empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(Loop), ShouldBeEmpty)
		})
	})
}
