package main

import (
	"github.com/clipview/clipview/cmd"
	"github.com/clipview/clipview/config"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/resolve"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	lo.Must0(resolve.Setup())

	cmd.Execute()
}
