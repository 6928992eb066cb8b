package resolve

import (
	"github.com/clipview/clipview/key"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/where"
	"github.com/spf13/viper"
)

// Setup configures the built-in variants from the global configuration and registers user scripts.
func Setup() error {
	redirect, err := NewRedirectResolver(
		viper.GetString(key.ResolverRedirectEndpoint),
		viper.GetString(key.ResolverRedirectParam),
	)
	if err != nil {
		return err
	}

	Use(RemoteRedirect, redirect)
	Use(LocalFile, &FileResolver{Path: viper.GetString(key.ResolverLocalFile)})

	loaded, err := LoadScripts(where.Resolvers())
	if err != nil {
		return err
	}
	if len(loaded) > 0 {
		log.Infof("loaded resolver scripts: %v", loaded)
	}

	return nil
}
