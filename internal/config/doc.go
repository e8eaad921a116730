// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

/*
Package config provides layered application configuration using Koanf v2.

Configuration is assembled from three sources, later sources overriding
earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH or the DefaultConfigPaths)
 3. Environment variables (see envTransformFunc for the mapping)

Example:

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("failed to load configuration")
	}
	fmt.Println(cfg.Server.Address())

All loaded configurations are validated before being returned; a Config
obtained from LoadWithKoanf is always internally consistent.
*/
package config
