// Package config loads environment-driven configuration structs.
//
// Structs declare their variables with github.com/caarlos0/env tags. The first
// call to Load reads a .env file from the working directory when one exists,
// then parses the environment into the struct. Each struct type is parsed once
// and cached, so packages can call Load for the same type without re-reading the
// environment.
//
//	var cfg hasher.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
package config
