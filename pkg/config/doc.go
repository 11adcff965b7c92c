// Package config loads env-tagged configuration structs from the process
// environment, with optional .env file support.
//
// Each configuration type is parsed once and cached for the lifetime of the
// process, so packages can declare their own config structs and load them
// independently without coordinating:
//
//	var cfg docstore.Config
//	if err := config.Load(&cfg); err != nil {
//	    // a required variable is missing or malformed
//	}
//
// Tests that mutate the environment should call ResetCache between loads.
package config
