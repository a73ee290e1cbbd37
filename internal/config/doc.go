// Package config loads nano's CLI and dev server configuration.
//
// Configuration comes from, in increasing priority: built-in defaults, a
// nano.yaml file (searched in the working directory and in
// $HOME/.config/nano unless a path is given), and NANO_* environment
// variables where dots in the key become underscores (NANO_DEV_PORT for
// dev.port).
//
// # Configuration File Structure
//
//	dev:
//	  host: localhost
//	  port: 3000
//	  metrics: true
//	log:
//	  level: info      # debug, info, warn, error
//	  format: text     # text, json
//	scheduler:
//	  queue_size: 64
//	  max_passes: 100
//	hydrate:
//	  container: app
//	  lazy:
//	    visible: true
//	    idle: false
//	    interaction: false
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, _ := cfg.Log.NewLogger(os.Stderr)
//
// A Loader additionally watches the file and delivers validated
// configurations as it changes.
package config
