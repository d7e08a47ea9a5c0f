// Package config provides configuration parsing for htmldoc projects.
//
// The configuration is stored in htmldoc.json at the project root. Before
// decoding, a .env file next to it is loaded into the environment (without
// overriding variables that are already set) and ${VAR} references in the
// file are expanded, so secrets such as bucket names can stay out of the
// checked-in file.
//
// # Configuration File Structure
//
//	{
//	  "render":  { "indent": " " },
//	  "reports": { "dir": "reports", "output": "dist" },
//	  "serve": {
//	    "host": "localhost",
//	    "port": 4040,
//	    "liveReload": true,
//	    "debounce": "200ms"
//	  },
//	  "metrics": { "enabled": true, "namespace": "htmldoc", "path": "/metrics" },
//	  "tracing": { "enabled": false, "tracerName": "htmldoc" },
//	  "publish": {
//	    "bucket": "${HTMLDOC_BUCKET}",
//	    "prefix": "reports/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Preview on", cfg.ServeURL())
package config
