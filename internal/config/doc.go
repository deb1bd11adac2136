// Package config provides configuration parsing for liststate.
//
// The configuration is stored in liststate.json (comments and trailing
// commas allowed, also as .jsonc), liststate.yaml (or .yml) or
// liststate.toml. This package handles loading, saving, and validating
// configuration. A read-only configuration can also be fetched from S3
// with LoadS3.
//
// # Configuration File Structure
//
//	{
//	  "resources": {
//	    "devices":  { "perPage": 50 },
//	    "releases": { "basePath": "/software/releases" }
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "writeTimeout": "10s",
//	    "allowedOrigins": ["https://console.example.com"]
//	  },
//	  "cache":   { "size": 128 },
//	  "metrics": { "enabled": true, "namespace": "liststate" },
//	  "tracing": { "enabled": false, "tracerName": "liststate" }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f := listsync.New(nav, listsync.WithDefaults(cfg.Defaults()))
//
//	remote, err := config.LoadS3(ctx, config.NewS3Client(), "s3://ops/console/liststate.yaml")
package config
