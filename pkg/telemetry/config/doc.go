/*
Package config provides type-safe configuration extraction from map[string]any.

# Overview

config wraps a map[string]any and provides typed accessor methods that handle
missing keys and type mismatches gracefully by returning default values.
The telemetry pipeline uses it to load abandonment policy and platform
endpoints from YAML/JSON without verbose type assertions and nil checks.

# Basic Usage

Create a Config from any map and extract values with defaults:

	cfg := config.New(map[string]any{
	    "cart_abandon_ttl": "24h",
	    "checkout_abandon_min_age": "5m",
	})

	ttl := cfg.Duration("cart_abandon_ttl", 24*time.Hour)
	missing := cfg.String("meta_capi_url", "") // ""

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("telemetry.yaml")
	if err != nil {
	    log.Fatal(err)
	}

Nested sections are reachable with Sub:

	relay := cfg.Sub("relay")
	metaURL := relay.String("meta_capi_url", "")

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation. However, if the original map is modified
externally, behavior is undefined.
*/
package config
