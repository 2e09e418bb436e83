// Package config loads probe-set definitions from YAML.
//
// A probe-set file declares the runner options, the HTTP endpoint
// settings, and one section per probe:
//
//	runner:
//	  tag_filter: [ready]
//	  probe_timeout_seconds: 2
//	  max_concurrency: 8
//	probes:
//	  - name: rootfs
//	    type: disk
//	    tags: [ready]
//	    disk: {path: /, warn_percent: 20, critical_percent: 5}
//	  - name: billing-api
//	    type: http
//	    tags: [ready]
//	    http: {url: "https://billing.internal/healthz", timeout_seconds: 3}
//
// Values may reference environment variables with ${VAR}; a referenced
// variable missing from the environment fails the load rather than
// silently expanding to the empty string.
package config
