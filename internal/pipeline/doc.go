// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline reads a pipeline definition from YAML or HCL and copies an
// input to a set of layered outputs.
//
// A YAML definition looks like this:
//
//	name: nightly
//	input: build.log
//	outputs:
//	  - path: archive.log
//	    mode: ">>"
//	    layers:
//	      - name: flock
//	        arg: non-blocking
//	    tee:
//	      - "> latest.log"
//
// The same definition in HCL, where environment variables are available as env.NAME:
//
//	name  = "nightly"
//	input = "build.log"
//
//	output "archive.log" {
//	  mode = ">>"
//	  layer "flock" {
//	    arg = "non-blocking"
//	  }
//	  tee = ["> ${env.HOME}/latest.log"]
//	}
package pipeline
