// Package workerforge provides a scaffolding toolchain for serverless
// worker projects.
//
// Usage:
//
//	import "github.com/workerforge/workerforge/scaffold"
//
//	resp, err := scaffold.Generate(project,
//	    scaffold.WithDurableObject("Counter"),
//	    scaffold.WithAlarm(),
//	)
//
// The scaffolder takes a project manifest and returns a render-ready
// response document: path-annotated file blocks for the minimum project
// file set plus one patch-configuration block. The response package
// parses, renders, and lints that format; the composer package is the
// only component that calls an external AI service.
package workerforge
