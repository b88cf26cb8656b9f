// Package config loads and validates OMM project configuration.
//
// A project is a directory carrying an omm.json (or omm.yaml) file that
// names the input documents, the output directory, compiler options,
// and the dev server and publish settings. Loading applies defaults and
// validates the result, so the rest of the toolchain can trust every
// field.
package config
