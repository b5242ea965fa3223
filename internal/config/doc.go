// Package config reads the optional HCL settings file of the command-line
// host. Every attribute and block is optional; unset values are left nil so
// that the caller can layer command-line flags and defaults over them.
//
//	log_level  = "debug"
//	tier       = "sextant"
//	viewport {
//	  width  = 40
//	  height = 12
//	}
//	persistence {
//	  mode        = "keyed"
//	  dir         = "./.mdrun"
//	  document_id = "intro"
//	}
//	defaults {
//	  overwrite = false
//	}
package config
