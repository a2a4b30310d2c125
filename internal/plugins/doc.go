// Package plugins defines the contract between the host and the plugins it loads.
//
// Plugins log through the package-level functions of pluginlog. The host
// registers every plugin's import path, so their lines are tagged without the
// plugin passing any identity around.
package plugins
