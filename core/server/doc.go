// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package only
// defines the configuration structure consumed by core/config and the start command.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key protecting every route and the
// graceful shutdown window.
package server
