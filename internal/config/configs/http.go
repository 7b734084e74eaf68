package configs

// HTTP defines configuration for the HTTP API server.
type HTTP struct {
	// Port is the TCP port the server will listen on. Defaults to 8080.
	Port uint16 `env:"PORT" envDefault:"8080"`
}
