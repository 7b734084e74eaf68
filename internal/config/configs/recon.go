package configs

// Recon configures the reconciliation engine. Store selects the record
// store backend; "memory" keeps everything in process and is meant for
// demos and tests. MaxAccounts bounds how many ad accounts a single
// orchestrator invocation processes so a run finishes inside the host
// request timeout; larger scopes are chunked across invocations.
type Recon struct {
	// Store is "postgres" (default) or "memory".
	Store string `env:"STORE" envDefault:"postgres"`

	// MaxAccounts is the per-invocation ad account limit.
	MaxAccounts int `env:"MAX_ACCOUNTS" envDefault:"25"`
}
