// Package core holds the shared domain model for the Integra Contador
// client: environments, tokens, credentials, configuration, the error
// taxonomy, and the contracts implemented by the auth, transport, and
// store packages.
package core
