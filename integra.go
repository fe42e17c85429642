// Package integra is a client SDK for the SERPRO Integra Contador
// gateway: token lifecycle with mTLS client-credentials authentication,
// per-service request templates, and a retrying HTTP execution layer.
package integra

import "github.com/goliatone/go-integra/core"

type Config = core.Config

type PartyConfig = core.PartyConfig
type HTTPConfig = core.HTTPConfig

type Environment = core.Environment

type Token = core.Token
type CachedToken = core.CachedToken
type SavedConfig = core.SavedConfig

type Party = core.Party
type PartyType = core.PartyType
type RequestParties = core.RequestParties

type TokenSource = core.TokenSource
type TokenStore = core.TokenStore
type MetricsRecorder = core.MetricsRecorder

const (
	EnvironmentTrial      = core.EnvironmentTrial
	EnvironmentProduction = core.EnvironmentProduction

	PartyTypeCPF  = core.PartyTypeCPF
	PartyTypeCNPJ = core.PartyTypeCNPJ

	TrialToken = core.TrialToken
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}
