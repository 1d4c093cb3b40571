package runtime

import (
	"github.com/code-payments/code-faucet/pkg/config"
	"github.com/code-payments/code-faucet/pkg/config/env"
	"github.com/code-payments/code-faucet/pkg/config/memory"
	"github.com/code-payments/code-faucet/pkg/config/wrapper"
)

const (
	envConfigPrefix = "RUNTIME_"

	RentLamportsPerByteYearConfigEnvName = envConfigPrefix + "RENT_LAMPORTS_PER_BYTE_YEAR"
	defaultRentLamportsPerByteYear       = 3480

	RentExemptionThresholdConfigEnvName = envConfigPrefix + "RENT_EXEMPTION_THRESHOLD"
	defaultRentExemptionThreshold       = 2.0

	MaxInvokeDepthConfigEnvName = envConfigPrefix + "MAX_INVOKE_DEPTH"
	defaultMaxInvokeDepth       = 4

	AccountLockStripesConfigEnvName = envConfigPrefix + "ACCOUNT_LOCK_STRIPES"
	defaultAccountLockStripes       = 1024
)

type conf struct {
	rentLamportsPerByteYear config.Uint64
	rentExemptionThreshold  config.Float64
	maxInvokeDepth          config.Uint64
	accountLockStripes      config.Uint64

	// Only settable through test overrides
	disableSignatureVerification bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rentLamportsPerByteYear: env.NewUint64Config(RentLamportsPerByteYearConfigEnvName, defaultRentLamportsPerByteYear),
			rentExemptionThreshold:  env.NewFloat64Config(RentExemptionThresholdConfigEnvName, defaultRentExemptionThreshold),
			maxInvokeDepth:          env.NewUint64Config(MaxInvokeDepthConfigEnvName, defaultMaxInvokeDepth),
			accountLockStripes:      env.NewUint64Config(AccountLockStripesConfigEnvName, defaultAccountLockStripes),
		}
	}
}

type testOverrides struct {
	maxInvokeDepth               uint64
	accountLockStripes           uint64
	disableSignatureVerification bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			rentLamportsPerByteYear:      wrapper.NewUint64Config(memory.NewConfig(uint64(defaultRentLamportsPerByteYear)), defaultRentLamportsPerByteYear),
			rentExemptionThreshold:       wrapper.NewFloat64Config(memory.NewConfig(defaultRentExemptionThreshold), defaultRentExemptionThreshold),
			maxInvokeDepth:               wrapper.NewUint64Config(memory.NewConfig(overrides.maxInvokeDepth), defaultMaxInvokeDepth),
			accountLockStripes:           wrapper.NewUint64Config(memory.NewConfig(overrides.accountLockStripes), defaultAccountLockStripes),
			disableSignatureVerification: overrides.disableSignatureVerification,
		}
	}
}
