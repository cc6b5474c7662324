package utils

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

const LDConnectionTimeout = 5 * time.Second

// FlagSnapshot reads static flags once at boot. Without an SDK key the
// LaunchDarkly client runs offline and every variation returns its default.
type FlagSnapshot struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

func NewFlagSnapshot(sdkKey, contextKind, contextKey string) (*FlagSnapshot, error) {
	var (
		client *ld.LDClient
		err    error
	)
	if sdkKey == "" {
		Logger.Info("LD_SDK_KEY not set; feature flags use their defaults")
		client, err = ld.MakeCustomClient("offline", ld.Config{Offline: true}, 0)
	} else {
		client, err = ld.MakeClient(sdkKey, LDConnectionTimeout)
	}
	if err != nil {
		return nil, err
	}
	if contextKind == "" {
		contextKind = "service"
	}
	return &FlagSnapshot{
		client: client,
		ctx:    ldcontext.NewWithKind(ldcontext.Kind(contextKind), contextKey),
	}, nil
}

func (f *FlagSnapshot) Bool(key string, def bool) bool {
	v, err := f.client.BoolVariation(key, f.ctx, def)
	if err != nil {
		Logger.WithError(err).Warnf("Error retrieving %s flag, using default %t", key, def)
		return def
	}
	Logger.Debugf("%s flag: %t", key, v)
	return v
}

func (f *FlagSnapshot) Int(key string, def int) int {
	v, err := f.client.IntVariation(key, f.ctx, def)
	if err != nil {
		Logger.WithError(err).Warnf("Error retrieving %s flag, using default %d", key, def)
		return def
	}
	Logger.Debugf("%s flag: %d", key, v)
	return v
}

func (f *FlagSnapshot) Close() {
	if f != nil && f.client != nil {
		_ = f.client.Close()
	}
}
