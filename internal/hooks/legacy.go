package hooks

import "github.com/quantmind-br/assetmanifest/internal/domain"

// LegacyAfterEmitEvent is the event name published to legacy plugin hosts
const LegacyAfterEmitEvent = "webpack-manifest-plugin-after-emit"

// LegacyBridge returns a waterfall tap that forwards each value to a host
// speaking the event-name plugin protocol. The value passes through
// unchanged; callback errors are handed to onError when set.
func LegacyBridge[T any](host domain.LegacyPluginHost, onError func(error)) func(T) T {
	return func(v T) T {
		host.ApplyPluginsAsync(LegacyAfterEmitEvent, v, func(err error) {
			if err != nil && onError != nil {
				onError(err)
			}
		})
		return v
	}
}
