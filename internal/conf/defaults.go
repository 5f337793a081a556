// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.device", "")
	viper.SetDefault("audio.framesamples", DefaultFrameSamples)

	viper.SetDefault("detection.threshold", 0.1)
	viper.SetDefault("detection.windowseconds", 1.0)
	viper.SetDefault("detection.overlapseconds", 0.5)
	viper.SetDefault("detection.cooldownseconds", 2.0)
	viper.SetDefault("detection.saveclips", false)
	viper.SetDefault("detection.clippath", "clips")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "")
	viper.SetDefault("mqtt.topic", "marvin/wake")
	viper.SetDefault("mqtt.clientid", "marvin-go")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.listen", "localhost:9090")

	viper.SetDefault("realtime.awaittimeoutms", 100)

	viper.SetDefault("log.file", "")
	viper.SetDefault("log.maxsizemb", 100)
	viper.SetDefault("log.maxbackups", 3)
	viper.SetDefault("log.maxagedays", 28)
}
