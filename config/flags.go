package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MustBindPFlag binds key to a cobra flag and panics if the binding fails
func MustBindPFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

// MustBindEnv binds key to the given environment variables and panics on failure
func MustBindEnv(v *viper.Viper, input ...string) {
	if err := v.BindEnv(input...); err != nil {
		panic("failed to bind env key: " + err.Error())
	}
}
