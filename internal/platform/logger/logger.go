package logger

import "go.uber.org/zap"

// NewNamed builds a named zap logger. Development gets the console encoder
// with debug level; everything else gets the production JSON config.
func NewNamed(env, name string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
