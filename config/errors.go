package config

import "errors"

var (
	ErrReadingConfigFile    = errors.New("failed to read config file")
	ErrUnmarshallingConfig  = errors.New("failed to unmarshal config")
	ErrInvalidWeaveGap      = errors.New("analysis weaveGap must be positive")
	ErrInvalidOpenerLength  = errors.New("analysis openerLength must be at least 1")
	ErrInvalidRetries       = errors.New("esologs maxRetries must be at least 1")
	ErrEmptyKafkaTopic      = errors.New("kafka topic cannot be empty when brokers are set")
	ErrMissingCredentials   = errors.New("esologs clientID and clientSecret are required")
	ErrInvalidServerAddress = errors.New("server addr cannot be empty")
)
